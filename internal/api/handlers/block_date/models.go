package block_date

// BlockDateRequest HTTP request model
type BlockDateRequest struct {
	Date   string  `json:"date"` // "2024-06-10"
	Reason *string `json:"reason,omitempty"`
}
