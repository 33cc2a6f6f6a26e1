package transition_appointment

// TransitionRequest необязательное тело запроса смены статуса.
// Reason учитывается только для decline.
type TransitionRequest struct {
	Reason *string `json:"reason,omitempty"`
}
