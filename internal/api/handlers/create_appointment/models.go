package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-DetailingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model (поля формы записи на сайте).
// Итоговая цена, присланная клиентом, игнорируется и пересчитывается по каталогу.
type CreateAppointmentRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Vehicle   string   `json:"vehicle"`
	Condition string   `json:"condition"`
	Service   string   `json:"service"` // пакет услуг
	Addons    []string `json:"addons"`
	Date      string   `json:"date"` // "2024-06-02"
	Slot      string   `json:"slot"` // "AM" | "PM" | "morning" | "afternoon"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID         string   `json:"id"`
	ClientName string   `json:"clientName"`
	Email      string   `json:"email"`
	Vehicle    string   `json:"vehicle"`
	Condition  string   `json:"condition"`
	PackageID  string   `json:"packageId"`
	AddonIDs   []string `json:"addonIds"`
	Date       string   `json:"date"`
	Slot       string   `json:"slot"`
	SlotLabel  string   `json:"slotLabel"`
	TotalPrice int64    `json:"totalPrice"`
	Status     string   `json:"status"`
	AccountID  *string  `json:"accountId,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(accountID *string) *createAppointment.Request {
	return &createAppointment.Request{
		ClientName: r.Name,
		Email:      r.Email,
		Vehicle:    r.Vehicle,
		Condition:  r.Condition,
		PackageID:  r.Service,
		AddonIDs:   r.Addons,
		Date:       r.Date,
		Slot:       r.Slot,
		AccountID:  accountID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	addons := resp.AddonIDs
	if addons == nil {
		addons = []string{}
	}
	return &AppointmentResponse{
		ID:         resp.ID,
		ClientName: resp.ClientName,
		Email:      resp.Email,
		Vehicle:    resp.Vehicle,
		Condition:  resp.Condition,
		PackageID:  resp.PackageID,
		AddonIDs:   addons,
		Date:       resp.Date.String(),
		Slot:       resp.Slot,
		SlotLabel:  resp.SlotLabel,
		TotalPrice: resp.TotalPrice,
		Status:     resp.Status,
		AccountID:  resp.AccountID,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
