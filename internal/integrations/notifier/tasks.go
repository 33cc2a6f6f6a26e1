package notifier

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Типы задач очереди уведомлений
const (
	TypeAppointmentCreated       = "email:appointment_created"
	TypeAppointmentStatusChanged = "email:appointment_status_changed"
)

// Queue очередь asynq для писем
const Queue = "notifications"

// AppointmentPayload данные записи, нужные для письма
type AppointmentPayload struct {
	ID            string   `json:"id"`
	ClientName    string   `json:"clientName"`
	Email         string   `json:"email"`
	Vehicle       string   `json:"vehicle"`
	Condition     string   `json:"condition"`
	PackageID     string   `json:"packageId"`
	AddonIDs      []string `json:"addonIds"`
	Date          string   `json:"date"`
	Slot          string   `json:"slot"`
	SlotLabel     string   `json:"slotLabel"`
	TotalPrice    int64    `json:"totalPrice"`
	Status        string   `json:"status"`
	DeclineReason string   `json:"declineReason,omitempty"`
}

// NewAppointmentPayload собирает payload из domain модели
func NewAppointmentPayload(a *domain.Appointment) AppointmentPayload {
	p := AppointmentPayload{
		ID:         a.ID,
		ClientName: a.ClientName,
		Email:      a.Email,
		Vehicle:    a.Vehicle,
		Condition:  string(a.Condition),
		PackageID:  a.PackageID,
		AddonIDs:   a.AddonIDs,
		Date:       a.Date.String(),
		Slot:       string(a.Slot),
		SlotLabel:  a.Slot.Label(),
		TotalPrice: a.TotalPrice,
		Status:     string(a.Status),
	}
	if a.DeclineReason != nil {
		p.DeclineReason = *a.DeclineReason
	}
	return p
}

// NewAppointmentTask создает задачу отправки письма заданного типа
func NewAppointmentTask(taskType string, a *domain.Appointment) (*asynq.Task, error) {
	b, err := json.Marshal(NewAppointmentPayload(a))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrEnqueue, err)
	}
	return asynq.NewTask(taskType, b), nil
}

// ParseAppointmentPayload разбирает payload задачи
func ParseAppointmentPayload(task *asynq.Task) (AppointmentPayload, error) {
	var p AppointmentPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.ID == "" || p.Email == "" {
		return p, fmt.Errorf("%w: id and email are required", ErrInvalidPayload)
	}
	return p, nil
}
