package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-DetailingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-DetailingService/pkg/mailer"
)

// Handler обрабатывает задачи очереди уведомлений и отправляет письма
type Handler struct {
	mailer     Mailer
	adminEmail string
	metrics    Metrics
	logger     Logger
}

// NewHandler создает обработчик. adminEmail может быть пустым - тогда администратор писем не получает.
func NewHandler(mailer Mailer, adminEmail string, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		mailer:     mailer,
		adminEmail: adminEmail,
		metrics:    metrics,
		logger:     logger,
	}
}

// Register регистрирует обработчики в asynq mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(notifier.TypeAppointmentCreated, h.HandleAppointmentCreated)
	mux.HandleFunc(notifier.TypeAppointmentStatusChanged, h.HandleAppointmentStatusChanged)
}

// HandleAppointmentCreated отправляет подтверждение клиенту и оповещение администратору
func (h *Handler) HandleAppointmentCreated(ctx context.Context, task *asynq.Task) error {
	p, err := h.parse(task)
	if err != nil {
		return err
	}

	body, err := render(clientConfirmationTmpl, p)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err := h.send(ctx, task.Type(), mailer.Message{
		To:      []string{p.Email},
		Subject: fmt.Sprintf("Booking request received for %s", p.Date),
		Body:    body,
	}); err != nil {
		return err
	}

	if h.adminEmail == "" {
		return nil
	}

	body, err = render(adminAlertTmpl, p)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	// Повтор задачи повторил бы и письмо клиенту, поэтому ошибку оповещения только логируем
	if err := h.send(ctx, task.Type(), mailer.Message{
		To:      []string{h.adminEmail},
		Subject: fmt.Sprintf("New booking: %s %s, %s", p.Date, p.Slot, p.ClientName),
		Body:    body,
	}); err != nil {
		h.logger.Warn("HandleAppointmentCreated: admin alert for id=%s not sent: %v", p.ID, err)
	}

	return nil
}

// HandleAppointmentStatusChanged отправляет клиенту письмо о новом статусе записи
func (h *Handler) HandleAppointmentStatusChanged(ctx context.Context, task *asynq.Task) error {
	p, err := h.parse(task)
	if err != nil {
		return err
	}

	body, err := render(statusChangedTmpl, p)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	return h.send(ctx, task.Type(), mailer.Message{
		To:      []string{p.Email},
		Subject: fmt.Sprintf("Your appointment on %s is %s", p.Date, p.Status),
		Body:    body,
	})
}

func (h *Handler) parse(task *asynq.Task) (notifier.AppointmentPayload, error) {
	p, err := notifier.ParseAppointmentPayload(task)
	if err != nil {
		h.metrics.RecordNotificationFailure(task.Type())
		h.logger.Error("%s: dropping task: %v", task.Type(), err)
		return p, fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return p, nil
}

func (h *Handler) send(ctx context.Context, kind string, msg mailer.Message) error {
	if err := h.mailer.Send(ctx, msg); err != nil {
		h.metrics.RecordNotificationFailure(kind)
		if errors.Is(err, mailer.ErrNoRecipients) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		h.logger.Warn("%s: failed to send %q: %v", kind, msg.Subject, err)
		return err
	}
	h.logger.Info("%s: sent %q to %v", kind, msg.Subject, msg.To)
	return nil
}
