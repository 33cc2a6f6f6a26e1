package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Параметры задач уведомлений
const (
	maxRetry    = 5
	taskTimeout = 30 * time.Second
	// enqueueTimeout ограничивает ожидание redis в обработчике запроса
	enqueueTimeout = 2 * time.Second
)

// Client ставит письма о записях в очередь asynq. Отправкой занимается worker.
type Client struct {
	enqueuer Enqueuer
	log      Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(enqueuer Enqueuer, log Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		log:      log,
	}
}

// AppointmentCreated ставит в очередь подтверждение клиенту и оповещение администратору
func (c *Client) AppointmentCreated(ctx context.Context, a *domain.Appointment) error {
	return c.enqueue(ctx, TypeAppointmentCreated, a)
}

// AppointmentStatusChanged ставит в очередь письмо клиенту о смене статуса
func (c *Client) AppointmentStatusChanged(ctx context.Context, a *domain.Appointment) error {
	return c.enqueue(ctx, TypeAppointmentStatusChanged, a)
}

func (c *Client) enqueue(ctx context.Context, taskType string, a *domain.Appointment) error {
	task, err := NewAppointmentTask(taskType, a)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()

	info, err := c.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(Queue),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	)
	if err != nil {
		return fmt.Errorf("%w: %s for appointment id=%s: %v", ErrEnqueue, taskType, a.ID, err)
	}

	c.log.Info("Notifier: enqueued %s task id=%s for appointment id=%s", taskType, info.ID, a.ID)
	return nil
}

// Noop уведомления выключены
type Noop struct{}

// AppointmentCreated ничего не делает
func (Noop) AppointmentCreated(context.Context, *domain.Appointment) error { return nil }

// AppointmentStatusChanged ничего не делает
func (Noop) AppointmentStatusChanged(context.Context, *domain.Appointment) error { return nil }
