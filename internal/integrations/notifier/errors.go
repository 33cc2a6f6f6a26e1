package notifier

import "errors"

var (
	// ErrEnqueue возвращается, если задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("notifier: failed to enqueue task")

	// ErrInvalidPayload возвращается при некорректном payload задачи
	ErrInvalidPayload = errors.New("notifier: invalid task payload")
)
