package reservation

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда слот закрыт блокировкой или уже занят
	ErrSlotUnavailable = errors.New("slot is unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservation: internal error")
)
