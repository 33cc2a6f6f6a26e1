package appointments

import "errors"

var (
	// ErrNotFound возвращается, когда запись не найдена
	ErrNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у аккаунта нет доступа к записи
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentUpdate возвращается, если статус записи менялся конкурентно на каждой попытке
	ErrConcurrentUpdate = errors.New("appointment was modified concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
