package availability

import "errors"

var (
	// ErrInvalidRange возвращается для перевернутого или слишком длинного диапазона дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
