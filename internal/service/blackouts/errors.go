package blackouts

import "errors"

var (
	// ErrNotBlocked возвращается при снятии блокировки с незаблокированной даты
	ErrNotBlocked = errors.New("date is not blocked")

	// ErrInvalidDate возвращается при попытке заблокировать прошедшую дату
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("blackouts: internal error")
)
