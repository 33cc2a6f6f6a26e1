package window

import "errors"

var (
	// ErrOutOfWindow возвращается для даты вне горизонта бронирования
	ErrOutOfWindow = errors.New("date is outside the booking window")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = errors.New("date is in the past")
)
