package create_appointment

import "errors"

var (
	// ErrValidationFailed возвращается при отсутствующем или некорректном поле запроса
	ErrValidationFailed = errors.New("create_appointment: validation failed")

	// ErrOutOfWindow возвращается, когда дата вне горизонта бронирования
	ErrOutOfWindow = errors.New("create_appointment: date is outside the booking window")

	// ErrUnknownPackage возвращается, когда пакет не найден в каталоге
	ErrUnknownPackage = errors.New("create_appointment: unknown package")

	// ErrUnknownAddon возвращается, когда опция не найдена в каталоге
	ErrUnknownAddon = errors.New("create_appointment: unknown add-on")

	// ErrSlotUnavailable возвращается, когда слот закрыт или уже занят
	ErrSlotUnavailable = errors.New("create_appointment: slot is unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
