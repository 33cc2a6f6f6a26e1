package catalog

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе сайта
	ErrInvalidResponse = errors.New("catalog client: invalid response")

	// ErrInvalidCatalog возвращается, если каталог не проходит проверку
	ErrInvalidCatalog = errors.New("catalog client: invalid catalog")

	// ErrNoSource возвращается, если не задан ни URL, ни файл каталога
	ErrNoSource = errors.New("catalog client: no catalog source configured")
)
