package pricing

import "errors"

var (
	// ErrUnknownPackage возвращается, когда пакет не найден в каталоге
	ErrUnknownPackage = errors.New("unknown package")

	// ErrUnknownAddon возвращается, когда опция не найдена в каталоге или найдена неоднозначно
	ErrUnknownAddon = errors.New("unknown add-on")

	// ErrCatalogUnavailable возвращается, когда каталог не удалось получить
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
