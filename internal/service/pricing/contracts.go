package pricing

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// CatalogProvider источник актуального каталога пакетов и опций
type CatalogProvider interface {
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
