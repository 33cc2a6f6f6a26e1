package pricing

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Quote рассчитанная стоимость записи
type Quote struct {
	Package domain.Package
	Addons  []domain.Addon // без повторов, в порядке запроса
	Total   int64
}

// AddonIDs id выбранных опций без повторов
func (q *Quote) AddonIDs() []string {
	ids := make([]string, len(q.Addons))
	for i, a := range q.Addons {
		ids[i] = a.ID
	}
	return ids
}

// Resolver считает стоимость пакета с опциями по текущему каталогу
type Resolver struct {
	catalog CatalogProvider
	logger  Logger
}

// NewResolver создает новый экземпляр калькулятора стоимости
func NewResolver(catalog CatalogProvider, logger Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		logger:  logger,
	}
}

// Price возвращает стоимость пакета packageID с опциями addonIDs
func (r *Resolver) Price(ctx context.Context, packageID string, addonIDs []string) (*Quote, error) {
	catalog, err := r.catalog.GetCatalog(ctx)
	if err != nil {
		r.logger.Error("Price: failed to load catalog: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	quote, err := Calculate(catalog, packageID, addonIDs)
	if err != nil {
		r.logger.Warn("Price: %v", err)
		return nil, err
	}

	return quote, nil
}

// Calculate итог = цена пакета + сумма цен различных опций.
// Повторно выбранная опция учитывается один раз.
func Calculate(catalog *domain.Catalog, packageID string, addonIDs []string) (*Quote, error) {
	pkg, ok := catalog.FindPackage(packageID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, packageID)
	}

	quote := &Quote{
		Package: pkg,
		Addons:  make([]domain.Addon, 0, len(addonIDs)),
		Total:   pkg.Price,
	}

	seen := make(map[string]struct{}, len(addonIDs))
	for _, id := range addonIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		matches := catalog.FindAddons(id)
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("%w: %q", ErrUnknownAddon, id)
		case 1:
			quote.Addons = append(quote.Addons, matches[0])
			quote.Total += matches[0].Price
		default:
			return nil, fmt.Errorf("%w: %q matches %d catalog entries", ErrUnknownAddon, id, len(matches))
		}
	}

	return quote, nil
}
