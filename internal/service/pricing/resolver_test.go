package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.(*domain.Catalog), args.Error(1)
	}
	return nil, args.Error(1)
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Packages: []domain.Package{
			{ID: "Exterior Detail", Name: "Exterior Detail", Price: 90},
			{ID: "Full Detail", Name: "Full Detail", Price: 150},
		},
		Addons: []domain.Addon{
			{ID: "Interior Shampoo", Name: "Interior Shampoo", Price: 40},
			{ID: "Pet Hair Removal", Name: "Pet Hair Removal", Price: 30},
			{ID: "Wax", Name: "Wax", Price: 20},
			{ID: "Wax", Name: "Wax", Price: 25},
		},
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		packageID string
		addonIDs  []string
		want      int64
		wantErr   error
	}{
		{name: "package only", packageID: "Full Detail", want: 150},
		{name: "package with addon", packageID: "Full Detail", addonIDs: []string{"Interior Shampoo"}, want: 190},
		{name: "several addons", packageID: "Exterior Detail", addonIDs: []string{"Interior Shampoo", "Pet Hair Removal"}, want: 160},
		{name: "duplicate addon counted once", packageID: "Full Detail", addonIDs: []string{"Interior Shampoo", "Interior Shampoo"}, want: 190},
		{name: "unknown package", packageID: "Ceramic Coating", wantErr: ErrUnknownPackage},
		{name: "unknown addon", packageID: "Full Detail", addonIDs: []string{"Clay Bar"}, wantErr: ErrUnknownAddon},
		{name: "ambiguous addon", packageID: "Full Detail", addonIDs: []string{"Wax"}, wantErr: ErrUnknownAddon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := Calculate(testCatalog(), tt.packageID, tt.addonIDs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, quote.Total)
		})
	}
}

func TestCalculate_AddonIDsAreDistinct(t *testing.T) {
	quote, err := Calculate(testCatalog(), "Full Detail", []string{"Pet Hair Removal", "Interior Shampoo", "Pet Hair Removal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pet Hair Removal", "Interior Shampoo"}, quote.AddonIDs())
}

func TestResolver_Price(t *testing.T) {
	ctx := context.Background()
	catalog := &mockCatalog{}
	catalog.On("GetCatalog", ctx).Return(testCatalog(), nil).Once()

	r := NewResolver(catalog, logger.NewNop())
	quote, err := r.Price(ctx, "Full Detail", []string{"Interior Shampoo"})
	require.NoError(t, err)
	assert.EqualValues(t, 190, quote.Total)
	catalog.AssertExpectations(t)
}

func TestResolver_CatalogUnavailable(t *testing.T) {
	ctx := context.Background()
	catalog := &mockCatalog{}
	catalog.On("GetCatalog", ctx).Return(nil, errors.New("timeout"))

	r := NewResolver(catalog, logger.NewNop())
	_, err := r.Price(ctx, "Full Detail", nil)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
