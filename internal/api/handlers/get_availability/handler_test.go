package get_availability

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Summarize(ctx context.Context, start, end types.Date) ([]domain.DayAvailability, error) {
	args := m.Called(ctx, start, end)
	if d := args.Get(0); d != nil {
		return d.([]domain.DayAvailability), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestHandle(t *testing.T) {
	blocked := domain.NewDayAvailability(types.MustParseDate("2024-06-10"))
	blocked.BlockedByAdmin = true
	blocked.SlotOpen[domain.SlotMorning] = false
	blocked.SlotOpen[domain.SlotAfternoon] = false

	full := domain.NewDayAvailability(types.MustParseDate("2024-06-11"))
	full.SlotOpen[domain.SlotMorning] = false
	full.SlotOpen[domain.SlotAfternoon] = false

	svc := &mockService{}
	svc.On("Summarize", mock.Anything, types.MustParseDate("2024-06-10"), types.MustParseDate("2024-06-11")).
		Return([]domain.DayAvailability{blocked, full}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability/summary?start=2024-06-10&end=2024-06-11", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"days":[
		{"date":"2024-06-10","slots":{"morning":false,"afternoon":false},"blockedByAdmin":true,"fullyBooked":false},
		{"date":"2024-06-11","slots":{"morning":false,"afternoon":false},"blockedByAdmin":false,"fullyBooked":true}
	]}`, w.Body.String())
}

func TestHandle_BadRequests(t *testing.T) {
	svc := &mockService{}
	svc.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: too long", availability.ErrInvalidRange))
	h := NewHandler(svc, logger.NewNop())

	for _, query := range []string{"", "?start=2024-06-10", "?start=10.06.2024&end=2024-06-11", "?start=2024-06-10&end=2025-06-11"} {
		w := httptest.NewRecorder()
		h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability/summary"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestHandle_InternalError(t *testing.T) {
	svc := &mockService{}
	svc.On("Summarize", mock.Anything, mock.Anything, mock.Anything).Return(nil, availability.ErrInternal)

	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability/summary?start=2024-06-10&end=2024-06-11", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
