package create_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-DetailingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*createAppointment.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const body = `{
	"name": "Jane Doe",
	"email": "jane@example.com",
	"vehicle": "2019 Honda Civic",
	"condition": "Well Maintained",
	"service": "Full Detail",
	"addons": ["Interior Shampoo"],
	"date": "2024-06-02",
	"slot": "AM",
	"total": 1
}`

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.PackageID == "Full Detail" && req.Slot == "AM" && req.AccountID != nil && *req.AccountID == "account-1"
	})).Return(&createAppointment.Response{
		ID:         "5f0c7b1e-6a53-4c1e-9d55-0d7c4f7b2a10",
		ClientName: "Jane Doe",
		Email:      "jane@example.com",
		PackageID:  "Full Detail",
		AddonIDs:   []string{"Interior Shampoo"},
		Date:       types.MustParseDate("2024-06-02"),
		Slot:       "morning",
		SlotLabel:  "7am–12pm",
		TotalPrice: 190,
		Status:     "pending",
		CreatedAt:  time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	r = r.WithContext(middleware.WithPrincipal(r.Context(), middleware.Principal{AccountID: "account-1"}))
	w := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPrice":190`)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.Contains(t, w.Body.String(), `"createdAt":"2024-06-01T10:00:00Z"`)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: fmt.Errorf("%w: email is required", createAppointment.ErrValidationFailed), status: http.StatusBadRequest},
		{name: "window", err: createAppointment.ErrOutOfWindow, status: http.StatusBadRequest},
		{name: "package", err: createAppointment.ErrUnknownPackage, status: http.StatusBadRequest},
		{name: "addon", err: createAppointment.ErrUnknownAddon, status: http.StatusBadRequest},
		{name: "slot", err: createAppointment.ErrSlotUnavailable, status: http.StatusConflict},
		{name: "internal", err: createAppointment.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
				return req.AccountID == nil
			})).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandle_ValidationMessage(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: email is required", createAppointment.ErrValidationFailed))

	w := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))
	assert.JSONEq(t, `{"error":"некорректные данные записи: email is required"}`, w.Body.String())
}

func TestHandle_InvalidBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(&mockUseCase{}, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
