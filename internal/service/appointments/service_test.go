package appointments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingInvalidator struct {
	dates []types.Date
}

func (r *recordingInvalidator) Invalidate(_ context.Context, dates ...types.Date) {
	r.dates = append(r.dates, dates...)
}

type recordingNotifier struct {
	err      error
	statuses []domain.AppointmentStatus
}

func (r *recordingNotifier) AppointmentStatusChanged(_ context.Context, a *domain.Appointment) error {
	r.statuses = append(r.statuses, a.Status)
	return r.err
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	if a := args.Get(0); a != nil {
		return a.([]*domain.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, declineReason *string, updatedAt time.Time) error {
	args := m.Called(ctx, id, from, to, declineReason, updatedAt)
	return args.Error(0)
}

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	service     *Service
	repo        *appointmentRepo.Repository
	invalidator *recordingInvalidator
	notifier    *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.NewDB(t)
	repo := appointmentRepo.NewRepository(db, storagetest.Dialect)
	invalidator := &recordingInvalidator{}
	notifier := &recordingNotifier{}

	return &fixture{
		service:     NewService(repo, invalidator, notifier, (*metrics.Metrics)(nil), fixedTime{t: now}, logger.NewNop()),
		repo:        repo,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

func (f *fixture) seed(t *testing.T, date string, status domain.AppointmentStatus, accountID *string) *domain.Appointment {
	t.Helper()
	a := &domain.Appointment{
		ID:         uuid.NewString(),
		ClientName: "Jane Doe",
		Email:      "jane@example.com",
		Vehicle:    "2019 Honda Civic",
		Condition:  domain.ConditionDailyDriver,
		PackageID:  "Full Detail",
		AddonIDs:   []string{"Interior Shampoo"},
		Date:       types.MustParseDate(date),
		Slot:       domain.SlotMorning,
		TotalPrice: 190,
		Status:     domain.StatusPending,
		AccountID:  accountID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.repo.Create(context.Background(), a))
	if status != domain.StatusPending {
		require.NoError(t, f.repo.UpdateStatus(context.Background(), a.ID, domain.StatusPending, status, nil, now))
		a.Status = status
	}
	return a
}

func TestService_ApproveThenComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.seed(t, "2024-06-02", domain.StatusPending, nil)

	resp, err := f.service.Approve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Nil(t, resp.DeclineReason)

	_, err = f.service.Approve(ctx, a.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err = f.service.Complete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	_, err = f.service.Decline(ctx, a.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	// approve и complete слот не освобождают
	assert.Empty(t, f.invalidator.dates)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusApproved, domain.StatusCompleted}, f.notifier.statuses)
}

func TestService_Decline(t *testing.T) {
	ctx := context.Background()

	t.Run("default reason", func(t *testing.T) {
		f := newFixture(t)
		a := f.seed(t, "2024-06-03", domain.StatusPending, nil)

		resp, err := f.service.Decline(ctx, a.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "declined", resp.Status)
		require.NotNil(t, resp.DeclineReason)
		assert.Equal(t, domain.DefaultDeclineReason, *resp.DeclineReason)
		assert.Equal(t, []types.Date{a.Date}, f.invalidator.dates)

		stored, err := f.repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.DeclineReason)
		assert.Equal(t, domain.DefaultDeclineReason, *stored.DeclineReason)
	})

	t.Run("approved appointment with reason", func(t *testing.T) {
		f := newFixture(t)
		a := f.seed(t, "2024-06-04", domain.StatusApproved, nil)
		reason := "  Weather  "

		resp, err := f.service.Decline(ctx, a.ID, &reason)
		require.NoError(t, err)
		assert.Equal(t, "Weather", *resp.DeclineReason)

		_, err = f.service.Complete(ctx, a.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reason too long", func(t *testing.T) {
		f := newFixture(t)
		a := f.seed(t, "2024-06-05", domain.StatusPending, nil)
		long := strings.Repeat("x", domain.MaxReasonLength+1)

		_, err := f.service.Decline(ctx, a.ID, &long)
		assert.ErrorIs(t, err, ErrInvalidInput)

		stored, err := f.repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status)
	})
}

func TestService_Transition_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Approve(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.Approve(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Transition_NotificationFailureIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("queue is down")
	a := f.seed(t, "2024-06-06", domain.StatusPending, nil)

	resp, err := f.service.Approve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
}

func TestService_Transition_RetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	repo := &mockRepository{}

	pending := &domain.Appointment{ID: id, Status: domain.StatusPending, Date: types.MustParseDate("2024-06-02"), Slot: domain.SlotMorning}
	approved := &domain.Appointment{ID: id, Status: domain.StatusApproved, Date: types.MustParseDate("2024-06-02"), Slot: domain.SlotMorning}

	// первое чтение видит pending, но к моменту записи запись уже approved
	repo.On("GetByID", ctx, id).Return(pending, nil).Once()
	repo.On("UpdateStatus", ctx, id, domain.StatusPending, domain.StatusDeclined, mock.Anything, now).
		Return(appointmentRepo.ErrStatusConflict).Once()
	repo.On("GetByID", ctx, id).Return(approved, nil).Once()
	repo.On("UpdateStatus", ctx, id, domain.StatusApproved, domain.StatusDeclined, mock.Anything, now).
		Return(nil).Once()

	invalidator := &recordingInvalidator{}
	service := NewService(repo, invalidator, &recordingNotifier{}, (*metrics.Metrics)(nil), fixedTime{t: now}, logger.NewNop())

	resp, err := service.Decline(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, "declined", resp.Status)
	assert.Len(t, invalidator.dates, 1)
	repo.AssertExpectations(t)
}

func TestService_Transition_ConflictAfterReloadIsInvalid(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	repo := &mockRepository{}

	pending := &domain.Appointment{ID: id, Status: domain.StatusPending}
	declined := &domain.Appointment{ID: id, Status: domain.StatusDeclined}

	repo.On("GetByID", ctx, id).Return(pending, nil).Once()
	repo.On("UpdateStatus", ctx, id, domain.StatusPending, domain.StatusApproved, (*string)(nil), now).
		Return(appointmentRepo.ErrStatusConflict).Once()
	repo.On("GetByID", ctx, id).Return(declined, nil).Once()

	service := NewService(repo, &recordingInvalidator{}, &recordingNotifier{}, (*metrics.Metrics)(nil), fixedTime{t: now}, logger.NewNop())

	_, err := service.Approve(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertExpectations(t)
}

func TestService_Transition_GivesUp(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()
	repo := &mockRepository{}

	pending := &domain.Appointment{ID: id, Status: domain.StatusPending}
	repo.On("GetByID", ctx, id).Return(pending, nil).Times(maxTransitionAttempts)
	repo.On("UpdateStatus", ctx, id, domain.StatusPending, domain.StatusApproved, (*string)(nil), now).
		Return(appointmentRepo.ErrStatusConflict).Times(maxTransitionAttempts)

	service := NewService(repo, &recordingInvalidator{}, &recordingNotifier{}, (*metrics.Metrics)(nil), fixedTime{t: now}, logger.NewNop())

	_, err := service.Approve(ctx, id)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	repo.AssertExpectations(t)
}

func TestService_GetByID_Access(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := "account-1"
	a := f.seed(t, "2024-06-07", domain.StatusPending, &owner)
	guest := f.seed(t, "2024-06-08", domain.StatusDeclined, nil)

	resp, err := f.service.GetByID(ctx, a.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resp.ID)
	assert.Equal(t, "7am–12pm", resp.SlotLabel)
	assert.Equal(t, []string{"Interior Shampoo"}, resp.AddonIDs)

	_, err = f.service.GetByID(ctx, a.ID, "account-2", false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(ctx, guest.ID, "", false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.service.GetByID(ctx, guest.ID, "", true)
	assert.NoError(t, err)

	_, err = f.service.GetByID(ctx, uuid.NewString(), "", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := "account-1"
	mine := f.seed(t, "2024-06-09", domain.StatusPending, &owner)
	f.seed(t, "2024-06-10", domain.StatusDeclined, nil)

	all, err := f.service.List(ctx, &models.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 2)

	status := "pending"
	pending, err := f.service.List(ctx, &models.ListRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, pending.Appointments, 1)
	assert.Equal(t, mine.ID, pending.Appointments[0].ID)

	bad := "cancelled"
	_, err = f.service.List(ctx, &models.ListRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	own, err := f.service.ListByAccount(ctx, owner)
	require.NoError(t, err)
	require.Len(t, own.Appointments, 1)
	assert.Equal(t, mine.ID, own.Appointments[0].ID)

	none, err := f.service.ListByAccount(ctx, "account-2")
	require.NoError(t, err)
	assert.NotNil(t, none.Appointments)
	assert.Empty(t, none.Appointments)
}
