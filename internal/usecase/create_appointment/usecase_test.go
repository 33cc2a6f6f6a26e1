package create_appointment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	cacheAvailability "github.com/m04kA/SMC-DetailingService/internal/infra/cache/availability"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	blackoutRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blackout"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/internal/service/pricing"
	"github.com/m04kA/SMC-DetailingService/internal/service/reservation"
	"github.com/m04kA/SMC-DetailingService/internal/service/window"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type staticCatalog struct{}

func (staticCatalog) GetCatalog(context.Context) (*domain.Catalog, error) {
	return &domain.Catalog{
		Packages: []domain.Package{
			{ID: "Exterior Detail", Name: "Exterior Detail", Price: 90},
			{ID: "Full Detail", Name: "Full Detail", Price: 150},
		},
		Addons: []domain.Addon{
			{ID: "Interior Shampoo", Name: "Interior Shampoo", Price: 40},
			{ID: "Pet Hair Removal", Name: "Pet Hair Removal", Price: 30},
		},
	}, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (r *recordingNotifier) AppointmentCreated(context.Context, *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *recordingNotifier) AppointmentStatusChanged(context.Context, *domain.Appointment) error {
	return nil
}

// today = 2024-06-01
var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	usecase      *UseCase
	appointments *appointments.Service
	blackouts    *blackouts.Service
	calculator   *availability.Calculator
	notifier     *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.NewDB(t)
	log := logger.NewNop()
	clock := fixedTime{t: now}
	noMetrics := (*metrics.Metrics)(nil)

	appointmentStore := appointmentRepo.NewRepository(db, storagetest.Dialect)
	blackoutStore := blackoutRepo.NewRepository(db, storagetest.Dialect)
	tm := txmanager.NewTransactionManager(db, storagetest.Dialect)

	policy := window.NewPolicy(time.UTC, clock)
	calculator := availability.NewCalculator(blackoutStore, appointmentStore, cacheAvailability.NoopCache{}, tm, noMetrics, log)
	guard := reservation.NewGuard(calculator, appointmentStore, tm, log)
	notifier := &recordingNotifier{}

	uc := NewUseCase(policy, pricing.NewResolver(staticCatalog{}, log), guard, notifier, noMetrics, log)
	uc.timeProvider = clock

	return &fixture{
		usecase:      uc,
		appointments: appointments.NewService(appointmentStore, calculator, notifier, noMetrics, clock, log),
		blackouts:    blackouts.NewService(blackoutStore, policy, calculator, clock, log),
		calculator:   calculator,
		notifier:     notifier,
	}
}

func request(date, slot string) *Request {
	return &Request{
		ClientName: "Jane Doe",
		Email:      "jane@example.com",
		Vehicle:    "2019 Honda Civic",
		Condition:  "Well Maintained",
		PackageID:  "Full Detail",
		AddonIDs:   []string{"Interior Shampoo"},
		Date:       date,
		Slot:       slot,
	}
}

func TestExecute_BookDeclineRebook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.usecase.Execute(ctx, request("2024-06-02", "morning"))
	require.NoError(t, err)
	assert.Equal(t, int64(190), first.TotalPrice)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "7am–12pm", first.SlotLabel)
	assert.Equal(t, now, first.CreatedAt)
	assert.Equal(t, 1, f.notifier.calls)

	_, err = f.usecase.Execute(ctx, request("2024-06-02", "morning"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	days, err := f.calculator.Summarize(ctx, types.MustParseDate("2024-06-02"), types.MustParseDate("2024-06-02"))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.False(t, days[0].IsOpen(domain.SlotMorning))
	assert.True(t, days[0].IsOpen(domain.SlotAfternoon))

	_, err = f.appointments.Decline(ctx, first.ID, nil)
	require.NoError(t, err)

	days, err = f.calculator.Summarize(ctx, types.MustParseDate("2024-06-02"), types.MustParseDate("2024-06-02"))
	require.NoError(t, err)
	assert.True(t, days[0].IsOpen(domain.SlotMorning))

	second, err := f.usecase.Execute(ctx, request("2024-06-02", "AM"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExecute_BlockedDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reason := "vacation"

	_, err := f.blackouts.Block(ctx, types.MustParseDate("2024-06-10"), &reason)
	require.NoError(t, err)

	days, err := f.calculator.Summarize(ctx, types.MustParseDate("2024-06-10"), types.MustParseDate("2024-06-10"))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].BlockedByAdmin)
	assert.False(t, days[0].IsOpen(domain.SlotMorning))
	assert.False(t, days[0].IsOpen(domain.SlotAfternoon))

	_, err = f.usecase.Execute(ctx, request("2024-06-10", "afternoon"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, f.blackouts.Unblock(ctx, types.MustParseDate("2024-06-10")))
	_, err = f.usecase.Execute(ctx, request("2024-06-10", "afternoon"))
	assert.NoError(t, err)
}

func TestExecute_Window(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.usecase.Execute(ctx, request("2024-08-15", "morning"))
	assert.ErrorIs(t, err, ErrOutOfWindow)

	_, err = f.usecase.Execute(ctx, request("2024-05-31", "morning"))
	assert.ErrorIs(t, err, ErrOutOfWindow)

	_, err = f.usecase.Execute(ctx, request("2024-06-01", "afternoon"))
	assert.NoError(t, err)

	_, err = f.usecase.Execute(ctx, request("2024-07-31", "afternoon"))
	assert.NoError(t, err)
}

func TestExecute_ApproveTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.usecase.Execute(ctx, request("2024-06-03", "morning"))
	require.NoError(t, err)

	_, err = f.appointments.Approve(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.appointments.Approve(ctx, created.ID)
	assert.ErrorIs(t, err, appointments.ErrInvalidTransition)

	_, err = f.appointments.Complete(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.appointments.Decline(ctx, created.ID, nil)
	assert.ErrorIs(t, err, appointments.ErrInvalidTransition)

	// завершенная запись продолжает занимать слот
	_, err = f.usecase.Execute(ctx, request("2024-06-03", "morning"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_Pricing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := request("2024-06-04", "morning")
	req.AddonIDs = []string{"Interior Shampoo", "Interior Shampoo", "Pet Hair Removal"}
	resp, err := f.usecase.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(220), resp.TotalPrice)
	assert.Equal(t, []string{"Interior Shampoo", "Pet Hair Removal"}, resp.AddonIDs)

	req = request("2024-06-04", "afternoon")
	req.PackageID = "Ceramic Coating"
	_, err = f.usecase.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrUnknownPackage)

	req = request("2024-06-04", "afternoon")
	req.AddonIDs = []string{"Underbody Wash"}
	_, err = f.usecase.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrUnknownAddon)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.err = errors.New("queue is down")

	resp, err := f.usecase.Execute(ctx, request("2024-06-05", "morning"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestExecute_ConcurrentRequestsForSameSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.usecase.Execute(ctx, request("2024-06-06", "afternoon"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotUnavailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestValidateRequest(t *testing.T) {
	account := "  "
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "missing name", modify: func(r *Request) { r.ClientName = " " }},
		{name: "long name", modify: func(r *Request) { r.ClientName = strings.Repeat("a", domain.MaxClientNameLength+1) }},
		{name: "missing email", modify: func(r *Request) { r.Email = "" }},
		{name: "malformed email", modify: func(r *Request) { r.Email = "jane-at-example.com" }},
		{name: "display name email", modify: func(r *Request) { r.Email = "Jane <jane@example.com>" }},
		{name: "missing vehicle", modify: func(r *Request) { r.Vehicle = "" }},
		{name: "unknown condition", modify: func(r *Request) { r.Condition = "Showroom" }},
		{name: "missing package", modify: func(r *Request) { r.PackageID = "" }},
		{name: "blank addon", modify: func(r *Request) { r.AddonIDs = []string{""} }},
		{name: "missing date", modify: func(r *Request) { r.Date = "" }},
		{name: "malformed date", modify: func(r *Request) { r.Date = "06/02/2024" }},
		{name: "unknown slot", modify: func(r *Request) { r.Slot = "evening" }},
		{name: "blank account", modify: func(r *Request) { r.AccountID = &account }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("2024-06-02", "morning")
			tt.modify(req)
			_, err := validateRequest(req)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	v, err := validateRequest(request("2024-06-02", "PM"))
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAfternoon, v.slot)
	assert.Equal(t, domain.ConditionWellMaintained, v.condition)
}
