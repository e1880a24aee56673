package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/servicecatalog"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Стабы зависимостей

type stubApptRepo struct {
	appointments []*domain.Appointment
	created      *domain.Appointment
}

func (s *stubApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	created := *appt
	created.ID = 1001
	s.created = &created
	return &created, nil
}

func (s *stubApptRepo) GetByBarberWithFilter(_ context.Context, _ domain.BarberAppointmentsFilter) ([]*domain.Appointment, error) {
	return s.appointments, nil
}

type stubScheduleRepo struct {
	exception *domain.DailyException
	weekly    *domain.WeeklyAvailability
}

func (s *stubScheduleRepo) GetExceptionByBarberAndDate(_ context.Context, _ int64, _ time.Time) (*domain.DailyException, error) {
	if s.exception != nil {
		return s.exception, nil
	}
	return nil, scheduleRepo.ErrExceptionNotFound
}

func (s *stubScheduleRepo) GetWeeklyByBarberAndWeekday(_ context.Context, _ int64, _ int) (*domain.WeeklyAvailability, error) {
	if s.weekly == nil {
		return nil, scheduleRepo.ErrWeeklyNotFound
	}
	return s.weekly, nil
}

type stubConfigRepo struct {
	config *domain.SchedulingConfig
}

func (s *stubConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64) (*domain.SchedulingConfig, error) {
	return s.config, nil
}

type stubServiceRepo struct {
	services map[int64]*domain.Service
}

func (s *stubServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type stubDurationResolver struct{}

func (stubDurationResolver) ResolveDuration(_ context.Context, _ *int64, _ string) int {
	return 60
}

// stubTxManager выполняет функцию без реальной транзакции
type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстуры

var (
	testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
)

func activeService(id int64, durationMinutes int) *domain.Service {
	return &domain.Service{
		ID:              id,
		Name:            "Corte de Cabelo",
		DurationMinutes: durationMinutes,
		Price:           50,
		IsActive:        true,
	}
}

func workingDay() *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		BarberID: 1,
		Weekday:  int(testDate.Weekday()),
		IsActive: true,
		Intervals: []domain.TimeRange{
			{Start: "09:00", End: "18:00"},
		},
	}
}

func newTestUseCase(appts *stubApptRepo, sched *stubScheduleRepo, cfg *stubConfigRepo, services *stubServiceRepo) *UseCase {
	uc := NewUseCase(
		appts,
		sched,
		cfg,
		services,
		stubDurationResolver{},
		nil,
		stubTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		ClientID:  100,
		BarberID:  1,
		ServiceID: 1,
		Date:      testDate,
		StartTime: types.TimeString("10:00"),
	}
}

func TestExecute_CreatesPendingAppointmentWithDenormalizedService(t *testing.T) {
	appts := &stubApptRepo{}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(appts, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1001), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Corte de Cabelo", resp.ServiceName)
	assert.Equal(t, float64(50), resp.ServicePrice)

	require.NotNil(t, appts.created)
	assert.Equal(t, domain.StatusPending, appts.created.Status)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{},
		&stubServiceRepo{services: map[int64]*domain.Service{}})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceRejected(t *testing.T) {
	inactive := activeService(1, 30)
	inactive.IsActive = false
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{},
		&stubServiceRepo{services: map[int64]*domain.Service{1: inactive}})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SlotOutsideWindows(t *testing.T) {
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	req := validRequest()
	req.StartTime = types.TimeString("18:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBarberUnavailable)
}

func TestExecute_SlotMustFitWindowEntirely(t *testing.T) {
	// Услуга 60 минут на 17:30 вылезает за окно 09:00-18:00
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 60)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	req := validRequest()
	req.StartTime = types.TimeString("17:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBarberUnavailable)
}

func TestExecute_DayOffExceptionBlocksBooking(t *testing.T) {
	sched := &stubScheduleRepo{
		weekly: workingDay(),
		exception: &domain.DailyException{
			BarberID: 1,
			Date:     testDate,
			Type:     domain.ExceptionDayOff,
		},
	}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, services)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBarberUnavailable)
}

func TestExecute_ConflictingAppointmentRejected(t *testing.T) {
	// Занятый интервал 10:00-11:00 (длительность из резолвера - 60 минут)
	appts := &stubApptRepo{appointments: []*domain.Appointment{
		{
			ID:        42,
			BarberID:  1,
			ServiceID: 2,
			Date:      testDate,
			StartTime: types.TimeString("10:00"),
			Status:    domain.StatusPending,
		},
	}}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(appts, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	req := validRequest()
	req.StartTime = types.TimeString("10:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_BackToBackAppointmentAllowed(t *testing.T) {
	appts := &stubApptRepo{appointments: []*domain.Appointment{
		{
			ID:        42,
			BarberID:  1,
			ServiceID: 2,
			Date:      testDate,
			StartTime: types.TimeString("10:00"),
			Status:    domain.StatusPending,
		},
	}}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(appts, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	req := validRequest()
	req.StartTime = types.TimeString("11:00") // впритык к концу записи 10:00-11:00

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_PastDateRejected(t *testing.T) {
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, -1)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	cfg := &stubConfigRepo{config: &domain.SchedulingConfig{
		SlotStepMinutes:    30,
		AdvanceBookingDays: 7,
	}}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, cfg, services)

	req := validRequest()
	req.Date = testNow.AddDate(0, 0, 10)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	cfg := &stubConfigRepo{config: &domain.SchedulingConfig{
		SlotStepMinutes:         30,
		MinBookingNoticeMinutes: 120,
	}}
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, cfg, services)

	// Сегодня 12:00, notice 2 часа: запись на 13:00 слишком поздняя
	req := validRequest()
	req.Date = testNow
	req.StartTime = types.TimeString("13:00")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ValidationErrors(t *testing.T) {
	services := &stubServiceRepo{services: map[int64]*domain.Service{1: activeService(1, 30)}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{weekly: workingDay()}, &stubConfigRepo{}, services)

	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}
	notes := string(longNotes)

	testCases := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero client id", func(r *Request) { r.ClientID = 0 }},
		{"zero barber id", func(r *Request) { r.BarberID = 0 }},
		{"zero service id", func(r *Request) { r.ServiceID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty start time", func(r *Request) { r.StartTime = "" }},
		{"malformed start time", func(r *Request) { r.StartTime = "10-00" }},
		{"notes too long", func(r *Request) { r.Notes = &notes }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
