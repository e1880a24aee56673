package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Стабы зависимостей

type stubApptRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (s *stubApptRepo) GetByBarberWithFilter(_ context.Context, _ domain.BarberAppointmentsFilter) ([]*domain.Appointment, error) {
	return s.appointments, s.err
}

type stubScheduleRepo struct {
	exception    *domain.DailyException
	exceptionErr error
	weekly       *domain.WeeklyAvailability
	weeklyErr    error
}

func (s *stubScheduleRepo) GetExceptionByBarberAndDate(_ context.Context, _ int64, _ time.Time) (*domain.DailyException, error) {
	if s.exception != nil {
		return s.exception, nil
	}
	if s.exceptionErr != nil {
		return nil, s.exceptionErr
	}
	return nil, scheduleRepo.ErrExceptionNotFound
}

func (s *stubScheduleRepo) GetWeeklyByBarberAndWeekday(_ context.Context, _ int64, _ int) (*domain.WeeklyAvailability, error) {
	if s.weeklyErr != nil {
		return nil, s.weeklyErr
	}
	return s.weekly, nil
}

type stubConfigRepo struct {
	config *domain.SchedulingConfig
	err    error
}

func (s *stubConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64) (*domain.SchedulingConfig, error) {
	return s.config, s.err
}

type stubDurationResolver struct {
	byID map[int64]int
}

func (s *stubDurationResolver) ResolveDuration(_ context.Context, serviceID *int64, _ string) int {
	if serviceID != nil {
		if minutes, ok := s.byID[*serviceID]; ok {
			return minutes
		}
	}
	return domain.DefaultServiceDurationMinutes
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

// Общие фикстуры: понедельник 09:00-18:00, услуга 1 на 30 минут,
// услуга 2 на 60 минут, "сейчас" - воскресенье накануне

var (
	testDate = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC) // понедельник
	testNow  = time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
)

func workingDay(intervals ...domain.TimeRange) *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		BarberID:  1,
		Weekday:   int(testDate.Weekday()),
		IsActive:  true,
		Intervals: intervals,
	}
}

func interval(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

func pendingAppointment(id, serviceID int64, startTime string) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		BarberID:  1,
		ClientID:  100,
		ServiceID: serviceID,
		Date:      testDate,
		StartTime: types.TimeString(startTime),
		Status:    domain.StatusPending,
	}
}

func newTestUseCase(appts *stubApptRepo, sched *stubScheduleRepo, cfg *stubConfigRepo, now time.Time) *UseCase {
	uc := NewUseCase(
		appts,
		sched,
		cfg,
		&stubDurationResolver{byID: map[int64]int{1: 30, 2: 60}},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func slotsAsStrings(slots []types.TimeString) []string {
	result := make([]string, len(slots))
	for i, slot := range slots {
		result[i] = slot.String()
	}
	return result
}

func TestExecute_WeeklyScheduleWithOccupiedInterval(t *testing.T) {
	// Окно 09:00-18:00, запись на 10:00 часовой услугой: кандидаты 10:00 и
	// 10:30 конфликтуют, 09:30 и 11:00 граничат с записью и остаются
	appts := &stubApptRepo{appointments: []*domain.Appointment{
		pendingAppointment(42, 2, "10:00"),
	}}
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "18:00"))}
	cfg := &stubConfigRepo{config: &domain.SchedulingConfig{SlotStepMinutes: 30}}

	uc := newTestUseCase(appts, sched, cfg, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)

	expected := []string{
		"09:00", "09:30",
		"11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
		"17:00", "17:30",
	}
	assert.Equal(t, expected, slotsAsStrings(resp.Slots))
	assert.Equal(t, 30, resp.ServiceDurationMinutes)
	assert.Equal(t, 30, resp.StepMinutes)
}

func TestExecute_DayOffExceptionBlocksDay(t *testing.T) {
	sched := &stubScheduleRepo{
		weekly: workingDay(interval("09:00", "18:00")),
		exception: &domain.DailyException{
			BarberID: 1,
			Date:     testDate,
			Type:     domain.ExceptionDayOff,
		},
	}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CustomExceptionReplacesWeekly(t *testing.T) {
	// CUSTOM полностью заменяет недельный шаблон: слоты только из интервалов
	// исключения, недельные окна игнорируются
	sched := &stubScheduleRepo{
		weekly: workingDay(interval("09:00", "18:00")),
		exception: &domain.DailyException{
			BarberID:  1,
			Date:      testDate,
			Type:      domain.ExceptionCustom,
			Intervals: []domain.TimeRange{interval("14:00", "16:00")},
		},
	}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "14:30", "15:00", "15:30"}, slotsAsStrings(resp.Slots))
}

func TestExecute_PastDateReturnsEmptyNotError(t *testing.T) {
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "18:00"))}
	now := testDate.AddDate(0, 0, 3)
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	cfg := &stubConfigRepo{config: &domain.SchedulingConfig{
		SlotStepMinutes:    30,
		AdvanceBookingDays: 7,
	}}
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{}, cfg, testNow)

	farDate := testNow.AddDate(0, 0, 10)
	_, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: farDate})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_TodayFiltersElapsedAndNotice(t *testing.T) {
	// Сегодня 10:05, notice 30 минут: кандидаты не позже 10:05 и ближе 10:35
	// отсекаются, остаются 11:00 и 11:30
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "12:00"))}
	cfg := &stubConfigRepo{config: &domain.SchedulingConfig{
		SlotStepMinutes:         30,
		MinBookingNoticeMinutes: 30,
	}}
	now := time.Date(2026, 9, 7, 10, 5, 0, 0, time.UTC)
	uc := newTestUseCase(&stubApptRepo{}, sched, cfg, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30"}, slotsAsStrings(resp.Slots))
}

func TestExecute_ExcludeAppointmentFreesItsInterval(t *testing.T) {
	// При переносе собственная запись не конфликтует сама с собой:
	// её интервал исключается из занятых
	appts := &stubApptRepo{appointments: []*domain.Appointment{
		pendingAppointment(42, 2, "10:00"),
	}}
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "12:00"))}
	uc := newTestUseCase(appts, sched, &stubConfigRepo{}, testNow)

	excludeID := int64(42)
	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:             1,
		ServiceID:            1,
		Date:                 testDate,
		ExcludeAppointmentID: &excludeID,
	})
	require.NoError(t, err)
	assert.Contains(t, slotsAsStrings(resp.Slots), "10:00")
	assert.Contains(t, slotsAsStrings(resp.Slots), "10:30")
}

func TestExecute_CanceledAppointmentsDoNotOccupyTime(t *testing.T) {
	canceled := pendingAppointment(7, 2, "10:00")
	canceled.Status = domain.StatusCanceledByClient

	appts := &stubApptRepo{appointments: []*domain.Appointment{canceled}}
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "12:00"))}
	uc := newTestUseCase(appts, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, slotsAsStrings(resp.Slots))
}

func TestExecute_DoneAppointmentsOccupyTime(t *testing.T) {
	done := pendingAppointment(7, 2, "10:00")
	done.Status = domain.StatusDone

	appts := &stubApptRepo{appointments: []*domain.Appointment{done}}
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "12:00"))}
	uc := newTestUseCase(appts, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.NotContains(t, slotsAsStrings(resp.Slots), "10:00")
	assert.NotContains(t, slotsAsStrings(resp.Slots), "10:30")
}

func TestExecute_StepOverrideFromRequest(t *testing.T) {
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "12:00"))}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	step := 60
	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:    1,
		ServiceID:   1,
		Date:        testDate,
		StepMinutes: &step,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotsAsStrings(resp.Slots))
	assert.Equal(t, 60, resp.StepMinutes)
}

func TestExecute_NoWeeklyScheduleReturnsEmpty(t *testing.T) {
	sched := &stubScheduleRepo{weeklyErr: scheduleRepo.ErrWeeklyNotFound}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InactiveWeeklyDayReturnsEmpty(t *testing.T) {
	weekly := workingDay(interval("09:00", "18:00"))
	weekly.IsActive = false
	sched := &stubScheduleRepo{weekly: weekly}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&stubApptRepo{}, &stubScheduleRepo{}, &stubConfigRepo{}, testNow)

	testCases := []struct {
		name string
		req  *Request
	}{
		{"zero barber id", &Request{ServiceID: 1, Date: testDate}},
		{"zero service id", &Request{BarberID: 1, Date: testDate}},
		{"zero date", &Request{BarberID: 1, ServiceID: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UnknownServiceFallsBackToDefaultDuration(t *testing.T) {
	// Услуга без маппинга длительности - не ошибка: применяется дефолт
	sched := &stubScheduleRepo{weekly: workingDay(interval("09:00", "10:00"))}
	uc := newTestUseCase(&stubApptRepo{}, sched, &stubConfigRepo{}, testNow)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 999, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultServiceDurationMinutes, resp.ServiceDurationMinutes)
	assert.Equal(t, []string{"09:00", "09:30"}, slotsAsStrings(resp.Slots))
}
