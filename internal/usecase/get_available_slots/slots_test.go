package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

func TestGenerateCandidates_WalksEachWindowIndependently(t *testing.T) {
	windows := []domain.TimeWindow{
		{Start: 540, End: 660}, // 09:00-11:00
		{Start: 840, End: 900}, // 14:00-15:00
	}

	candidates := generateCandidates(windows, 30, 30)

	assert.Equal(t, []int{540, 570, 600, 630, 840, 870}, candidates)
}

func TestGenerateCandidates_ServiceMustFitEntirely(t *testing.T) {
	// Окно 09:00-10:00, услуга 45 минут, шаг 15: последний помещающийся
	// кандидат 09:15 (09:15+45 = 10:00)
	windows := []domain.TimeWindow{{Start: 540, End: 600}}

	candidates := generateCandidates(windows, 45, 15)

	assert.Equal(t, []int{540, 555}, candidates)
}

func TestGenerateCandidates_OverlappingWindowsKeepDuplicates(t *testing.T) {
	// Пересекающиеся окна не объединяются: общие кандидаты дублируются
	windows := []domain.TimeWindow{
		{Start: 540, End: 630},
		{Start: 570, End: 660},
	}

	candidates := generateCandidates(windows, 30, 30)

	assert.Equal(t, []int{540, 570, 600, 570, 600, 630}, candidates)
}

func TestGenerateCandidates_WindowTooSmall(t *testing.T) {
	windows := []domain.TimeWindow{{Start: 540, End: 560}}

	candidates := generateCandidates(windows, 30, 30)

	assert.Empty(t, candidates)
}

func TestFilterConflicts_TouchingEndpointsAllowed(t *testing.T) {
	// Запись 10:00-11:00: кандидаты 09:30 и 11:00 граничат с ней и проходят
	occupied := []domain.OccupiedInterval{{Start: 600, End: 660}}
	candidates := []int{540, 570, 600, 630, 660, 690}

	futureDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)

	accepted := filterConflicts(candidates, 30, occupied, futureDate, now, 0)

	assert.Equal(t, []int{540, 570, 660, 690}, accepted)
}

func TestFilterConflicts_PartialOverlapRejected(t *testing.T) {
	// Кандидат 11:30-12:00 против записи 11:20-11:40 - пересечение 11:30-11:40
	occupied := []domain.OccupiedInterval{{Start: 680, End: 700}}

	futureDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)

	accepted := filterConflicts([]int{690}, 30, occupied, futureDate, now, 0)

	assert.Empty(t, accepted)
}

func TestFilterConflicts_TodayRejectsCandidateAtExactCurrentMinute(t *testing.T) {
	// Начало слота должно быть строго позже текущего времени
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	accepted := filterConflicts([]int{600, 630}, 30, nil, date, now, 0)

	assert.Equal(t, []int{630}, accepted)
}

func TestFilterConflicts_FutureDateIgnoresCurrentTime(t *testing.T) {
	now := time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	accepted := filterConflicts([]int{540}, 30, nil, date, now, 120)

	assert.Equal(t, []int{540}, accepted)
}

func TestToTimeWindows_SortsByStart(t *testing.T) {
	windows, err := toTimeWindows([]domain.TimeRange{
		interval("14:00", "18:00"),
		interval("09:00", "12:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.TimeWindow{
		{Start: 540, End: 720},
		{Start: 840, End: 1080},
	}, windows)
}

func TestToTimeWindows_SkipsInvertedIntervals(t *testing.T) {
	windows, err := toTimeWindows([]domain.TimeRange{
		interval("12:00", "09:00"),
		interval("14:00", "15:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.TimeWindow{{Start: 840, End: 900}}, windows)
}
