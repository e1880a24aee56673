package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccupiedIntervalOverlaps(t *testing.T) {
	occupied := OccupiedInterval{Start: 600, End: 660} // 10:00-11:00

	testCases := []struct {
		name     string
		start    int
		end      int
		overlaps bool
	}{
		{"inside", 610, 650, true},
		{"covers", 590, 670, true},
		{"partial left", 580, 610, true},
		{"partial right", 650, 680, true},
		{"touches end", 660, 690, false},
		{"touches start", 570, 600, false},
		{"fully before", 500, 560, false},
		{"fully after", 700, 730, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, occupied.Overlaps(tc.start, tc.end))
		})
	}
}

func TestTimeWindowFits(t *testing.T) {
	window := TimeWindow{Start: 540, End: 1080} // 09:00-18:00

	assert.True(t, window.Fits(540, 30))
	assert.True(t, window.Fits(1050, 30))
	assert.False(t, window.Fits(1050, 31))
	assert.False(t, window.Fits(530, 30))
	assert.False(t, window.Fits(1080, 30))
}
