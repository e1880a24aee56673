package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	testCases := []string{"9:30", "09:60", "25:00", "093:0", "", "09-30"}
	for _, invalid := range testCases {
		_, err := NewTimeStringFromString(invalid)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", invalid)
	}
}

func TestMinutes(t *testing.T) {
	ts := TimeString("10:45")
	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, minutes)

	_, err = TimeString("bad").Minutes()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestFromMinutes(t *testing.T) {
	ts, err := FromMinutes(645)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:45"), ts)

	ts, err = FromMinutes(0)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:00"), ts)

	_, err = FromMinutes(-1)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = FromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), ts)

	_, err = TimeString("23:50").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestLexicographicOrderMatchesChronological(t *testing.T) {
	assert.True(t, TimeString("09:30").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:30"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestScan_TrimsPostgresSeconds(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("17:45:00")))
	assert.Equal(t, TimeString("17:45"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 7, 14, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:15"), ts)

	assert.Error(t, ts.Scan(12345))
}

func TestValue(t *testing.T) {
	v, err := TimeString("09:30").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
