package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStartAndKey(t *testing.T) {
	ts := time.Date(2026, 2, 14, 23, 58, 12, 500, time.Local)
	start := DayStart(ts)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, "2026-02-14", DayKey(start))
}

func TestParseDayKeyRoundTrip(t *testing.T) {
	day, err := ParseDayKey("2026-02-14")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local), day)

	_, err = ParseDayKey("14/02/2026")
	assert.Error(t, err)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 12.3, Round1(12.34))
	assert.Equal(t, 12.4, Round1(12.36))
	assert.Equal(t, 0.0, Round1(0.04))
	assert.Equal(t, -1.2, Round1(-1.24))
}
