package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1m": time.Minute,
		"5m": 5 * time.Minute,
		"4h": 4 * time.Hour,
		"1d": 24 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseIntervalDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "h", "4x", "abc"} {
		_, err := ParseIntervalDuration(in)
		assert.Error(t, err, in)
	}
}

func TestIntervalToBybit(t *testing.T) {
	cases := map[string]string{
		"1m":  "1",
		"15m": "15",
		"1h":  "60",
		"4h":  "240",
		"1d":  "D",
	}
	for in, want := range cases {
		got, err := IntervalToBybit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	// 多日周期 Bybit 不支持
	_, err := IntervalToBybit("3d")
	assert.Error(t, err)
}

func TestStringToFloat(t *testing.T) {
	f, err := StringToFloat("63100.5")
	require.NoError(t, err)
	assert.Equal(t, 63100.5, f)

	_, err = StringToFloat("not-a-number")
	assert.Error(t, err)
}

func TestGetCurrentDayWarning(t *testing.T) {
	wednesday := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	assert.Contains(t, GetCurrentDayWarning(wednesday), "Wednesday")

	friday := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	assert.Contains(t, GetCurrentDayWarning(friday), "Friday")

	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "No major scheduled news expected", GetCurrentDayWarning(monday))
}
