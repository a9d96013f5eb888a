package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePumpkinTime(t *testing.T) {
	tests := []struct {
		in   string
		want PumpkinTime
	}{
		{"0400", PumpkinTime{Hour: 4}},
		{"0000", PumpkinTime{}},
		{"2359", PumpkinTime{Hour: 23, Minute: 59}},
		{" 1230 ", PumpkinTime{Hour: 12, Minute: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePumpkinTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePumpkinTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "400", "04:00", "2400", "0960", "abcd", "04000"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePumpkinTime(in)
			assert.ErrorIs(t, err, ErrInvalidPumpkinTime)
		})
	}
}

func TestPumpkinTime_String(t *testing.T) {
	p := PumpkinTime{Hour: 4, Minute: 5}
	assert.Equal(t, "0405", p.String())
	assert.Equal(t, "04:05", p.Display())
}

func TestPumpkinTime_MostRecent(t *testing.T) {
	p := PumpkinTime{Hour: 4}

	afterToday := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 10, 4, 0, 0, 0, time.Local), p.MostRecent(afterToday))

	beforeToday := time.Date(2026, 3, 10, 2, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2026, 3, 9, 4, 0, 0, 0, time.Local), p.MostRecent(beforeToday))

	exact := time.Date(2026, 3, 10, 4, 0, 0, 0, time.Local)
	assert.Equal(t, exact, p.MostRecent(exact))
}

func TestPumpkinTime_ShouldReset(t *testing.T) {
	p := PumpkinTime{Hour: 4}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		lastInit time.Time
		want     bool
	}{
		{"never initialized", time.Time{}, false},
		{"initialized after reset today", time.Date(2026, 3, 10, 5, 0, 0, 0, time.Local), false},
		{"initialized before reset today", time.Date(2026, 3, 10, 3, 59, 0, 0, time.Local), true},
		{"initialized yesterday", time.Date(2026, 3, 9, 22, 0, 0, 0, time.Local), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldReset(tt.lastInit, now))
		})
	}
}
