package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolve(t *testing.T) {
	seoul := mustZone(t, "Asia/Seoul")

	tests := []struct {
		name         string
		now          time.Time
		wantStart    time.Time
		wantEnd      time.Time
		wantExtended bool
	}{
		{
			name:         "tuesday covers monday only",
			now:          time.Date(2026, 9, 1, 8, 0, 0, 0, seoul),
			wantStart:    time.Date(2026, 8, 31, 0, 0, 0, 0, seoul),
			wantEnd:      time.Date(2026, 8, 31, 23, 59, 59, 0, seoul),
			wantExtended: false,
		},
		{
			name:         "monday covers friday through sunday",
			now:          time.Date(2026, 8, 31, 8, 0, 0, 0, seoul),
			wantStart:    time.Date(2026, 8, 28, 0, 0, 0, 0, seoul),
			wantEnd:      time.Date(2026, 8, 30, 23, 59, 59, 0, seoul),
			wantExtended: true,
		},
		{
			name:         "saturday covers friday only",
			now:          time.Date(2026, 8, 29, 8, 0, 0, 0, seoul),
			wantStart:    time.Date(2026, 8, 28, 0, 0, 0, 0, seoul),
			wantEnd:      time.Date(2026, 8, 28, 23, 59, 59, 0, seoul),
			wantExtended: false,
		},
		{
			name:         "sunday covers saturday only",
			now:          time.Date(2026, 8, 30, 8, 0, 0, 0, seoul),
			wantStart:    time.Date(2026, 8, 29, 0, 0, 0, 0, seoul),
			wantEnd:      time.Date(2026, 8, 29, 23, 59, 59, 0, seoul),
			wantExtended: false,
		},
		{
			name:         "month boundary normalizes",
			now:          time.Date(2026, 7, 1, 8, 0, 0, 0, seoul),
			wantStart:    time.Date(2026, 6, 30, 0, 0, 0, 0, seoul),
			wantEnd:      time.Date(2026, 6, 30, 23, 59, 59, 0, seoul),
			wantExtended: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := Resolve(tt.now, seoul)
			assert.True(t, win.Start.Equal(tt.wantStart), "start: got %v want %v", win.Start, tt.wantStart)
			assert.True(t, win.End.Equal(tt.wantEnd), "end: got %v want %v", win.End, tt.wantEnd)
			assert.Equal(t, tt.wantExtended, win.Extended)
			assert.True(t, win.Start.Before(win.End), "start must precede end")
		})
	}
}

func TestResolveDSTTransition(t *testing.T) {
	// US DST starts Sunday 2026-03-08. A Monday run in New York must span
	// Friday (EST, UTC-5) through Sunday (EDT, UTC-4); a fixed-offset
	// conversion would put one boundary an hour off.
	ny := mustZone(t, "America/New_York")

	win := Resolve(time.Date(2026, 3, 9, 7, 0, 0, 0, ny), ny)

	require.True(t, win.Extended)
	assert.Equal(t, time.Date(2026, 3, 6, 5, 0, 0, 0, time.UTC), win.UTCStart())
	assert.Equal(t, time.Date(2026, 3, 9, 3, 59, 59, 0, time.UTC), win.UTCEnd())
}

func TestWindowLabel(t *testing.T) {
	seoul := mustZone(t, "Asia/Seoul")

	single := Resolve(time.Date(2026, 9, 1, 8, 0, 0, 0, seoul), seoul)
	assert.Equal(t, "2026-08-31", single.Label())

	extended := Resolve(time.Date(2026, 8, 31, 8, 0, 0, 0, seoul), seoul)
	assert.Equal(t, "2026-08-28 ~ 2026-08-30", extended.Label())
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("Asia/Seoul")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())

	_, err = LoadZone("Not/AZone")
	assert.Error(t, err)
}
