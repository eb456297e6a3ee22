package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayStatus(t *testing.T) {
	fair := &JobFair{
		StartsAt: time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 5, 12, 17, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want FairStatus
	}{
		{"before start", time.Date(2025, 5, 12, 8, 59, 59, 0, time.UTC), FairUpcoming},
		{"at start", fair.StartsAt, FairLive},
		{"mid window", time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC), FairLive},
		{"at end", fair.EndsAt, FairLive},
		{"after end", time.Date(2025, 5, 12, 17, 0, 1, 0, time.UTC), FairFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fair.DisplayStatus(tt.now))
		})
	}
}

func TestDisplayStatusInvertedWindowNeverLive(t *testing.T) {
	// An inverted window is stored as given; derivation still terminates
	fair := &JobFair{
		StartsAt: time.Date(2025, 5, 12, 17, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, FairUpcoming, fair.DisplayStatus(time.Date(2025, 5, 12, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, FairFinished, fair.DisplayStatus(time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)))
}
