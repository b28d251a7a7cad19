package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCountdown(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 37, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		targetDate   time.Time
		direction    string
		days         int
		absoluteDays int
		status       string
	}{
		{
			"CountdownInTenDays",
			time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC),
			DirectionCountdown,
			10, 10, "soon",
		},
		{
			"CountdownTomorrow",
			time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC),
			DirectionCountdown,
			1, 1, "urgent",
		},
		{
			"CountdownToday",
			time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			DirectionCountdown,
			0, 0, "today",
		},
		{
			"CountdownFarOut",
			time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
			DirectionCountdown,
			61, 61, "upcoming",
		},
		{
			"CountupToday",
			time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			DirectionCountup,
			-1, 1, "recent",
		},
		{
			"CountupHundredDaysAgo",
			time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
			DirectionCountup,
			-101, 101, "month",
		},
		{
			"CountupYearsAgo",
			time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC),
			DirectionCountup,
			-732, 732, "long-time",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			derived := DeriveCountdown(tc.targetDate, tc.direction, now)

			assert.Equal(t, tc.days, derived.Days)
			assert.Equal(t, tc.absoluteDays, derived.AbsoluteDays)
			assert.Equal(t, tc.status, derived.Status)
			assert.Equal(t, tc.targetDate.Format(DateLayout), derived.FormattedTargetDate)
		})
	}
}

// The derived day count only depends on the calendar day, never on the time
// of day of either side.
func TestDeriveCountdownIgnoresTimeOfDay(t *testing.T) {
	targetDate := time.Date(2024, 6, 25, 23, 59, 59, 0, time.UTC)

	morning := DeriveCountdown(targetDate, DirectionCountdown, time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC))
	evening := DeriveCountdown(targetDate, DirectionCountdown, time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC))

	assert.Equal(t, morning.Days, evening.Days)
	assert.Equal(t, 10, morning.Days)
}

func TestAutoDirection(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, DirectionCountup, AutoDirection(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DirectionCountdown, AutoDirection(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, DirectionCountdown, AutoDirection(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), now))
}
