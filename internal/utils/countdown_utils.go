package utils

import "time"

// Countdown directions. A countup measures elapsed days since a past
// milestone; a countdown measures remaining days towards a future date.
const (
	DirectionCountup   = "countup"
	DirectionCountdown = "countdown"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DerivedCountdown holds the view values recomputed from a countdown's
// target date on every read. They are never persisted.
type DerivedCountdown struct {
	Days                int
	AbsoluteDays        int
	Status              string
	FormattedTargetDate string
}

// Midnight normalizes a timestamp to 00:00 of its calendar day in UTC, so
// that day differences are insensitive to the time of day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeriveCountdown computes the signed day count, the unsigned day count and
// the status label for a countdown with the given target date and direction,
// relative to now.
//
// The raw difference is positive when the target lies in the future. For a
// countup the milestone day itself counts as day one of the elapsed span, so
// one is subtracted: a countup whose target date is today yields -1.
func DeriveCountdown(targetDate time.Time, direction string, now time.Time) DerivedCountdown {
	rawDays := int(Midnight(targetDate).Sub(Midnight(now)).Hours() / 24)

	days := rawDays
	if direction == DirectionCountup {
		days = rawDays - 1
	}

	absoluteDays := days
	if absoluteDays < 0 {
		absoluteDays = -absoluteDays
	}

	return DerivedCountdown{
		Days:                days,
		AbsoluteDays:        absoluteDays,
		Status:              countdownStatus(direction, days),
		FormattedTargetDate: targetDate.Format(DateLayout),
	}
}

func countdownStatus(direction string, days int) string {
	if direction == DirectionCountup {
		switch {
		case days <= -365:
			return "long-time"
		case days <= -30:
			return "month"
		default:
			return "recent"
		}
	}

	switch {
	case days <= 0:
		return "today"
	case days <= 7:
		return "urgent"
	case days <= 30:
		return "soon"
	default:
		return "upcoming"
	}
}

// AutoDirection picks the direction for a countdown created without one:
// past dates count up, today and future dates count down.
func AutoDirection(targetDate, now time.Time) string {
	if Midnight(targetDate).Before(Midnight(now)) {
		return DirectionCountup
	}
	return DirectionCountdown
}
