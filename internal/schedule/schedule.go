// Package schedule computes due dates for recurring transaction
// definitions. All functions are pure: no I/O, no clock access, and all
// arithmetic is calendar-based at date granularity.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harxhith/BatVault/internal/model"
)

// ErrInvalidSchedule indicates a definition whose frequency or anchor
// fields are malformed or out of range.
var ErrInvalidSchedule = errors.New("invalid schedule")

// DateOf truncates a timestamp to its calendar date at midnight UTC.
// Comparisons throughout this package happen at this granularity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDue returns the earliest valid occurrence date that is on or after
// both the reference date and the definition's start date. The reference
// date itself is a valid answer when it matches the schedule's anchor.
func NextDue(def *model.RecurringDefinition, reference time.Time) (time.Time, error) {
	ref := DateOf(reference)
	if start := DateOf(def.StartDate); start.After(ref) {
		ref = start
	}

	switch def.Frequency {
	case model.FrequencyWeekly:
		anchor, err := weekdayAnchor(def)
		if err != nil {
			return time.Time{}, err
		}
		offset := (anchor - int(ref.Weekday()) + 7) % 7
		return ref.AddDate(0, 0, offset), nil

	case model.FrequencyMonthly:
		anchor, err := monthDayAnchor(def)
		if err != nil {
			return time.Time{}, err
		}
		candidate := clampToMonth(ref.Year(), ref.Month(), anchor)
		if candidate.Before(ref) {
			candidate = clampToMonth(ref.Year(), ref.Month()+1, anchor)
		}
		return candidate, nil

	case model.FrequencyQuarterly:
		anchor, err := monthDayAnchor(def)
		if err != nil {
			return time.Time{}, err
		}
		// Quarters are fixed 3-month blocks starting in January; the
		// candidate month is the start of the quarter containing ref.
		quarterMonth := time.Month((int(ref.Month())-1)/3*3 + 1)
		candidate := clampToMonth(ref.Year(), quarterMonth, anchor)
		if candidate.Before(ref) {
			candidate = clampToMonth(ref.Year(), quarterMonth+3, anchor)
		}
		return candidate, nil

	case model.FrequencyYearly:
		anchor, err := monthDayAnchor(def)
		if err != nil {
			return time.Time{}, err
		}
		// The anchor month is fixed by the definition's start date.
		month := def.StartDate.Month()
		candidate := clampToMonth(ref.Year(), month, anchor)
		if candidate.Before(ref) {
			candidate = clampToMonth(ref.Year()+1, month, anchor)
		}
		return candidate, nil

	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, def.Frequency)
	}
}

// NextAfter returns the earliest occurrence strictly after the previous due
// date. The processor uses this to advance a definition exactly one period
// past its stored due date, regardless of how many periods were missed.
func NextAfter(def *model.RecurringDefinition, previous time.Time) (time.Time, error) {
	return NextDue(def, DateOf(previous).AddDate(0, 0, 1))
}

// Validate checks the frequency and anchor fields without computing a date.
func Validate(def *model.RecurringDefinition) error {
	switch def.Frequency {
	case model.FrequencyWeekly:
		_, err := weekdayAnchor(def)
		return err
	case model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencyYearly:
		_, err := monthDayAnchor(def)
		return err
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, def.Frequency)
	}
}

func weekdayAnchor(def *model.RecurringDefinition) (int, error) {
	if def.DayOfWeek == nil {
		return 0, fmt.Errorf("%w: weekly definition missing day of week", ErrInvalidSchedule)
	}
	if *def.DayOfWeek < 0 || *def.DayOfWeek > 6 {
		return 0, fmt.Errorf("%w: day of week %d outside 0-6", ErrInvalidSchedule, *def.DayOfWeek)
	}
	return *def.DayOfWeek, nil
}

func monthDayAnchor(def *model.RecurringDefinition) (int, error) {
	if def.DayOfMonth == nil {
		return 0, fmt.Errorf("%w: %s definition missing day of month", ErrInvalidSchedule, def.Frequency)
	}
	if *def.DayOfMonth < 1 || *def.DayOfMonth > 31 {
		return 0, fmt.Errorf("%w: day of month %d outside 1-31", ErrInvalidSchedule, *def.DayOfMonth)
	}
	return *def.DayOfMonth, nil
}

// clampToMonth resolves an anchor day within a month, reducing it to the
// month's last day when the month is shorter. Day 31 in a 30-day month
// yields day 30, never day 1 of the following month. Month values outside
// 1-12 are normalized (month 13 is January of the next year).
func clampToMonth(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in a month; day 0 of the following
// month is the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
