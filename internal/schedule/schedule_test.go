package schedule

import (
	"testing"
	"time"

	"github.com/Harxhith/BatVault/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func weeklyDef(dayOfWeek int, start time.Time) *model.RecurringDefinition {
	return &model.RecurringDefinition{
		Frequency: model.FrequencyWeekly,
		DayOfWeek: intPtr(dayOfWeek),
		StartDate: start,
	}
}

func monthDayDef(freq model.Frequency, dayOfMonth int, start time.Time) *model.RecurringDefinition {
	return &model.RecurringDefinition{
		Frequency:  freq,
		DayOfMonth: intPtr(dayOfMonth),
		StartDate:  start,
	}
}

func TestNextDue_Weekly(t *testing.T) {
	tests := []struct {
		name      string
		def       *model.RecurringDefinition
		reference time.Time
		want      time.Time
	}{
		{
			// 2024-06-03 is a Monday
			name:      "anchor later in the same week",
			def:       weeklyDef(3, date(2024, time.June, 3)),
			reference: date(2024, time.June, 3),
			want:      date(2024, time.June, 5), // Wednesday, 2 days ahead
		},
		{
			name:      "reference already on anchor day is due that day",
			def:       weeklyDef(1, date(2024, time.June, 3)),
			reference: date(2024, time.June, 3), // Monday
			want:      date(2024, time.June, 3),
		},
		{
			name:      "anchor earlier in the week rolls to next week",
			def:       weeklyDef(0, date(2024, time.June, 3)),
			reference: date(2024, time.June, 5), // Wednesday, anchor Sunday
			want:      date(2024, time.June, 9),
		},
		{
			name:      "reference before start date snaps to start",
			def:       weeklyDef(1, date(2024, time.July, 1)), // Monday
			reference: date(2024, time.June, 3),
			want:      date(2024, time.July, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.def, tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDue_Monthly(t *testing.T) {
	tests := []struct {
		name      string
		def       *model.RecurringDefinition
		reference time.Time
		want      time.Time
	}{
		{
			name:      "anchor ahead in current month",
			def:       monthDayDef(model.FrequencyMonthly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.January, 10),
			want:      date(2024, time.January, 15),
		},
		{
			name:      "anchor passed rolls to next month",
			def:       monthDayDef(model.FrequencyMonthly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.January, 20),
			want:      date(2024, time.February, 15),
		},
		{
			name:      "day 31 clamps to leap-year February",
			def:       monthDayDef(model.FrequencyMonthly, 31, date(2024, time.January, 31)),
			reference: date(2024, time.February, 15),
			want:      date(2024, time.February, 29),
		},
		{
			name:      "day 31 clamps to non-leap February",
			def:       monthDayDef(model.FrequencyMonthly, 31, date(2023, time.January, 31)),
			reference: date(2023, time.February, 10),
			want:      date(2023, time.February, 28),
		},
		{
			name:      "day 31 on a 30-day month yields day 30 not next month",
			def:       monthDayDef(model.FrequencyMonthly, 31, date(2024, time.January, 31)),
			reference: date(2024, time.April, 1),
			want:      date(2024, time.April, 30),
		},
		{
			name:      "december rollover into next year",
			def:       monthDayDef(model.FrequencyMonthly, 5, date(2024, time.January, 5)),
			reference: date(2024, time.December, 10),
			want:      date(2025, time.January, 5),
		},
		{
			name:      "reference exactly on anchor is due same day",
			def:       monthDayDef(model.FrequencyMonthly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.March, 15),
			want:      date(2024, time.March, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.def, tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDue_Quarterly(t *testing.T) {
	tests := []struct {
		name      string
		def       *model.RecurringDefinition
		reference time.Time
		want      time.Time
	}{
		{
			name:      "anchor passed in quarter month rolls a full quarter",
			def:       monthDayDef(model.FrequencyQuarterly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.April, 20),
			want:      date(2024, time.July, 15),
		},
		{
			name:      "anchor ahead in quarter month",
			def:       monthDayDef(model.FrequencyQuarterly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.April, 10),
			want:      date(2024, time.April, 15),
		},
		{
			name:      "reference mid-quarter already past the anchor month",
			def:       monthDayDef(model.FrequencyQuarterly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.May, 10),
			want:      date(2024, time.July, 15),
		},
		{
			name:      "fourth quarter rolls into next year",
			def:       monthDayDef(model.FrequencyQuarterly, 15, date(2024, time.January, 1)),
			reference: date(2024, time.November, 1),
			want:      date(2025, time.January, 15),
		},
		{
			name:      "day 31 clamps against the quarter month length",
			def:       monthDayDef(model.FrequencyQuarterly, 31, date(2024, time.January, 1)),
			reference: date(2024, time.April, 1),
			want:      date(2024, time.April, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.def, tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDue_Yearly(t *testing.T) {
	tests := []struct {
		name      string
		def       *model.RecurringDefinition
		reference time.Time
		want      time.Time
	}{
		{
			name:      "anchor ahead this year",
			def:       monthDayDef(model.FrequencyYearly, 10, date(2024, time.March, 10)),
			reference: date(2025, time.February, 1),
			want:      date(2025, time.March, 10),
		},
		{
			name:      "anchor passed this year rolls to next year",
			def:       monthDayDef(model.FrequencyYearly, 10, date(2024, time.March, 10)),
			reference: date(2025, time.March, 11),
			want:      date(2026, time.March, 10),
		},
		{
			name:      "feb 29 anchor clamps to feb 28 on a non-leap year",
			def:       monthDayDef(model.FrequencyYearly, 29, date(2024, time.February, 29)),
			reference: date(2025, time.January, 1),
			want:      date(2025, time.February, 28),
		},
		{
			name:      "feb 29 anchor lands on feb 29 in a leap year",
			def:       monthDayDef(model.FrequencyYearly, 29, date(2024, time.February, 29)),
			reference: date(2028, time.January, 1),
			want:      date(2028, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDue(tt.def, tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextDue_NeverBeforeReferenceOrStart(t *testing.T) {
	defs := []*model.RecurringDefinition{
		weeklyDef(2, date(2024, time.March, 5)),
		monthDayDef(model.FrequencyMonthly, 31, date(2024, time.January, 31)),
		monthDayDef(model.FrequencyQuarterly, 1, date(2024, time.February, 1)),
		monthDayDef(model.FrequencyYearly, 15, date(2023, time.June, 15)),
	}
	references := []time.Time{
		date(2023, time.December, 31),
		date(2024, time.February, 29),
		date(2024, time.June, 30),
		date(2025, time.January, 1),
	}

	for _, def := range defs {
		for _, ref := range references {
			got, err := NextDue(def, ref)
			require.NoError(t, err)
			assert.False(t, got.Before(DateOf(ref)), "frequency %s: %s before reference %s", def.Frequency, got, ref)
			assert.False(t, got.Before(DateOf(def.StartDate)), "frequency %s: %s before start %s", def.Frequency, got, def.StartDate)
		}
	}
}

func TestNextAfter_StrictlyAdvances(t *testing.T) {
	tests := []struct {
		name     string
		def      *model.RecurringDefinition
		previous time.Time
		want     time.Time
	}{
		{
			// 2024-06-03 is a Monday with anchor Monday: NextDue would
			// return the same date, NextAfter must move a full week.
			name:     "weekly advances one week from an on-anchor due date",
			def:      weeklyDef(1, date(2024, time.January, 1)),
			previous: date(2024, time.June, 3),
			want:     date(2024, time.June, 10),
		},
		{
			name:     "monthly advances from jan 31 to leap feb 29",
			def:      monthDayDef(model.FrequencyMonthly, 31, date(2024, time.January, 31)),
			previous: date(2024, time.January, 31),
			want:     date(2024, time.February, 29),
		},
		{
			name:     "monthly recovers full anchor after a short month",
			def:      monthDayDef(model.FrequencyMonthly, 31, date(2024, time.January, 31)),
			previous: date(2024, time.February, 29),
			want:     date(2024, time.March, 31),
		},
		{
			name:     "quarterly advances one quarter",
			def:      monthDayDef(model.FrequencyQuarterly, 15, date(2024, time.January, 1)),
			previous: date(2024, time.April, 15),
			want:     date(2024, time.July, 15),
		},
		{
			name:     "yearly advances one year",
			def:      monthDayDef(model.FrequencyYearly, 10, date(2024, time.March, 10)),
			previous: date(2025, time.March, 10),
			want:     date(2026, time.March, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextAfter(tt.def, tt.previous)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.previous))
		})
	}
}

func TestNextDue_InvalidSchedules(t *testing.T) {
	tests := []struct {
		name string
		def  *model.RecurringDefinition
	}{
		{
			name: "unknown frequency",
			def:  &model.RecurringDefinition{Frequency: "fortnightly", DayOfMonth: intPtr(1)},
		},
		{
			name: "weekly without day of week",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyWeekly},
		},
		{
			name: "weekly day of week out of range",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyWeekly, DayOfWeek: intPtr(7)},
		},
		{
			name: "weekly day of week negative",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyWeekly, DayOfWeek: intPtr(-1)},
		},
		{
			name: "monthly without day of month",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyMonthly},
		},
		{
			name: "monthly day of month zero",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyMonthly, DayOfMonth: intPtr(0)},
		},
		{
			name: "yearly day of month too large",
			def:  &model.RecurringDefinition{Frequency: model.FrequencyYearly, DayOfMonth: intPtr(32)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextDue(tt.def, date(2024, time.June, 1))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)

			err = Validate(tt.def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestDateOf_StripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	stamp := time.Date(2024, time.June, 3, 23, 45, 12, 999, loc)
	assert.Equal(t, date(2024, time.June, 3), DateOf(stamp))
}
