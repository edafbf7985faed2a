package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// bookWithBirthdays builds a book from {name, birthday} pairs, validating
// birthdays against a clock set to now.
func bookWithBirthdays(t *testing.T, now time.Time, entries [][2]string) *engine.AddressBook {
	t.Helper()
	book := engine.NewAddressBook()
	for _, e := range entries {
		r := newTestRecord(t, e[0])
		r.Clock = MockClock{CurrentTime: now}
		if e[1] != "" {
			require.NoError(t, r.AddBirthday(e[1]))
		}
		require.NoError(t, book.Add(r))
	}
	return book
}

func names(items []engine.UpcomingBirthday) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestUpcomingBirthdays_Window(t *testing.T) {
	// Monday, June 9th 2025.
	today := date(2025, time.June, 9)

	book := bookWithBirthdays(t, today, [][2]string{
		{"Yesterday", "08.06.1990"},
		{"Today", "09.06.1985"},
		{"In four days", "13.06.1990"},
		{"Last day", "15.06.2000"},
		{"Too late", "16.06.1990"},
		{"No birthday", ""},
	})

	got := book.UpcomingBirthdays(today)
	assert.Equal(t, []string{"Today", "In four days", "Last day"}, names(got))
}

func TestUpcomingBirthdays_WeekendShift(t *testing.T) {
	today := date(2025, time.June, 9) // Monday

	tests := []struct {
		name     string
		birthday string
		want     time.Time
	}{
		{"Friday is unshifted", "13.06.1990", date(2025, time.June, 13)},
		{"Saturday moves two days", "14.06.1990", date(2025, time.June, 16)},
		{"Sunday moves one day", "15.06.1990", date(2025, time.June, 16)},
		{"Monday is unshifted", "09.06.1990", date(2025, time.June, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := bookWithBirthdays(t, today, [][2]string{{"Test", tt.birthday}})
			got := book.UpcomingBirthdays(today)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].CongratulationDate)
			wd := got[0].CongratulationDate.Weekday()
			assert.NotEqual(t, time.Saturday, wd)
			assert.NotEqual(t, time.Sunday, wd)
		})
	}
}

func TestUpcomingBirthdays_TimeOfDayIgnored(t *testing.T) {
	lateEvening := time.Date(2025, time.June, 9, 23, 59, 0, 0, time.UTC)
	book := bookWithBirthdays(t, lateEvening, [][2]string{{"Today", "09.06.1990"}})

	got := book.UpcomingBirthdays(lateEvening)
	require.Len(t, got, 1)
	assert.Equal(t, date(2025, time.June, 9), got[0].CongratulationDate)
}

func TestUpcomingBirthdays_LeapDay(t *testing.T) {
	t.Run("Non-leap year observes March 1st", func(t *testing.T) {
		today := date(2025, time.February, 26) // Wednesday
		book := bookWithBirthdays(t, today, [][2]string{{"Leap Baby", "29.02.2000"}})

		got := book.UpcomingBirthdays(today)
		require.Len(t, got, 1)
		// March 1st 2025 is a Saturday, congratulate on Monday.
		assert.Equal(t, date(2025, time.March, 3), got[0].CongratulationDate)
		assert.Equal(t, date(2000, time.February, 29), got[0].Birthday)
	})

	t.Run("Leap year keeps February 29th", func(t *testing.T) {
		today := date(2028, time.February, 27)
		book := bookWithBirthdays(t, today, [][2]string{{"Leap Baby", "29.02.2000"}})

		got := book.UpcomingBirthdays(today)
		require.Len(t, got, 1)
		assert.Equal(t, date(2028, time.February, 29), got[0].CongratulationDate)
	})
}

func TestUpcomingBirthdays_CurrentYearOnly(t *testing.T) {
	today := date(2025, time.December, 29)
	book := bookWithBirthdays(t, today, [][2]string{
		{"New Year", "02.01.1990"},
		{"Eve", "31.12.1990"},
	})

	got := book.UpcomingBirthdays(today)
	assert.Equal(t, []string{"Eve"}, names(got), "birthdays of next year are not projected")
}

func TestUpcomingBirthdays_CarriesRecordData(t *testing.T) {
	today := date(2025, time.June, 9)
	book := bookWithBirthdays(t, today, [][2]string{{"Test", "10.06.1990"}})
	r, err := book.Find("Test", true)
	require.NoError(t, err)

	got := book.UpcomingBirthdays(today)
	require.Len(t, got, 1)
	assert.Equal(t, r.UID(), got[0].UID)
	assert.Equal(t, date(1990, time.June, 10), got[0].Birthday)
}

func TestUpcomingBirthdays_Empty(t *testing.T) {
	assert.Empty(t, engine.NewAddressBook().UpcomingBirthdays(time.Now()))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2025, 6, 9, 1, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, loc), engine.StartOfDay(in))
}
