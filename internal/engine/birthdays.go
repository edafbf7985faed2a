package engine

import "time"

// UpcomingDays is the size of the birthday window, today included.
const UpcomingDays = 7

// UpcomingBirthday is a contact to congratulate within the window.
type UpcomingBirthday struct {
	Name string
	UID  string

	// Birthday is the original date of birth.
	Birthday time.Time

	// CongratulationDate is the birthday in the current year, moved to the
	// following Monday when it falls on a weekend.
	CongratulationDate time.Time
}

// UpcomingBirthdays returns the contacts whose birthday falls between today
// and today+6 days, in insertion order. Only today's calendar year is
// considered. A Feb 29 birthday is observed on March 1 in non-leap years.
func (b *AddressBook) UpcomingBirthdays(today time.Time) []UpcomingBirthday {
	start := StartOfDay(today)
	end := start.AddDate(0, 0, UpcomingDays-1)

	var out []UpcomingBirthday
	for _, r := range b.Records() {
		bday, ok := r.Birthday()
		if !ok {
			continue
		}

		thisYear := birthdayInYear(bday.Date(), start.Year(), start.Location())
		if thisYear.Before(start) || thisYear.After(end) {
			continue
		}

		out = append(out, UpcomingBirthday{
			Name:               r.Name().String(),
			UID:                r.UID(),
			Birthday:           bday.Date(),
			CongratulationDate: shiftWeekend(thisYear),
		})
	}
	return out
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// birthdayInYear projects birthDate onto year. time.Date normalizes Feb 29 to
// March 1 when year is not a leap year.
func birthdayInYear(birthDate time.Time, year int, loc *time.Location) time.Time {
	return time.Date(year, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
}

// shiftWeekend moves Saturday and Sunday to the following Monday.
func shiftWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}
