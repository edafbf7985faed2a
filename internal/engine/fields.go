package engine

import (
	"strings"
	"time"
)

// DateLayout is the textual birthday format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

const (
	// CountryCode is prepended to numbers given without a leading '+'.
	CountryCode = "38"

	// PhoneLength is the length of a normalized number: '+', country code, 10 digits.
	PhoneLength = 13

	// MinBirthYear is the earliest accepted birth year.
	MinBirthYear = 1900
)

// Name is the validated display name of a contact. It is the directory key.
type Name struct {
	value string
}

// ParseName accepts any text that is not blank and stores it unchanged.
func ParseName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return Name{}, Errorf(EINVALID, MsgInvalidName)
	}
	return Name{value: raw}, nil
}

func (n Name) String() string { return n.value }

// Equal reports whether both names have the same value.
func (n Name) Equal(other Name) bool { return n.value == other.value }

// Phone is a normalized phone number such as +380681234567.
type Phone struct {
	value string
}

// ParsePhone normalizes raw and validates the result.
//
// Every character other than '+' and an ASCII digit is dropped. A number not
// starting with '+' gets the country code prepended, replacing one copy of it
// if the digits already begin with it. The result must be PhoneLength long.
func ParsePhone(raw string) (Phone, error) {
	var b strings.Builder
	b.Grow(len(raw) + 1)
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	phone := b.String()
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + CountryCode + strings.TrimPrefix(phone, CountryCode)
	}

	if len(phone) != PhoneLength {
		return Phone{}, Errorf(EINVALID, MsgInvalidPhone)
	}
	return Phone{value: phone}, nil
}

func (p Phone) String() string { return p.value }

// Equal reports whether both numbers normalize to the same value.
func (p Phone) Equal(other Phone) bool { return p.value == other.value }

// Birthday is a date of birth with no time-of-day semantics.
type Birthday struct {
	value time.Time
}

// ParseBirthday parses raw as DD.MM.YYYY in now's location. The date must not
// be after now and not before MinBirthYear.
func ParseBirthday(raw string, now time.Time) (Birthday, error) {
	t, err := time.ParseInLocation(DateLayout, raw, now.Location())
	if err != nil {
		return Birthday{}, Errorf(EINVALID, MsgInvalidDate)
	}
	if t.After(now) {
		return Birthday{}, Errorf(EINVALID, MsgFutureBirthday)
	}
	if t.Year() < MinBirthYear {
		return Birthday{}, Errorf(EINVALID, MsgTooOldBirthday)
	}
	return Birthday{value: t}, nil
}

// Date returns the birth date at midnight.
func (b Birthday) Date() time.Time { return b.value }

// String renders the date as DD.MM.YYYY.
func (b Birthday) String() string { return b.value.Format(DateLayout) }

// Equal compares calendar dates.
func (b Birthday) Equal(other Birthday) bool {
	y1, m1, d1 := b.value.Date()
	y2, m2, d2 := other.value.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsZero reports whether b was never parsed.
func (b Birthday) IsZero() bool { return b.value.IsZero() }
