package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Record is one contact: a name, its phone numbers in insertion order and an
// optional birthday. No two phones of a record are equal.
type Record struct {
	// Clock is consulted when validating birthdays. Nil means RealClock.
	Clock Clock

	uid      string
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord validates name and returns an empty record with a fresh UID.
func NewRecord(name string) (*Record, error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	return &Record{uid: uuid.NewString(), name: n}, nil
}

// UID is a stable identifier used by exports. It takes no part in equality.
func (r *Record) UID() string { return r.uid }

// SetUID replaces the identifier, e.g. with the one read from a vCard.
// Blank values are ignored.
func (r *Record) SetUID(uid string) {
	if strings.TrimSpace(uid) != "" {
		r.uid = uid
	}
}

func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone appends raw after normalization.
func (r *Record) AddPhone(raw string) error {
	p, err := ParsePhone(raw)
	if err != nil {
		return err
	}
	if r.indexOf(p) >= 0 {
		return Errorf(ECONFLICT, MsgPhoneExists)
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone deletes the phone equal to raw. Removing an absent phone is a no-op.
func (r *Record) RemovePhone(raw string) error {
	p, err := ParsePhone(raw)
	if err != nil {
		return err
	}
	if i := r.indexOf(p); i >= 0 {
		r.phones = slices.Delete(r.phones, i, i+1)
	}
	return nil
}

// EditPhone replaces oldRaw with newRaw, keeping its position.
func (r *Record) EditPhone(oldRaw, newRaw string) error {
	oldPhone, err := ParsePhone(oldRaw)
	if err != nil {
		return err
	}
	newPhone, err := ParsePhone(newRaw)
	if err != nil {
		return err
	}

	i := r.indexOf(oldPhone)
	if i < 0 {
		return Errorf(ENOTFOUND, MsgPhoneNotFound)
	}
	if r.indexOf(newPhone) >= 0 {
		return Errorf(ECONFLICT, MsgNewPhoneExists)
	}
	r.phones[i] = newPhone
	return nil
}

// FindPhone returns the stored phone equal to raw, if any.
func (r *Record) FindPhone(raw string) (Phone, bool, error) {
	p, err := ParsePhone(raw)
	if err != nil {
		return Phone{}, false, err
	}
	i := r.indexOf(p)
	if i < 0 {
		return Phone{}, false, nil
	}
	return r.phones[i], true, nil
}

// AddBirthday sets or replaces the birthday.
func (r *Record) AddBirthday(raw string) error {
	clock := r.Clock
	if clock == nil {
		clock = RealClock{}
	}
	b, err := ParseBirthday(raw, clock.Now())
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// String renders the record for display:
//
//	Contact name: John, phones: +380681234567; +381234567890, birthday: 01.04.1990
func (r *Record) String() string {
	values := make([]string, len(r.phones))
	for i, p := range r.phones {
		values[i] = p.String()
	}

	var sb strings.Builder
	sb.WriteString("Contact name: ")
	sb.WriteString(r.name.String())
	sb.WriteString(", phones: ")
	sb.WriteString(strings.Join(values, "; "))
	if r.birthday != nil {
		sb.WriteString(", birthday: ")
		sb.WriteString(r.birthday.String())
	}
	return sb.String()
}

func (r *Record) indexOf(p Phone) int {
	return slices.IndexFunc(r.phones, p.Equal)
}
