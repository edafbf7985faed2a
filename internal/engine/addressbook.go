package engine

import "slices"

// AddressBook maps contact names to records and remembers insertion order.
// It is not safe for concurrent use; callers sharing a book must serialize access.
type AddressBook struct {
	records map[string]*Record
	order   []string
}

// NewAddressBook returns an empty address book.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int { return len(b.order) }

// Add inserts record. Its name must be valid and no contact with an equal
// name may exist yet.
func (b *AddressBook) Add(record *Record) error {
	if record == nil {
		return Errorf(EINVALID, MsgNilRecord)
	}
	n, err := ParseName(record.Name().String())
	if err != nil {
		return err
	}
	key := n.String()
	if _, ok := b.records[key]; ok {
		return Errorf(ECONFLICT, MsgContactExists)
	}
	b.records[key] = record
	b.order = append(b.order, key)
	return nil
}

// Find looks a contact up by name. When the contact is missing, Find fails
// with ENOTFOUND if mustExist is set and returns (nil, nil) otherwise.
func (b *AddressBook) Find(name string, mustExist bool) (*Record, error) {
	n, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	if r, ok := b.records[n.String()]; ok {
		return r, nil
	}
	if mustExist {
		return nil, Errorf(ENOTFOUND, MsgContactNotFound)
	}
	return nil, nil
}

// Delete removes the contact if present.
func (b *AddressBook) Delete(name string) error {
	n, err := ParseName(name)
	if err != nil {
		return err
	}
	key := n.String()
	if _, ok := b.records[key]; !ok {
		return nil
	}
	delete(b.records, key)
	b.order = slices.DeleteFunc(b.order, func(k string) bool { return k == key })
	return nil
}

// Records returns the contacts in insertion order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.records[key])
	}
	return out
}

// List renders every contact, in insertion order.
func (b *AddressBook) List() []string {
	out := make([]string, 0, len(b.order))
	for _, r := range b.Records() {
		out = append(out, r.String())
	}
	return out
}
