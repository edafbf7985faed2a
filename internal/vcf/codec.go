// Package vcf stores address books as vCard files and imports remote ones.
package vcf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// telURIPrefix is used by vCard 4.0 when TEL carries a URI value.
const telURIPrefix = "tel:"

// Encode writes one vCard 4.0 card per record, in insertion order.
func Encode(w io.Writer, book *engine.AddressBook) error {
	enc := vcard.NewEncoder(w)
	for _, r := range book.Records() {
		if err := enc.Encode(recordToCard(r)); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

func recordToCard(r *engine.Record) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, r.Name().String())
	card.SetValue(vcard.FieldUID, r.UID())

	for _, p := range r.Phones() {
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  p.String(),
			Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
		})
	}

	if b, ok := r.Birthday(); ok {
		card.SetValue(vcard.FieldBirthday, b.Date().Format(config.DateFormatFullDash))
	}
	return card
}

// Report counts what Decode could not keep.
type Report struct {
	SkippedCards  int // malformed or nameless cards
	SkippedFields int // invalid phones, unusable or conflicting birthdays
}

// Lossless reports whether every card and field was kept.
func (r Report) Lossless() bool {
	return r.SkippedCards == 0 && r.SkippedFields == 0
}

// ErrNotVCard is returned by Decode when the input has content but no card.
var ErrNotVCard = errors.New(config.ErrNotVCard)

// Decode reads every card of r into a new address book.
//
// Malformed cards, nameless cards and invalid fields are skipped, logged and
// counted in the Report. Cards sharing a name are merged into one record.
// Input that is not blank but yields no record fails with ErrNotVCard.
func Decode(r io.Reader) (*engine.AddressBook, Report, error) {
	var report Report
	book := engine.NewAddressBook()
	src := &errReader{r: r}
	dec := vcard.NewDecoder(src)
	log := slog.With(config.LogKeyComponent, config.CompStore)

	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			report.SkippedCards++
			break
		}
		if err != nil {
			if src.err != nil {
				break
			}
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			report.SkippedCards++
			continue
		}

		skipped, err := mergeCard(book, card, log)
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			report.SkippedCards++
			continue
		}
		report.SkippedFields += skipped
	}

	if src.err != nil {
		return nil, report, fmt.Errorf("%s: %w", config.ErrVCardParse, src.err)
	}
	if book.Len() == 0 && src.content {
		return nil, report, ErrNotVCard
	}
	return book, report, nil
}

// errReader remembers the first non-EOF error of the underlying reader, which
// the vCard decoder would otherwise report as a malformed card. It also notes
// whether anything but whitespace went through.
type errReader struct {
	r       io.Reader
	err     error
	content bool
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if !e.content && len(bytes.TrimSpace(p[:n])) > 0 {
		e.content = true
	}
	if err != nil && !errors.Is(err, io.EOF) && e.err == nil {
		e.err = err
	}
	return n, err
}

// mergeCard adds card to book and returns how many of its fields were dropped.
func mergeCard(book *engine.AddressBook, card vcard.Card, log *slog.Logger) (int, error) {
	name := cardName(card)
	if name == "" {
		return 0, errors.New(engine.MsgInvalidName)
	}

	record, err := book.Find(name, false)
	if err != nil {
		return 0, err
	}
	if record == nil {
		if record, err = engine.NewRecord(name); err != nil {
			return 0, err
		}
		record.SetUID(card.Value(vcard.FieldUID))
		if err := book.Add(record); err != nil {
			return 0, err
		}
	}

	skipped := 0
	for _, tel := range card.Values(vcard.FieldTelephone) {
		tel = strings.TrimPrefix(tel, telURIPrefix)
		if err := record.AddPhone(tel); err != nil && !engine.IsConflict(err) {
			logSkippedField(log, name, vcard.FieldTelephone, tel)
			skipped++
		}
	}

	if bday := card.Value(vcard.FieldBirthday); bday != "" {
		if !addCardBirthday(record, bday) {
			logSkippedField(log, name, vcard.FieldBirthday, bday)
			skipped++
		}
	}
	return skipped, nil
}

// addCardBirthday sets the birthday of a record that has none. A birthday
// equal to the one already set counts as kept.
func addCardBirthday(record *engine.Record, value string) bool {
	birthDate, yearKnown, err := parseDate(value)
	if err != nil || !yearKnown {
		// The engine needs a full date to validate a birthday.
		return false
	}

	display := birthDate.Format(config.DateFormatDisplay)
	if current, ok := record.Birthday(); ok {
		return current.String() == display
	}
	return record.AddBirthday(display) == nil
}

func logSkippedField(log *slog.Logger, name, field, value string) {
	log.Warn(config.MsgSkippedField,
		config.LogKeyName, name,
		config.LogKeyField, field,
		config.LogKeyValue, value)
}

// cardName prefers FN (Formatted) over N (Structured).
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " ")
	}
	return ""
}

// parseDate handles the vCard date formats. Dates without a year (--MM-DD)
// are returned in config.DefaultLeapYear with yearKnown unset.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
