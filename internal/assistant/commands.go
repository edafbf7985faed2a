package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/vcf"
)

type command struct {
	run     func(s *Session, ctx context.Context, args []string) (string, error)
	minArgs int
	usage   string // catalog key rendered on EARGUMENT

	// mutates triggers a feed refresh after success.
	mutates bool
	// locksItself handlers take s.mu on their own.
	locksItself bool
}

var commands = map[string]command{
	config.CommandHello: {run: (*Session).hello},
	config.CommandHelp:  {run: (*Session).help},
	config.CommandAll:   {run: (*Session).allContacts},

	config.CommandAdd:          {run: (*Session).addContact, minArgs: 2, usage: config.TKeyUsageAdd, mutates: true},
	config.CommandChange:       {run: (*Session).changeContact, minArgs: 3, usage: config.TKeyUsageChange, mutates: true},
	config.CommandPhone:        {run: (*Session).showPhone, minArgs: 1, usage: config.TKeyUsagePhone},
	config.CommandRemovePhone:  {run: (*Session).removePhone, minArgs: 2, usage: config.TKeyUsageRemovePhone, mutates: true},
	config.CommandDelete:       {run: (*Session).deleteContact, minArgs: 1, usage: config.TKeyUsageDelete, mutates: true},
	config.CommandContact:      {run: (*Session).showContact, minArgs: 1, usage: config.TKeyUsageContact},
	config.CommandAddBirthday:  {run: (*Session).addBirthday, minArgs: 2, usage: config.TKeyUsageAddBirthday, mutates: true},
	config.CommandShowBirthday: {run: (*Session).showBirthday, minArgs: 1, usage: config.TKeyUsageShowBday},
	config.CommandBirthdays:    {run: (*Session).birthdays},
	config.CommandImport:       {run: (*Session).importBook, minArgs: 1, usage: config.TKeyUsageImport, locksItself: true},
	config.CommandExport:       {run: (*Session).exportBook, minArgs: 1, usage: config.TKeyUsageExport},
}

func (s *Session) hello(context.Context, []string) (string, error) {
	return s.catalog.Msg(config.TKeyHello), nil
}

func (s *Session) help(context.Context, []string) (string, error) {
	return s.catalog.Msg(config.TKeyHelp), nil
}

// addContact creates the contact or adds a phone to an existing one.
// The phone is validated before a new contact is inserted.
func (s *Session) addContact(_ context.Context, args []string) (string, error) {
	name, phone := args[0], args[1]

	record, err := s.book.Find(name, false)
	if err != nil {
		return "", err
	}
	if record != nil {
		if err := record.AddPhone(phone); err != nil {
			return "", err
		}
		return s.catalog.Msg(config.TKeyContactUpdated), nil
	}

	record, err = engine.NewRecord(name)
	if err != nil {
		return "", err
	}
	record.Clock = s.Clock
	if err := record.AddPhone(phone); err != nil {
		return "", err
	}
	if err := s.book.Add(record); err != nil {
		return "", err
	}
	return s.catalog.Msg(config.TKeyContactAdded), nil
}

func (s *Session) changeContact(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	if err := record.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return s.catalog.Msg(config.TKeyContactUpdated), nil
}

func (s *Session) showPhone(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	phones := record.Phones()
	if len(phones) == 0 {
		return s.catalog.Msg(config.TKeyNoPhones), nil
	}
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.String()
	}
	return strings.Join(values, config.PhoneSeparator), nil
}

func (s *Session) removePhone(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	if err := record.RemovePhone(args[1]); err != nil {
		return "", err
	}
	return s.catalog.Msg(config.TKeyPhoneRemoved), nil
}

func (s *Session) deleteContact(_ context.Context, args []string) (string, error) {
	if err := s.book.Delete(args[0]); err != nil {
		return "", err
	}
	return s.catalog.Msg(config.TKeyContactDeleted), nil
}

func (s *Session) showContact(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	return record.String(), nil
}

func (s *Session) allContacts(context.Context, []string) (string, error) {
	lines := s.book.List()
	if len(lines) == 0 {
		return s.catalog.Msg(config.TKeyNoContacts), nil
	}
	return strings.Join(lines, config.LineSeparator), nil
}

func (s *Session) addBirthday(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	record.Clock = s.Clock
	if err := record.AddBirthday(args[1]); err != nil {
		return "", err
	}
	return s.catalog.Msg(config.TKeyBirthdayAdded), nil
}

func (s *Session) showBirthday(_ context.Context, args []string) (string, error) {
	record, err := s.book.Find(args[0], true)
	if err != nil {
		return "", err
	}
	b, ok := record.Birthday()
	if !ok {
		return s.catalog.Msg(config.TKeyBirthdayNotSet), nil
	}
	return b.String(), nil
}

// birthdays lists the congratulation dates of the upcoming week.
func (s *Session) birthdays(context.Context, []string) (string, error) {
	upcoming := s.book.UpcomingBirthdays(s.now())
	if len(upcoming) == 0 {
		return s.catalog.Msg(config.TKeyNoBirthdays), nil
	}

	lines := make([]string, len(upcoming))
	for i, u := range upcoming {
		lines[i] = s.catalog.Format(config.TKeyBirthdayLine, map[string]any{
			"Name": u.Name,
			"Date": u.CongratulationDate.Format(engine.DateLayout),
		})
	}
	return strings.Join(lines, config.LineSeparator), nil
}

// importBook downloads a vCard address book and merges it. The download runs
// without holding the session lock.
func (s *Session) importBook(ctx context.Context, args []string) (string, error) {
	url, user := args[0], ""
	if len(args) > 1 {
		user = args[1]
	}

	pass := ""
	if user != "" && s.Password != nil {
		pass = s.Password(user)
	}

	remote, err := vcf.Import(ctx, s.Fetcher, url, user, pass)
	if err != nil {
		return s.importFailure(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := vcf.Merge(s.book, remote)
	if n > 0 {
		s.refreshLocked()
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCount, n)
	return s.catalog.Format(config.TKeyImported, map[string]any{"Count": n}), nil
}

// importFailure turns the failures a user can act on into replies. Anything
// else stays an internal error.
func (s *Session) importFailure(err error) (string, error) {
	var status *vcf.StatusError
	var reply string

	switch {
	case errors.As(err, &status) && status.Denied():
		reply = s.catalog.Msg(config.TKeyImportDenied)
	case errors.As(err, &status):
		reply = s.catalog.Format(config.TKeyImportStatus, map[string]any{"Code": status.Code})
	case errors.Is(err, vcf.ErrNotVCard):
		reply = s.catalog.Msg(config.TKeyImportNotVCard)
	default:
		return "", err
	}

	slog.Warn(config.MsgImportFailed,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyError, err)
	return reply, nil
}

func (s *Session) exportBook(_ context.Context, args []string) (string, error) {
	if err := vcf.Save(args[0], s.book); err != nil {
		return "", err
	}
	return s.catalog.Format(config.TKeyExported, map[string]any{"Count": s.book.Len()}), nil
}
