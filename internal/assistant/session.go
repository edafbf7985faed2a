// Package assistant implements the interactive address book commands.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-addressbook/internal/calendar"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/vcf"
)

// Publisher receives every regenerated birthdays feed.
type Publisher interface {
	Update(data []byte)
}

// Session owns an address book and serializes every command run against it.
// Configure the exported fields before the first Execute.
type Session struct {
	Clock     engine.Clock // Nil means engine.RealClock.
	Fetcher   vcf.Fetcher  // Used by import.
	Publisher Publisher    // Optional feed sink.

	// ReminderTrigger is passed to the feed generator.
	ReminderTrigger string

	// Password resolves import credentials. Defaults to the OS keyring.
	Password func(user string) string

	mu      sync.Mutex
	book    *engine.AddressBook
	catalog *Catalog
}

// NewSession wraps book. A nil book starts empty.
func NewSession(book *engine.AddressBook, catalog *Catalog) *Session {
	if book == nil {
		book = engine.NewAddressBook()
	}
	return &Session{
		book:     book,
		catalog:  catalog,
		Password: Password,
	}
}

// Execute runs one input line and returns the reply. quit is set once the
// user asked to leave.
func (s *Session) Execute(ctx context.Context, line string) (reply string, quit bool) {
	name, args := parseInput(line)
	switch name {
	case "":
		return "", false
	case config.CommandClose, config.CommandExit:
		return s.catalog.Msg(config.TKeyGoodbye), true
	}

	cmd, ok := commands[name]
	if !ok {
		return s.catalog.Msg(config.TKeyInvalidCommand), false
	}

	start := time.Now()
	if len(args) < cmd.minArgs {
		return s.renderError(name, cmd, engine.Errorf(engine.EARGUMENT, engine.MsgNotEnoughArgs)), false
	}

	if !cmd.locksItself {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	reply, err := cmd.run(s, ctx, args)
	if err != nil {
		return s.renderError(name, cmd, err), false
	}
	if cmd.mutates {
		s.refreshLocked()
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCommand, name,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return reply, false
}

// renderError turns err into the reply shown to the user.
func (s *Session) renderError(name string, cmd command, err error) string {
	switch engine.ErrorCode(err) {
	case engine.EARGUMENT:
		return s.catalog.Msg(cmd.usage)
	case engine.EINVALID, engine.ECONFLICT, engine.ENOTFOUND:
		return engine.ErrorMessage(err)
	}

	slog.Error(config.ErrCommandFailed,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCommand, name,
		config.LogKeyError, err)
	return s.catalog.Msg(config.TKeyInternalError)
}

// Refresh regenerates the feed and returns the number of congratulations due today.
func (s *Session) Refresh() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked()
}

// refreshLocked renders the feed and publishes it. Failures are logged and
// leave the previous feed in place.
func (s *Session) refreshLocked() int {
	gen := &calendar.Generator{
		Clock:           s.Clock,
		ReminderTrigger: s.ReminderTrigger,
		FormatSummary:   s.catalog.SummaryFormatter(),
	}

	data, today, err := gen.Render(s.book)
	if err != nil {
		slog.Error(config.ErrFeedRender,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyError, err)
		return 0
	}
	if s.Publisher != nil {
		s.Publisher.Update(data)
	}
	return today
}

// Save writes the book to path.
func (s *Session) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return vcf.Save(path, s.book)
}

func (s *Session) now() time.Time {
	if s.Clock == nil {
		return engine.RealClock{}.Now()
	}
	return s.Clock.Now()
}

// parseInput splits line on whitespace. The command name is case-insensitive.
func parseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
