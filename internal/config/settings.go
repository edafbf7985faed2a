package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds the runtime configuration read from the environment.
// CLI flags override individual fields after loading.
type Settings struct {
	BookFile   string `envconfig:"ADDRESSBOOK_FILE"`
	FeedPort   string `envconfig:"ADDRESSBOOK_FEED_PORT"`
	RefreshMin int    `envconfig:"ADDRESSBOOK_REFRESH_MIN" default:"60"`
	Language   string `envconfig:"ADDRESSBOOK_LANGUAGE" default:"en"`
	Debug      bool   `envconfig:"ADDRESSBOOK_DEBUG"`

	Reminder struct {
		Enabled   bool   `envconfig:"ADDRESSBOOK_REMINDER_ENABLED"`
		Value     int    `envconfig:"ADDRESSBOOK_REMINDER_VALUE" default:"1"`
		Unit      string `envconfig:"ADDRESSBOOK_REMINDER_UNIT" default:"d"`
		Direction string `envconfig:"ADDRESSBOOK_REMINDER_DIR" default:"before"`
	}
}

// Load reads an optional .env file, then the process environment.
func Load() (*Settings, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	s := new(Settings)
	if err := envconfig.Process("", s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadSettings, err)
	}

	if s.BookFile == "" {
		path, err := DefaultBookPath()
		if err != nil {
			return nil, err
		}
		s.BookFile = path
	}

	return s, nil
}

// Validate checks the values that cannot be enforced by envconfig tags.
func (s *Settings) Validate() error {
	if s.FeedPort != DisabledPort {
		if err := ValidatePort(s.FeedPort); err != nil {
			return err
		}
	}
	if s.RefreshMin <= 0 {
		return errors.New(ErrRefreshRange)
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.Reminder.Enabled {
		if s.Reminder.Value <= 0 {
			return errors.New(ErrReminderValue)
		}
		switch s.Reminder.Unit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			return fmt.Errorf("%s: %q", ErrReminderUnit, s.Reminder.Unit)
		}
		if s.Reminder.Direction != DirBefore && s.Reminder.Direction != DirAfter {
			return fmt.Errorf("%s: %q", ErrReminderDir, s.Reminder.Direction)
		}
	}
	return nil
}

// ValidatePort enforces a numeric port within 1-65535.
func ValidatePort(s string) error {
	if s == "" {
		return errors.New(ErrPortRequired)
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if port < MinPort || port > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ReminderTrigger converts the reminder settings to an ISO8601 duration
// usable as a VALARM TRIGGER (e.g. "-P1D", "PT2H"). Empty when disabled.
func (s *Settings) ReminderTrigger() string {
	if !s.Reminder.Enabled {
		return ""
	}

	val := s.Reminder.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if s.Reminder.Direction != DirAfter {
		sign = ISONegativePrefix
	}

	switch s.Reminder.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTimePrefix, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}

// DefaultBookPath returns <user config dir>/<AppID>/contacts.vcf.
// The directory itself is created on first save.
func DefaultBookPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, BookFileName), nil
}
