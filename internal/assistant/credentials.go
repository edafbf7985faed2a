package assistant

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// Password returns the keyring password of user, or "" when none is stored.
func Password(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompAssistant)
		return ""
	}
	return p
}

// StorePassword saves the password of user in the OS keyring.
func StorePassword(user, pass string) error {
	if pass == "" {
		return errors.New(config.MsgPasswordEmpty)
	}
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}
