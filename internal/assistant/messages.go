package assistant

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-addressbook/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog resolves reply keys to text.
type Catalog struct {
	localizer *i18n.Localizer
	languages []string
}

// NewCatalog loads every embedded locale and selects lang.
// Load failures are logged. Keys of a missing locale resolve to themselves.
func NewCatalog(lang string) *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if lang == "" {
		lang = config.DefaultLanguage
	}
	c := &Catalog{}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		c.localizer = i18n.NewLocalizer(bundle, lang)
		return c
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		c.languages = append(c.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	c.localizer = i18n.NewLocalizer(bundle, lang)
	return c
}

// Languages lists the locales that loaded successfully.
func (c *Catalog) Languages() []string {
	if c == nil {
		return nil
	}
	return c.languages
}

// Msg translates key.
func (c *Catalog) Msg(key string) string {
	return c.Format(key, nil)
}

// Format translates key, filling its template with data.
// A key without translation is returned as-is.
func (c *Catalog) Format(key string, data map[string]any) string {
	if c == nil || c.localizer == nil {
		return key
	}
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// SummaryFormatter returns the event title function for calendar.Generator.
// A nil catalog yields nil, which keeps the generator's default title.
func (c *Catalog) SummaryFormatter() func(name string) string {
	if c == nil {
		return nil
	}
	return func(name string) string {
		return c.Format(config.TKeyEvtSummary, map[string]any{"Name": name})
	}
}
