package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote imports.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AddressBook"
	AppID             = "com.github.tartampluch.go-addressbook"
	KeyringService    = "com.github.tartampluch.go-addressbook"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	BookFileName      = "contacts.vcf"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the address book and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	// TempFilePattern is used for atomic writes (write temp, then rename).
	TempFilePattern = ".contacts-*.tmp"
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRootUse        = "go-addressbook"
	CmdRootShort      = "Personal address book assistant"
	CmdRootLong       = "An interactive assistant that keeps contacts, phone numbers and birthdays,\nand publishes upcoming birthdays as an iCalendar feed."
	CmdServeUse       = "serve"
	CmdServeShort     = "Serve the upcoming birthdays feed until interrupted"
	CmdBirthdaysUse   = "birthdays"
	CmdBirthdaysShort = "Print the birthdays of the next 7 days and exit"
	CmdCredsUse       = "credentials"
	CmdCredsShort     = "Manage credentials for remote address book imports"
	CmdCredsSetUse    = "set <user>"
	CmdCredsSetShort  = "Read a password from stdin and store it in the OS keyring"

	FlagVersion     = "version"
	FlagDebug       = "debug"
	FlagFile        = "file"
	FlagFeedPort    = "feed-port"
	FlagDate        = "date"
	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescFile    = "Path to the vCard address book"
	FlagDescPort    = "Serve the birthdays feed on this localhost port (empty disables it)"
	FlagDescDate    = "Reference day in DD.MM.YYYY format (defaults to today)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgPasswordStore = "Password stored for %s.\n"
	MsgPasswordEmpty = "password must not be empty"
)

// -----------------------------------------------------------------------------
// Assistant
// -----------------------------------------------------------------------------

const (
	Prompt = "Enter a command: "

	// Command names understood by the assistant.
	CommandHello        = "hello"
	CommandAdd          = "add"
	CommandChange       = "change"
	CommandPhone        = "phone"
	CommandRemovePhone  = "remove-phone"
	CommandDelete       = "delete"
	CommandContact      = "contact"
	CommandAll          = "all"
	CommandAddBirthday  = "add-birthday"
	CommandShowBirthday = "show-birthday"
	CommandBirthdays    = "birthdays"
	CommandImport       = "import"
	CommandExport       = "export"
	CommandHelp         = "help"
	CommandClose        = "close"
	CommandExit         = "exit"

	PhoneSeparator = "; "
	LineSeparator  = "\n"
)

// -----------------------------------------------------------------------------
// Message Catalog Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyHello            = "reply_hello"
	TKeyGoodbye          = "reply_goodbye"
	TKeyInvalidCommand   = "reply_invalid_command"
	TKeyContactAdded     = "reply_contact_added"
	TKeyContactUpdated   = "reply_contact_updated"
	TKeyContactDeleted   = "reply_contact_deleted"
	TKeyPhoneRemoved     = "reply_phone_removed"
	TKeyNoPhones         = "reply_no_phones"
	TKeyNoContacts       = "reply_no_contacts"
	TKeyBirthdayAdded    = "reply_birthday_added"
	TKeyBirthdayNotSet   = "reply_birthday_not_set"
	TKeyNoBirthdays      = "reply_no_birthdays"
	TKeyBirthdayLine     = "reply_birthday_line" // Requires Name, Date
	TKeyImported         = "reply_imported"      // Requires Count
	TKeyExported         = "reply_exported"      // Requires Count
	TKeyImportDenied     = "reply_import_denied"
	TKeyImportStatus     = "reply_import_status" // Requires Code
	TKeyImportNotVCard   = "reply_import_not_vcard"
	TKeyInternalError    = "reply_internal_error"
	TKeyHelp             = "reply_help"
	TKeyEvtSummary       = "event_summary" // Requires Name
	TKeyUsageAdd         = "usage_add"
	TKeyUsageChange      = "usage_change"
	TKeyUsagePhone       = "usage_phone"
	TKeyUsageRemovePhone = "usage_remove_phone"
	TKeyUsageDelete      = "usage_delete"
	TKeyUsageContact     = "usage_contact"
	TKeyUsageAddBirthday = "usage_add_birthday"
	TKeyUsageShowBday    = "usage_show_birthday"
	TKeyUsageImport      = "usage_import"
	TKeyUsageExport      = "usage_export"
)

// SupportedLanguages defines the list of available catalog languages (ISO 639-1).
var SupportedLanguages = []string{"en"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultRefreshMin    = 60
	DefaultLanguage      = "en"
	DefaultLeapYear      = 2000 // Leap year fallback for vCard dates like --02-29
	DefaultReminderValue = 1
	DisabledPort         = ""
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go AddressBook//Feed//EN"
	ICalCalName   = "Upcoming Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goaddressbook"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardVersion = "4.0"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// DateFormatDisplay is the only date format used at the assistant boundary.
	DateFormatDisplay = "02.01.2006"

	// Date layouts used for vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MinPort = 1
	MaxPort = 65535

	FormatUID = "%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB, address books rarely carry photos here
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard"
	MimeVCardLegacy     = "text/x-vcard"
	MimeDirectory       = "text/directory"
	MimeTextPlain       = "text/plain"
	MimeOctetStream     = "application/octet-stream"
	AcceptVCard         = "text/vcard, text/x-vcard;q=0.9, text/directory;q=0.8, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrRefreshRange   = "refresh interval must be positive"
	ErrReminderUnit   = "unsupported reminder unit"
	ErrReminderDir    = "unsupported reminder direction"
	ErrReminderValue  = "reminder value must be positive"
	ErrLanguage       = "unsupported language"
	ErrLoadSettings   = "failed to load settings"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrVCardEncode    = "failed to encode vCard data"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrBookLoad       = "failed to load address book"
	ErrBookSave       = "failed to save address book"
	ErrBookLossy      = "address book has unreadable entries that would be lost on save"
	ErrNotVCard       = "content is not a vCard address book"
	ErrContentType    = "unexpected content type"
	ErrHTTPStatus     = "server returned unexpected status"
	ErrHTTPRequest    = "failed to create request"
	ErrNetwork        = "network error during fetch"
	ErrBodyTooLarge   = "response body exceeds the size limit"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrConfigDir      = "could not determine user config dir"
	ErrCreateDir      = "could not create app directory"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrCommandFailed  = "command failed"
	ErrFeedRender     = "failed to render birthdays feed"
	ErrReadInput      = "failed to read input"
	ErrKeyringSet     = "failed to save credentials to keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Birthday: %s"
	FallbackName    = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgWorkerStart   = "Feed refresh worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgAppStop       = "Application stopped gracefully"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Feed cache updated"
	MsgFeedRendered  = "Birthdays feed rendered"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedField  = "Skipping invalid vCard field"
	MsgBookLoaded    = "Address book loaded"
	MsgBookSaved     = "Address book saved"
	MsgBookMissing   = "Address book file not found, starting empty"
	MsgImportDone    = "Remote address book imported"
	MsgImportFailed  = "Remote address book rejected"
	MsgFetchStart    = "Requesting remote address book"
	MsgFetchBody     = "Remote address book downloading"
	MsgBookLossy     = "Address book would lose entries on save, refusing to load"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgCommand       = "Command executed"
	MsgBdayToday     = "Congratulation due today"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyCommand   = "command"
	LogKeyCount     = "count"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyField     = "field"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"
	LogKeyMime      = "content_type"
	LogKeySkipCards = "skipped_cards"
	LogKeySkipField = "skipped_fields"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompAssistant = "assistant"
	CompCalendar  = "calendar"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompStore     = "store"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)
