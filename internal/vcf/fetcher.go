package vcf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Fetcher retrieves a remote vCard address book for the import command.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// ErrBodyTooLarge is returned while reading a body past the fetcher limit.
var ErrBodyTooLarge = errors.New(config.ErrBodyTooLarge)

// StatusError is returned when the server does not answer 200 OK.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", config.ErrHTTPStatus, e.Code, http.StatusText(e.Code))
}

// Denied reports whether the server refused the credentials.
func (e *StatusError) Denied() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// vcardTypes are the media types accepted from a server. Plain text and
// octet-stream cover static .vcf files on generic web servers.
var vcardTypes = map[string]bool{
	config.MimeVCard:       true,
	config.MimeVCardLegacy: true,
	config.MimeDirectory:   true,
	config.MimeTextPlain:   true,
	config.MimeOctetStream: true,
}

// HTTPFetcher downloads address books over HTTP(S) with optional basic auth.
type HTTPFetcher struct {
	Client *http.Client
	// MaxBytes caps the body. Zero means config.MaxHTTPResponseSize.
	MaxBytes int64
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch sends the import request and returns the body once the status and
// content type show a vCard address book. Reading past MaxBytes fails with
// ErrBodyTooLarge rather than truncating the last card.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	req, err := newImportRequest(ctx, targetURL, user, pass)
	if err != nil {
		return nil, err
	}

	log := slog.With(config.LogKeyComponent, config.CompFetcher, config.LogKeyURL, redactURL(req.URL))
	log.Debug(config.MsgFetchStart)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrNetwork, err)
	}

	if err := checkResponse(resp); err != nil {
		_ = resp.Body.Close()
		log.Warn(config.MsgImportFailed,
			config.LogKeyStatus, resp.StatusCode,
			config.LogKeyMime, resp.Header.Get(config.HeaderContentType),
			config.LogKeyError, err)
		return nil, err
	}

	log.Info(config.MsgFetchBody, config.LogKeySizeBytes, resp.ContentLength)

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	return &cappedBody{ReadCloser: resp.Body, remaining: limit}, nil
}

func newImportRequest(ctx context.Context, targetURL, user, pass string) (*http.Request, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHTTPRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}
	return req, nil
}

// checkResponse rejects error statuses and bodies that are clearly not
// vCards, such as the HTML login page of a captive portal. A missing
// Content-Type is left to the decoder.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	ct := resp.Header.Get(config.HeaderContentType)
	if ct == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !vcardTypes[mediaType] {
		return fmt.Errorf("%w (%s: %s)", ErrNotVCard, config.ErrContentType, ct)
	}
	return nil
}

// redactURL drops credentials, query and fragment, which may carry tokens.
func redactURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// cappedBody closes the response body and fails once more than remaining
// bytes are available.
type cappedBody struct {
	io.ReadCloser
	remaining int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if int64(len(p)) > b.remaining+1 {
		p = p[:b.remaining+1]
	}
	n, err := b.ReadCloser.Read(p)
	if int64(n) > b.remaining {
		n = int(b.remaining)
		b.remaining = 0
		return n, ErrBodyTooLarge
	}
	b.remaining -= int64(n)
	return n, err
}
