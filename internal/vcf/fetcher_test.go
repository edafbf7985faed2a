package vcf_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/vcf"
)

// serveBook answers every request with body and the given content type.
func serveBook(t *testing.T, contentType, body string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set(config.HeaderContentType, contentType)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestImport_OverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "credentials must be sent")
		assert.Equal(t, "alice", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.True(t, strings.HasPrefix(r.Header.Get(config.HeaderAccept), config.MimeVCard))

		w.Header().Set(config.HeaderContentType, "text/vcard; charset=utf-8")
		_, _ = w.Write([]byte(remoteCards))
	}))
	defer ts.Close()

	book, err := vcf.Import(context.Background(), vcf.NewHTTPFetcher(), ts.URL, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact name: Remote, phones: +380961234657, birthday: 24.12.1985"}, book.List())
}

func TestImport_Anonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok, "no Authorization header without credentials")
		w.Header().Set(config.HeaderContentType, config.MimeVCard)
		_, _ = w.Write([]byte(remoteCards))
	}))
	defer ts.Close()

	book, err := vcf.Import(context.Background(), vcf.NewHTTPFetcher(), ts.URL+"?token=secret", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, book.Len())
}

func TestImport_ContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"vCard", "text/vcard; charset=utf-8", false},
		{"Legacy vCard", "text/x-vcard", false},
		{"Directory", "text/directory", false},
		{"Static file", "text/plain; charset=utf-8", false},
		{"Binary download", "application/octet-stream", false},
		{"HTML", "text/html; charset=utf-8", true},
		{"JSON", "application/json", true},
		{"Malformed", "text/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serveBook(t, tt.contentType, remoteCards)

			book, err := vcf.Import(context.Background(), vcf.NewHTTPFetcher(), url, "", "")
			if tt.wantErr {
				assert.ErrorIs(t, err, vcf.ErrNotVCard)
				assert.ErrorContains(t, err, config.ErrContentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, book.Len())
		})
	}
}

func TestImport_LoginPage(t *testing.T) {
	// A misconfigured server labels its login page as plain text.
	url := serveBook(t, "text/plain", "<html><body>Login required</body></html>\n")

	book, err := vcf.Import(context.Background(), vcf.NewHTTPFetcher(), url, "", "")
	assert.ErrorIs(t, err, vcf.ErrNotVCard)
	assert.Nil(t, book)
}

func TestImport_Status(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		denied     bool
	}{
		{"Unauthorized", http.StatusUnauthorized, true},
		{"Forbidden", http.StatusForbidden, true},
		{"NotFound", http.StatusNotFound, false},
		{"ServerError", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			_, err := vcf.Import(context.Background(), vcf.NewHTTPFetcher(), ts.URL, "alice", "wrong")

			var statusErr *vcf.StatusError
			require.True(t, errors.As(err, &statusErr), "got %v", err)
			assert.Equal(t, tt.statusCode, statusErr.Code)
			assert.Equal(t, tt.denied, statusErr.Denied())
		})
	}
}

func TestImport_BodyTooLarge(t *testing.T) {
	url := serveBook(t, config.MimeVCard, remoteCards)
	fetcher := vcf.NewHTTPFetcher()
	fetcher.MaxBytes = int64(len(remoteCards) - 10)

	_, err := vcf.Import(context.Background(), fetcher, url, "", "")
	assert.ErrorIs(t, err, vcf.ErrBodyTooLarge, "a cut body must not import a partial card")

	fetcher.MaxBytes = int64(len(remoteCards))
	book, err := vcf.Import(context.Background(), fetcher, url, "", "")
	require.NoError(t, err, "a body of exactly the limit is accepted")
	assert.Equal(t, 1, book.Len())
}

func TestImport_Deadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := vcf.Import(ctx, vcf.NewHTTPFetcher(), ts.URL, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_RejectsURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/file.vcf", config.ErrProtocol},
		{"Local file", "file:///etc/passwd", config.ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := vcf.NewHTTPFetcher().Fetch(context.Background(), tt.url, "", "")
			assert.Nil(t, rc)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
