package vcf_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/vcf"
)

// MockFetcher is a testify mock of vcf.Fetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

const remoteCards = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Remote\r\nTEL:096-123-46-57\r\nBDAY:1985-12-24\r\nEND:VCARD\r\n"

func TestLoad_MissingFile(t *testing.T) {
	book, err := vcf.Load(filepath.Join(t.TempDir(), "absent.vcf"))
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())
}

func TestLoad_Directory(t *testing.T) {
	_, err := vcf.Load(t.TempDir())
	assert.Error(t, err, "a directory is not an address book")
}

func TestLoad_BlankFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	book, err := vcf.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())
}

// A book file that does not decode cleanly must survive a load/save cycle
// untouched: the caller cannot get a book to save over it.
func TestLoad_RefusesUnreadableBook(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "Truncated card",
			content: "BEGIN:VCARD\nVERSION:4.0\nFN John\nTEL:0681234567\n",
			wantErr: vcf.ErrNotVCard,
		},
		{
			name:    "Not a vCard",
			content: "name,phone\nJohn,0681234567\n",
			wantErr: vcf.ErrNotVCard,
		},
		{
			name: "One bad card among good ones",
			content: "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Good\r\nEND:VCARD\r\n" +
				"BEGIN:VCARD\r\nVERSION:4.0\r\nTEL:0681234567\r\nEND:VCARD\r\n",
			wantErr: vcf.ErrLossyBook,
		},
		{
			name:    "Hand-edited phone",
			content: "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:John\r\nTEL:12\r\nEND:VCARD\r\n",
			wantErr: vcf.ErrLossyBook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contacts.vcf")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			book, err := vcf.Load(path)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, path)
			assert.Nil(t, book)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestLossyError(t *testing.T) {
	err := &vcf.LossyError{Path: "/tmp/book.vcf", Report: vcf.Report{SkippedCards: 2, SkippedFields: 1}}

	assert.ErrorIs(t, err, vcf.ErrLossyBook)
	assert.NotErrorIs(t, err, vcf.ErrNotVCard)
	assert.Contains(t, err.Error(), "/tmp/book.vcf")
	assert.Contains(t, err.Error(), "2 cards, 1 fields")

	var lossy *vcf.LossyError
	require.True(t, errors.As(err, &lossy))
	assert.Equal(t, 2, lossy.Report.SkippedCards)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "contacts.vcf")
	book := sampleBook(t)

	require.NoError(t, vcf.Save(path, book))

	loaded, err := vcf.Load(path)
	require.NoError(t, err)
	assert.Equal(t, book.List(), loaded.List())

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, vcf.Save(path, sampleBook(t)))
	require.NoError(t, vcf.Save(path, engine.NewAddressBook()))

	loaded, err := vcf.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	url := "https://dav.example.com/contacts.vcf"

	t.Run("Success", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", ctx, url, "user", "pass").
			Return(io.NopCloser(strings.NewReader(remoteCards)), nil)

		book, err := vcf.Import(ctx, f, url, "user", "pass")
		require.NoError(t, err)
		assert.Equal(t, []string{"Contact name: Remote, phones: +380961234657, birthday: 24.12.1985"}, book.List())
		f.AssertExpectations(t)
	})

	t.Run("Fetch error", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", ctx, url, "", "").Return(nil, errors.New("status 401"))

		_, err := vcf.Import(ctx, f, url, "", "")
		assert.ErrorContains(t, err, "status 401")
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		f := new(MockFetcher)
		f.On("Fetch", cctx, url, "", "").Return(nil, errors.New("request aborted"))

		_, err := vcf.Import(cctx, f, url, "", "")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Not a vCard", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", ctx, url, "", "").
			Return(io.NopCloser(strings.NewReader("<html><body>Login required</body></html>\n")), nil)

		book, err := vcf.Import(ctx, f, url, "", "")
		assert.ErrorIs(t, err, vcf.ErrNotVCard)
		assert.Nil(t, book)
	})

	t.Run("Skips bad cards", func(t *testing.T) {
		f := new(MockFetcher)
		f.On("Fetch", ctx, url, "", "").
			Return(io.NopCloser(strings.NewReader(remoteCards+"BEGIN:VCARD\r\nTEL:1\r\nEND:VCARD\r\n")), nil)

		book, err := vcf.Import(ctx, f, url, "", "")
		require.NoError(t, err, "remote books are imported leniently")
		assert.Equal(t, 1, book.Len())
	})

	t.Run("Missing fetcher", func(t *testing.T) {
		_, err := vcf.Import(ctx, nil, url, "", "")
		assert.Error(t, err)
	})
}

func TestMerge(t *testing.T) {
	dst := engine.NewAddressBook()
	known, err := engine.NewRecord("Known")
	require.NoError(t, err)
	require.NoError(t, known.AddPhone("068-123-45-67"))
	require.NoError(t, dst.Add(known))

	dated, err := engine.NewRecord("Dated")
	require.NoError(t, err)
	require.NoError(t, dated.AddBirthday("01.01.1970"))
	require.NoError(t, dst.Add(dated))

	src, _, err := vcf.Decode(strings.NewReader(strings.Join([]string{
		"BEGIN:VCARD", "VERSION:4.0", "FN:Known", "TEL:+380681234567", "TEL:050-000-00-00", "BDAY:1990-04-01", "END:VCARD",
		"BEGIN:VCARD", "VERSION:4.0", "FN:Dated", "BDAY:1999-09-09", "END:VCARD",
		"BEGIN:VCARD", "VERSION:4.0", "FN:New", "END:VCARD",
		"",
	}, "\r\n")))
	require.NoError(t, err)

	assert.Equal(t, 3, vcf.Merge(dst, src))
	assert.Equal(t, []string{
		"Contact name: Known, phones: +380681234567; +380500000000, birthday: 01.04.1990",
		"Contact name: Dated, phones: , birthday: 01.01.1970",
		"Contact name: New, phones: ",
	}, dst.List(), "existing birthdays are kept, phones are merged without duplicates")
}
