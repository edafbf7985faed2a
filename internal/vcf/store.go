package vcf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

// Load reads the address book at path. A missing or blank file yields an
// empty book.
//
// The book is written back on exit, so a file that does not decode cleanly
// fails instead of loading partially: ErrNotVCard when no record could be
// read, a *LossyError when some cards or fields were dropped.
func Load(path string) (*engine.AddressBook, error) {
	log := slog.With(config.LogKeyComponent, config.CompStore, config.LogKeyFile, path)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(config.MsgBookMissing)
		return engine.NewAddressBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrBookLoad, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = f.Close() }()

	book, report, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", config.ErrBookLoad, path, err)
	}
	if !report.Lossless() {
		log.Error(config.MsgBookLossy,
			config.LogKeySkipCards, report.SkippedCards,
			config.LogKeySkipField, report.SkippedFields)
		return nil, &LossyError{Path: path, Report: report}
	}

	log.Info(config.MsgBookLoaded, config.LogKeyCount, book.Len())
	return book, nil
}

// ErrLossyBook matches every *LossyError.
var ErrLossyBook = errors.New(config.ErrBookLossy)

// LossyError reports a book file holding entries Decode had to drop.
type LossyError struct {
	Path   string
	Report Report
}

func (e *LossyError) Error() string {
	return fmt.Sprintf("%s: %s: %s (%d cards, %d fields)", config.ErrBookLoad, e.Path,
		config.ErrBookLossy, e.Report.SkippedCards, e.Report.SkippedFields)
}

func (e *LossyError) Is(target error) bool { return target == ErrLossyBook }

// Save writes book to path atomically: the cards go to a temporary file in
// the same directory which then replaces path.
func Save(path string, book *engine.AddressBook) (err error) {
	start := time.Now()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookSave, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookSave, err)
	}
	if err := Encode(tmp, book); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookSave, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBookSave, err)
	}

	slog.Info(config.MsgBookSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyFile, path,
		config.LogKeyCount, book.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return nil
}

// Import downloads and decodes a remote address book. Cards that cannot be
// read are dropped, but a body without any card fails with ErrNotVCard.
func Import(ctx context.Context, f Fetcher, url, user, pass string) (*engine.AddressBook, error) {
	if f == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}

	rc, err := f.Fetch(ctx, url, user, pass)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	book, report, err := Decode(rc)
	if err != nil {
		return nil, err
	}
	if !report.Lossless() {
		slog.Warn(config.MsgSkippedCard,
			config.LogKeyComponent, config.CompFetcher,
			config.LogKeySkipCards, report.SkippedCards,
			config.LogKeySkipField, report.SkippedFields)
	}
	return book, nil
}

// Merge copies src into dst. Unknown contacts are added, phones of known
// contacts are merged and a missing birthday is filled in. It returns the
// number of contacts of src that were applied.
func Merge(dst, src *engine.AddressBook) int {
	merged := 0
	for _, in := range src.Records() {
		name := in.Name().String()

		cur, err := dst.Find(name, false)
		if err != nil {
			continue
		}
		if cur == nil {
			if err := dst.Add(in); err == nil {
				merged++
			}
			continue
		}

		for _, p := range in.Phones() {
			// Conflicts are the phones both books already share.
			_ = cur.AddPhone(p.String())
		}
		if b, ok := in.Birthday(); ok {
			if _, has := cur.Birthday(); !has {
				_ = cur.AddBirthday(b.String())
			}
		}
		merged++
	}
	return merged
}
