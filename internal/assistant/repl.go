package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Run reads commands from in and writes replies to out until the user quits,
// in is exhausted or ctx is cancelled.
//
// Reading happens on a separate goroutine. On cancellation Run closes in when
// it is an io.Closer so that goroutine returns. Other readers keep it blocked
// until their next Read returns.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, config.ChannelBufferSize)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		_, _ = fmt.Fprint(out, config.Prompt)

		select {
		case <-ctx.Done():
			if c, ok := in.(io.Closer); ok {
				_ = c.Close() // Unblocks the pending Read
			}
			_, _ = fmt.Fprintln(out)
			return nil

		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(out)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("%s: %w", config.ErrReadInput, err)
					}
				default:
				}
				return nil
			}

			reply, quit := s.Execute(ctx, line)
			if reply != "" {
				_, _ = fmt.Fprintln(out, reply)
			}
			if quit {
				return nil
			}
		}
	}
}

// RefreshWorker regenerates the feed now and then every interval, so the
// upcoming window follows the calendar day. It returns when ctx is cancelled.
func (s *Session) RefreshWorker(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	if interval <= 0 {
		interval = time.Duration(config.DefaultRefreshMin) * time.Minute
	}

	s.Refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}
