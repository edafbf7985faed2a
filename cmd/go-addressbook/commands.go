package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-addressbook/internal/assistant"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/server"
	"github.com/tartampluch/go-addressbook/internal/vcf"
)

// cliApp carries the state shared by every command.
type cliApp struct {
	in  io.Reader
	out io.Writer

	settings  *config.Settings
	logCloser io.Closer

	// Flag values. Empty strings keep the environment settings.
	showVersion bool
	debug       bool
	bookFile    string
	feedPort    string
	date        string
}

func (a *cliApp) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close() // Best effort close
	}
}

// fixedClock pins "now" for the birthdays command.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newRootCmd(app *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdRootUse,
		Short:         config.CmdRootShort,
		Long:          config.CmdRootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if app.showVersion {
				return nil
			}
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.showVersion {
				printVersion(app.out)
				return nil
			}
			return app.runAssistant(cmd.Context())
		},
	}
	root.SetIn(app.in)
	root.SetOut(app.out)

	flags := root.PersistentFlags()
	flags.BoolVar(&app.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.StringVar(&app.bookFile, config.FlagFile, "", config.FlagDescFile)
	flags.StringVar(&app.feedPort, config.FlagFeedPort, "", config.FlagDescPort)
	root.Flags().BoolVar(&app.showVersion, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(newBirthdaysCmd(app), newServeCmd(app), newCredentialsCmd())
	return root
}

// setup loads the settings, applies flag overrides and starts logging.
func (a *cliApp) setup(cmd *cobra.Command) error {
	s, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed(config.FlagFile) {
		s.BookFile = a.bookFile
	}
	if flags.Changed(config.FlagFeedPort) {
		s.FeedPort = a.feedPort
	}
	if flags.Changed(config.FlagDebug) {
		s.Debug = a.debug
	}

	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	a.logCloser = setupLogging(s.Debug)
	logStartupInfo()
	return nil
}

// newSession loads the book and wires the session collaborators.
func (a *cliApp) newSession() (*assistant.Session, error) {
	book, err := vcf.Load(a.settings.BookFile)
	if err != nil {
		return nil, err
	}

	s := assistant.NewSession(book, assistant.NewCatalog(a.settings.Language))
	s.Fetcher = vcf.NewHTTPFetcher()
	s.ReminderTrigger = a.settings.ReminderTrigger()
	return s, nil
}

func (a *cliApp) refreshInterval() time.Duration {
	return time.Duration(a.settings.RefreshMin) * time.Minute
}

// runAssistant runs the interactive session and saves the book on exit.
func (a *cliApp) runAssistant(ctx context.Context) error {
	session, err := a.newSession()
	if err != nil {
		return err
	}

	bgCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})

	if a.settings.FeedPort != config.DisabledPort {
		srv := server.NewFeedServer(a.settings.FeedPort)
		session.Publisher = srv

		go func() {
			if err := srv.Start(bgCtx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err)
			}
		}()
		go func() {
			defer close(done)
			session.RefreshWorker(bgCtx, a.refreshInterval())
		}()
	} else {
		close(done)
	}

	runErr := session.Run(ctx, a.in, a.out)

	stop()
	<-done

	return errors.Join(runErr, session.Save(a.settings.BookFile))
}

func newBirthdaysCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdBirthdaysUse,
		Short: config.CmdBirthdaysShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.newSession()
			if err != nil {
				return err
			}

			if app.date != "" {
				day, err := time.ParseInLocation(engine.DateLayout, app.date, time.Local)
				if err != nil {
					return engine.Errorf(engine.EINVALID, engine.MsgInvalidDate)
				}
				session.Clock = fixedClock{t: day}
			}

			reply, _ := session.Execute(cmd.Context(), config.CommandBirthdays)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
	cmd.Flags().StringVar(&app.date, config.FlagDate, "", config.FlagDescDate)
	return cmd
}

func newServeCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdServeUse,
		Short: config.CmdServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ValidatePort(app.settings.FeedPort); err != nil {
				return err
			}

			session, err := app.newSession()
			if err != nil {
				return err
			}

			srv := server.NewFeedServer(app.settings.FeedPort)
			session.Publisher = srv

			ctx := cmd.Context()
			go session.RefreshWorker(ctx, app.refreshInterval())
			return srv.Start(ctx)
		},
	}
}

func newCredentialsCmd() *cobra.Command {
	creds := &cobra.Command{
		Use:   config.CmdCredsUse,
		Short: config.CmdCredsShort,
	}

	creds.AddCommand(&cobra.Command{
		Use:   config.CmdCredsSetUse,
		Short: config.CmdCredsSetShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := args[0]

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%s: %w", config.ErrReadInput, err)
			}

			if err := assistant.StorePassword(user, strings.TrimRight(line, "\r\n")); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgPasswordStore, user)
			return err
		},
	})
	return creds
}
