// Command msgcontent renders and validates chat message content.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dpotapov/go-msgcontent"
	"github.com/dpotapov/go-msgcontent/element"
	"github.com/dpotapov/go-msgcontent/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// reportedError is an error whose details were already written by the command.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "msgcontent",
		Short:         "Render and validate chat message content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadWith(a.v, configPath)
			if err != nil {
				return err
			}
			level, _ := cfg.Level()
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default ./msgcontent.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	_ = a.v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(a.renderCmd(), a.checkCmd(), a.serveCmd())
	return rootCmd
}

func (a *app) renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render one message content as text or HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			format, err := msgcontent.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}

			out, err := msgcontent.Render(content, format)
			if err != nil {
				a.logger.Debug("Render failed", "error", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				var pe *element.ParseError
				if errors.As(err, &pe) && pe.HTMLContext() != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "context:", pe.HTMLContext())
				}
				return &reportedError{err}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("format", "text", "output format: text or html")
	_ = a.v.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <corpus.json>",
		Short: "Validate every message of a corpus",
		Long: `Validate every message of a corpus.

The corpus is a JSON array of messages, a database dump with a message_table,
or the server's markdown_test_cases.json. Every message must parse, render as
text and render back to stable canonical markup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := msgcontent.LoadCorpusFile(args[0])
			if err != nil {
				return err
			}
			filter, err := msgcontent.NewFilter(a.cfg.Filter)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := msgcontent.Check(cmd.Context(), corpus, msgcontent.CheckOptions{
				Filter:   filter,
				FailFast: a.cfg.FailFast,
			})
			if err != nil {
				return err
			}
			a.logger.Info("Checked corpus", "label", res.Label, "checked", res.Checked, "duration", time.Since(start))

			for _, f := range res.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "---\nOUTER HTML:\n%q\n\nERROR:\n%v\n", f.Content, f.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			if err := res.Err(); err != nil {
				return &reportedError{err}
			}
			return nil
		},
	}
	cmd.Flags().String("filter", "", `expr filter over messages, e.g. 'sender_id == 7 && "starred" in flags'`)
	cmd.Flags().Bool("fail-fast", false, "stop at the first failing message")
	_ = a.v.BindPFlag("filter", cmd.Flags().Lookup("filter"))
	_ = a.v.BindPFlag("fail_fast", cmd.Flags().Lookup("fail-fast"))
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API and the live preview websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := &http.Server{
				Addr: a.cfg.Addr,
				Handler: &msgcontent.Handler{
					MaxBodyBytes: a.cfg.MaxBodyBytes,
					Logger:       a.logger,
				},
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.logger.Info("Starting HTTP server", "address", a.cfg.Addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			a.logger.Info("HTTP server stopped")
			return nil
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = a.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}
