// Command matchday-load drives a running matchday server with generated
// rosters and verifies every plan it gets back.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/okian/matchday/internal/loadtest"
	"github.com/okian/matchday/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := loadtest.DefaultConfig()
	fs := pflag.NewFlagSet("matchday-load", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	runTimeout := fs.Duration("run-timeout", defaultRunTimeout, "upper bound for the whole run")
	logFormat := fs.String("log-format", logger.FormatText, "log output format (text or json)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: matchday-load [flags]\n\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if cfg.Verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(ctx, *runTimeout)
	defer cancel()

	if _, err := loadtest.Run(ctx, cfg); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}
	return nil
}
