// Command teams plans a roster file offline and prints the groups and
// matchups.
//
// The roster is YAML or JSON, either a list of participants or a document
// with group_size, seed and participants keys. Weights and optimizer
// settings come from the same MATCHDAY_* configuration as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/okian/matchday/internal/config"
	"github.com/okian/matchday/internal/domain/planner"
	"github.com/okian/matchday/pkg/logger"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var errUnknownOutput = errors.New("unknown output format")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("teams", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.StringP("file", "f", "-", "roster file, - for stdin")
	groupSize := fs.IntP("group-size", "g", 0, "starters per group (overrides the roster and config)")
	seed := fs.Int64("seed", 0, "draft seed (overrides the roster)")
	output := fs.StringP("output", "o", outputText, "output format: text or json")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: teams [flags]\n\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *output != outputText && *output != outputJSON {
		return fmt.Errorf("%w: %q", errUnknownOutput, *output)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("teams")

	in := stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open roster: %w", err)
		}
		defer f.Close()
		in = f
	}
	rf, err := readRoster(in)
	if err != nil {
		return err
	}

	gs := cfg.GroupSize
	if rf.GroupSize > 0 {
		gs = rf.GroupSize
	}
	if fs.Changed("group-size") {
		gs = *groupSize
	}
	runSeed := rf.Seed
	if fs.Changed("seed") {
		runSeed = *seed
	}

	opts, err := cfg.PlannerOptions()
	if err != nil {
		return err
	}
	ps := rf.participants()
	plan, err := planner.New(opts...).PlanSeeded(ctx, ps, gs, runSeed)
	if err != nil {
		return fmt.Errorf("plan roster: %w", err)
	}
	log.Debug(ctx, "roster planned",
		logger.Int("participants", len(ps)),
		logger.Int("group_size", gs),
		logger.Int("groups", len(plan.Groups)),
		logger.Float64("std_dev", plan.Stats.FinalStdDev),
	)

	if *output == outputJSON {
		return writeJSON(stdout, plan)
	}
	return writeText(stdout, plan)
}
