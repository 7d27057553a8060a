package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/payments-engine/internal/cli"
	"github.com/Veraticus/payments-engine/internal/common"
	"github.com/Veraticus/payments-engine/internal/config"
	"github.com/Veraticus/payments-engine/internal/engine"
	"github.com/Veraticus/payments-engine/internal/ingest"
	"github.com/Veraticus/payments-engine/internal/model"
	"github.com/Veraticus/payments-engine/internal/report"
	"github.com/Veraticus/payments-engine/internal/runner"
	"github.com/Veraticus/payments-engine/internal/storage"
)

func (a *app) runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadRunConfig(a.v)
	if err != nil {
		return err
	}

	path := config.ExpandPath(args[0])
	f, err := os.Open(path)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot open %s", path),
			fmt.Errorf("%w: %v", common.ErrUnreadableInput, err))
	}
	defer func() { _ = f.Close() }()

	var input io.Reader = f
	var progress *cli.ProgressReader
	if cfg.Progress {
		size := int64(-1)
		if info, statErr := f.Stat(); statErr == nil {
			size = info.Size()
		}
		progress = cli.NewProgressReader(f, size, a.stderr)
		input = progress
	}

	ctx, stop := cli.NewInterruptHandler(a.stderr).HandleInterrupts(cmd.Context())
	defer stop()

	e := engine.New()
	stats, err := process(ctx, input, e)
	if err != nil {
		// Whatever was applied before the failure is still reported.
		common.LogError(err, "Stopped reading input", common.Fields{"path": path})
	}

	if progress != nil {
		if err := progress.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	accounts := e.Accounts()
	if cfg.Sort {
		accounts = e.SortedAccounts()
	}

	if err := report.Write(a.stdout, accounts); err != nil {
		return err
	}

	if cfg.ExportDatabase != "" {
		if err := export(cmd.Context(), cfg.ExportDatabase, accounts); err != nil {
			return err
		}
	}

	if cfg.Summary {
		fmt.Fprintln(a.stderr, cli.RenderSummary(stats, len(accounts), e.OpenTransactions()))
	}

	common.LogInfo("Processing complete", common.Fields{
		"processed": stats.Processed,
		"applied":   stats.Applied,
		"rejected":  stats.RejectedTotal(),
		"malformed": stats.Malformed,
		"accounts":  len(accounts),
	})

	return nil
}

// process runs every record in input through e. Input without a usable header
// yields no records and an empty report.
func process(ctx context.Context, input io.Reader, e *engine.Engine) (runner.Stats, error) {
	reader, err := ingest.NewReader(input)
	switch {
	case errors.Is(err, ingest.ErrMissingHeader), errors.Is(err, ingest.ErrMissingColumn):
		slog.Warn("No transactions read", "error", err)
		return runner.Stats{Rejected: map[string]int{}}, nil
	case err != nil:
		return runner.Stats{Rejected: map[string]int{}}, err
	}

	stats, err := runner.Run(ctx, reader, e)
	if errors.Is(err, context.Canceled) {
		slog.Warn("Processing canceled", "processed", stats.Processed)
		return stats, nil
	}
	return stats, err
}

func export(ctx context.Context, path string, accounts []model.AccountSnapshot) error {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return fmt.Errorf("failed to open export database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return store.SaveAccounts(ctx, accounts)
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		return fmt.Errorf("failed to export accounts: %w", err)
	}

	slog.Info("Exported accounts", "path", path, "count", len(accounts))
	return nil
}
