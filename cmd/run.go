package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/app"
	"github.com/abhisek/docdrill/internal/journal"
	"github.com/abhisek/docdrill/internal/logging"
	"github.com/abhisek/docdrill/internal/notesync"
	exercisescreen "github.com/abhisek/docdrill/internal/screens/exercise"
	"github.com/abhisek/docdrill/internal/screens/home"
)

// runApp loads config, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, entry app.Entry, quickMode string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	jr, err := journal.OpenPath(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jr.Close()

	retry := notesync.DefaultRetryConfig()
	retry.MaxAttempts = cfg.SaveAttempts
	syncer := notesync.New(client, logger.Named("notesync"),
		notesync.WithTimeout(cfg.SaveTimeout),
		notesync.WithRetry(retry),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := syncer.Listen(ctx, journalOutcome(jr, logger)); err != nil {
		return fmt.Errorf("listen for note saves: %w", err)
	}

	opts := app.Options{
		Home: home.Deps{
			Exercise: exercisescreen.Deps{
				Service:  client,
				Saver:    syncer,
				Recorder: jr,
				Logger:   logger,
			},
			Quick:   client,
			Device:  cfg.Device,
			History: client,
			Journal: jr,
		},
		Entry:     entry,
		QuickMode: quickMode,
		Logger:    logger.Named("app"),
	}

	logger.Info("starting", zap.String("server", client.BaseURL()), zap.String("version", version))
	runErr := app.Run(opts)

	// Let pending note saves finish so their outcomes reach the journal.
	if err := syncer.Close(); err != nil {
		logger.Warn("close note syncer", zap.Error(err))
	}
	return runErr
}

// journalOutcome records each detached save outcome in the journal.
func journalOutcome(jr *journal.Journal, logger *zap.Logger) func(notesync.Outcome) {
	return func(out notesync.Outcome) {
		e := journal.Entry{
			Kind:      journal.KindNoteSaved,
			SessionID: out.SessionID,
			Step:      out.Field,
			Detail:    fmt.Sprintf("%d bytes after %d attempt(s)", out.Bytes, out.Attempts),
		}
		if out.Failed() {
			e.Kind = journal.KindNoteSaveFailed
			e.Detail = out.Error
		}
		if _, err := jr.Append(context.Background(), e); err != nil {
			logger.Warn("journal save outcome", zap.String("field", out.Field), zap.Error(err))
		}
	}
}
