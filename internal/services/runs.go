package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"github.com/anonto42/nano-midea/mailer/internal/repositories"
	"github.com/google/uuid"
)

// recordRun writes the run to the ledger. A failed write is logged and otherwise ignored.
func recordRun(ctx context.Context, runs repositories.RunRepository, logger *slog.Logger, run *models.FinderRun, runErr error) {
	run.ID = uuid.NewString()
	run.FinishedAt = time.Now().UTC()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record finder run",
			"kind", run.Kind,
			"frequency", run.Frequency,
			"error", err)
	}
}
