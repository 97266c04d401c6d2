package interfaces

import (
	"context"

	"github.com/sheikh-saqib/transactions-engine/internal/models"
)

// SnapshotSink receives the final per-client rows at end of run.
type SnapshotSink interface {
	WriteSnapshot(ctx context.Context, rows []models.AccountSnapshot) error
}
