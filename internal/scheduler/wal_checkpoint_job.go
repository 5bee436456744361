package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// walTruncateThreshold is the WAL size in frames above which the job truncates instead of a passive checkpoint
const walTruncateThreshold = 1000

// WALCheckpointJob checkpoints the SQLite catalogue database so its WAL file does not grow unbounded
type WALCheckpointJob struct {
	JobBase
	db   *sqlx.DB
	name string
}

// NewWALCheckpointJob creates a new WALCheckpointJob for one SQLite database
func NewWALCheckpointJob(db *sqlx.DB, name string) *WALCheckpointJob {
	return &WALCheckpointJob{
		JobBase: newJobBase(),
		db:      db,
		name:    name,
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run executes a passive checkpoint and escalates to TRUNCATE when the WAL is large
func (j *WALCheckpointJob) Run() error {
	if j.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	busy, frames, checkpointed, err := j.checkpoint(ctx, "PASSIVE")
	if err != nil {
		return err
	}

	if frames > walTruncateThreshold {
		j.log.Warn().
			Str("database", j.name).
			Int("wal_frames", frames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, truncating")

		busy, frames, checkpointed, err = j.checkpoint(ctx, "TRUNCATE")
		if err != nil {
			return err
		}
	}

	j.log.Debug().
		Str("database", j.name).
		Int("busy", busy).
		Int("wal_frames", frames).
		Int("checkpointed", checkpointed).
		Msg("WAL checkpoint completed")

	return nil
}

func (j *WALCheckpointJob) checkpoint(ctx context.Context, mode string) (busy, frames, checkpointed int, err error) {
	err = j.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint("+mode+")").Scan(&busy, &frames, &checkpointed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to checkpoint %s (%s): %w", j.name, mode, err)
	}
	return busy, frames, checkpointed, nil
}
