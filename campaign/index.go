package campaign

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// IndexFileName is the sqlite results index created under the campaign
// output root.
const IndexFileName = "campaign.db"

const indexSchema = `
CREATE TABLE IF NOT EXISTS trials (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    seed                INTEGER NOT NULL,
    run                 INTEGER NOT NULL,
    channel_model       TEXT    NOT NULL,
    channel_condition   TEXT    NOT NULL,
    ue_count            INTEGER NOT NULL,
    gnb_count           INTEGER NOT NULL,
    center_frequency_hz REAL    NOT NULL,
    status              TEXT    NOT NULL,
    error               TEXT,
    started_at          TEXT    NOT NULL,
    duration_ms         INTEGER NOT NULL,
    UNIQUE (seed, run, channel_model, channel_condition)
);

CREATE TABLE IF NOT EXISTS trace_files (
    trial_id  INTEGER NOT NULL REFERENCES trials (id),
    name      TEXT    NOT NULL,
    collected INTEGER NOT NULL
);
`

// Index persists campaign results into a sqlite database the analysis
// pipeline queries when assembling the training corpus.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (or creates) the results index at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results index %s: %w", path, err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise results index: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (ix *Index) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// RecordTrial inserts one trial and its per-file collection states in a
// single transaction.
func (ix *Index) RecordTrial(ctx context.Context, res TrialResult) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index trial %s: %w", res.Spec.DirName(), err)
	}

	var errText sql.NullString
	if res.Err != nil {
		errText = sql.NullString{String: res.Err.Error(), Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
        INSERT INTO trials (seed, run, channel_model, channel_condition,
                            ue_count, gnb_count, center_frequency_hz,
                            status, error, started_at, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Spec.Seed, res.Spec.Run,
		res.Spec.ChannelModel.String(), res.Spec.ChannelCondition.String(),
		res.Spec.UeCount, res.Spec.GnbCount, res.Spec.CenterFrequencyHz,
		res.Status().String(), errText,
		res.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		res.Duration.Milliseconds(),
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("index trial %s: %w", res.Spec.DirName(), err)
	}

	trialID, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("index trial %s: %w", res.Spec.DirName(), err)
	}

	for _, name := range res.Collected {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trace_files (trial_id, name, collected) VALUES (?, ?, 1)`,
			trialID, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("index trial %s file %s: %w", res.Spec.DirName(), name, err)
		}
	}
	for _, name := range res.Missing {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trace_files (trial_id, name, collected) VALUES (?, ?, 0)`,
			trialID, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("index trial %s file %s: %w", res.Spec.DirName(), name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index trial %s: %w", res.Spec.DirName(), err)
	}
	return nil
}

// TrialCount returns the number of indexed trials.
func (ix *Index) TrialCount(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count indexed trials: %w", err)
	}
	return n, nil
}

// TrialStatus returns the recorded status for one (seed, run) pair of
// the campaign's model/condition combination.
func (ix *Index) TrialStatus(ctx context.Context, seed, run uint32) (string, error) {
	var status string
	err := ix.db.QueryRowContext(ctx,
		`SELECT status FROM trials WHERE seed = ? AND run = ?`, seed, run).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("lookup trial seed%d_run%d: %w", seed, run, err)
	}
	return status, nil
}
