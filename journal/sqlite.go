package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/collate/dataset"
)

type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens or creates the journal database at path.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// DB exposes the handle, e.g. to re-collate a recorded run through
// feed.NewSQL.
func (j *SQLiteJournal) DB() *sql.DB { return j.db }

// RecordDataset stores the run and all of its points in one transaction.
func (j *SQLiteJournal) RecordDataset(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r := runOf(ds)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, dataset, policy, granularity, bucket_timestamp, series, points, built)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Dataset, r.Policy, r.Granularity, r.BucketTimestamp,
		r.Series, r.Points, r.Built,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (run_id, series, seq, time, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range ds.Series {
		for i, p := range s.Points() {
			if _, err := stmt.ExecContext(ctx, r.RunID, s.Name, i, p.Time.UTC(), p.Value); err != nil {
				return fmt.Errorf("record run %s series %s: %w", r.RunID, s.Name, err)
			}
		}
	}

	return tx.Commit()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
