package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `run_id, dataset, policy, granularity, bucket_timestamp, series, points, built`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.RunID,
		&r.Dataset,
		&r.Policy,
		&r.Granularity,
		&r.BucketTimestamp,
		&r.Series,
		&r.Points,
		&r.Built,
	)
	return r, err
}

// GetRun returns the summary of one run.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns every run, newest first.
func (j *SQLiteJournal) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPoints returns the points of a run in output order. An empty
// series name returns every series, grouped by name.
func (j *SQLiteJournal) ListPoints(ctx context.Context, runID, series string) ([]PointRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, series, time, value
		FROM points
		WHERE run_id = ? AND (? = '' OR series = ?)
		ORDER BY series ASC, seq ASC`, runID, series, series)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PointRecord
	for rows.Next() {
		var p PointRecord
		if err := rows.Scan(&p.RunID, &p.Series, &p.Time, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
