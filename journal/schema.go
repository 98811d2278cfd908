package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	policy TEXT NOT NULL,
	granularity TEXT NOT NULL,
	bucket_timestamp TEXT NOT NULL,
	series INTEGER NOT NULL,
	points INTEGER NOT NULL,
	built DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	series TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time DATETIME NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (run_id, series, seq)
);

CREATE INDEX IF NOT EXISTS idx_points_series_time ON points(series, time);
`
