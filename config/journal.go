package config

import (
	"github.com/rustyeddy/collate/journal"
)

// Open returns the configured journal, or nil when journaling is off.
func (j JournalConfig) Open() (journal.Journal, error) {
	switch j.Type {
	case "sqlite":
		s, err := journal.NewSQLite(j.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "csv":
		c, err := journal.NewCSV(j.PointsFile)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, nil
}
