package collate

import (
	"fmt"

	"github.com/rustyeddy/collate/feed"
)

// ErrMissingTimestamp aborts a build when a row has no usable time.
var ErrMissingTimestamp = feed.ErrMissingTimestamp

// ConfigError reports an invalid engine option. It is returned before
// any row is read.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CursorError wraps a read failure of the cursor feeding one series.
type CursorError struct {
	Dataset string
	Series  string
	Err     error
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("dataset %q series %q: cursor: %v", e.Dataset, e.Series, e.Err)
}

func (e *CursorError) Unwrap() error { return e.Err }
