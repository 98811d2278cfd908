package collate

import (
	"fmt"
	"strings"
)

// Policy decides which points a bucket contributes to the output series.
type Policy int8

const (
	// PolicyNone passes every sample through without bucketing.
	PolicyNone Policy = iota
	// PolicyStart keeps the first sample of each bucket.
	PolicyStart
	// PolicyEnd keeps the last sample of each bucket.
	PolicyEnd
	// PolicyAll keeps every sample, spread evenly across its bucket.
	PolicyAll
	// PolicySum emits the sum of each bucket.
	PolicySum
	// PolicyAverage emits the mean of each bucket.
	PolicyAverage
	// PolicyOHLC emits the open/high/low/close path of each bucket.
	PolicyOHLC
)

var policyNames = [...]string{
	PolicyNone:    "none",
	PolicyStart:   "start",
	PolicyEnd:     "end",
	PolicyAll:     "all",
	PolicySum:     "sum",
	PolicyAverage: "average",
	PolicyOHLC:    "ohlc",
}

func (p Policy) valid() bool {
	return p >= PolicyNone && p <= PolicyOHLC
}

func (p Policy) String() string {
	if !p.valid() {
		return fmt.Sprintf("policy(%d)", int8(p))
	}
	return policyNames[p]
}

// ParsePolicy accepts the policy names, case-insensitively, plus "avg"
// and "first"/"last" as aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PolicyNone, nil
	case "start", "first":
		return PolicyStart, nil
	case "end", "last":
		return PolicyEnd, nil
	case "all":
		return PolicyAll, nil
	case "sum":
		return PolicySum, nil
	case "average", "avg":
		return PolicyAverage, nil
	case "ohlc":
		return PolicyOHLC, nil
	}
	return PolicyNone, &ConfigError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", s)}
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("unknown policy %d", int8(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// BucketTimestamp selects where a bucket's point is placed in time.
type BucketTimestamp int8

const (
	StampStart BucketTimestamp = iota
	StampEnd
)

func (b BucketTimestamp) String() string {
	switch b {
	case StampStart:
		return "start"
	case StampEnd:
		return "end"
	}
	return fmt.Sprintf("stamp(%d)", int8(b))
}

func ParseBucketTimestamp(s string) (BucketTimestamp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start":
		return StampStart, nil
	case "end":
		return StampEnd, nil
	}
	return StampStart, &ConfigError{Field: "bucket_timestamp", Reason: fmt.Sprintf("want start or end, got %q", s)}
}

func (b BucketTimestamp) MarshalText() ([]byte, error) {
	if b != StampStart && b != StampEnd {
		return nil, fmt.Errorf("unknown bucket timestamp %d", int8(b))
	}
	return []byte(b.String()), nil
}

func (b *BucketTimestamp) UnmarshalText(t []byte) error {
	v, err := ParseBucketTimestamp(string(t))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
