package bucket

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is the calendar unit a bucket is measured in.
type Field int8

const (
	Millisecond Field = iota
	Second
	Minute
	Hour
	Day
	Month
	Year
)

var fieldNames = [...]string{
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Month:       "month",
	Year:        "year",
}

// short suffixes used by ParseGranularity and Granularity.String
var fieldSuffix = [...]string{
	Millisecond: "ms",
	Second:      "s",
	Minute:      "m",
	Hour:        "h",
	Day:         "d",
	Month:       "M",
	Year:        "y",
}

// maxMultiplier is the number of units in the parent unit. A multiplier
// above it would fold every timestamp into the parent's first bucket.
// Year has no parent.
var maxMultiplier = [...]int{
	Millisecond: 1000,
	Second:      60,
	Minute:      60,
	Hour:        24,
	Day:         31,
	Month:       12,
	Year:        0,
}

func (f Field) valid() bool {
	return f >= Millisecond && f <= Year
}

func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("field(%d)", int8(f))
	}
	return fieldNames[f]
}

// Granularity is a bucket width: Multiplier units of Field.
type Granularity struct {
	Field      Field
	Multiplier int
}

// Common granularities.
var (
	OneSecond = Granularity{Field: Second, Multiplier: 1}
	OneMinute = Granularity{Field: Minute, Multiplier: 1}
	OneHour   = Granularity{Field: Hour, Multiplier: 1}
	OneDay    = Granularity{Field: Day, Multiplier: 1}
)

// Validate checks the field is known and the multiplier fits inside the
// parent unit.
func (g Granularity) Validate() error {
	if !g.Field.valid() {
		return fmt.Errorf("unknown granularity field %d", int8(g.Field))
	}
	if g.Multiplier < 1 {
		return fmt.Errorf("granularity multiplier must be positive, got %d", g.Multiplier)
	}
	if max := maxMultiplier[g.Field]; max > 0 && g.Multiplier > max {
		return fmt.Errorf("granularity multiplier %d exceeds %d %ss", g.Multiplier, max, g.Field)
	}
	return nil
}

// IsZero reports whether g was never set.
func (g Granularity) IsZero() bool {
	return g == Granularity{}
}

func (g Granularity) String() string {
	if !g.Field.valid() {
		return fmt.Sprintf("%d%s", g.Multiplier, g.Field)
	}
	return strconv.Itoa(g.Multiplier) + fieldSuffix[g.Field]
}

// ParseGranularity parses strings such as "500ms", "30s", "5m", "1h",
// "1d", "3M" and "1y". A bare unit ("m", "h") means a multiplier of one.
// Month is the only case-sensitive suffix.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Granularity{}, fmt.Errorf("empty granularity")
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	num, unit := s[:i], s[i:]

	mult := 1
	if num != "" {
		n, err := strconv.Atoi(num)
		if err != nil {
			return Granularity{}, fmt.Errorf("bad granularity %q: %w", s, err)
		}
		mult = n
	}

	var f Field
	switch unit {
	case "ms":
		f = Millisecond
	case "s", "S", "sec":
		f = Second
	case "m", "min":
		f = Minute
	case "h", "H":
		f = Hour
	case "d", "D":
		f = Day
	case "M", "mo":
		f = Month
	case "y", "Y":
		f = Year
	default:
		return Granularity{}, fmt.Errorf("bad granularity %q: unknown unit %q", s, unit)
	}

	g := Granularity{Field: f, Multiplier: mult}
	if err := g.Validate(); err != nil {
		return Granularity{}, fmt.Errorf("bad granularity %q: %w", s, err)
	}
	return g, nil
}

func (g Granularity) MarshalYAML() (interface{}, error) {
	return g.String(), nil
}

func (g *Granularity) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseGranularity(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Granularity) UnmarshalText(b []byte) error {
	parsed, err := ParseGranularity(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
