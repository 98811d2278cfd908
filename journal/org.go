package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatRunOrg renders a run as an Org-mode heading with its facts in a
// PROPERTIES drawer.
func FormatRunOrg(r Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Run: %s (%s)\n", r.Dataset, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":DATASET: %s\n", r.Dataset)
	fmt.Fprintf(&b, ":POLICY: %s\n", r.Policy)
	fmt.Fprintf(&b, ":GRANULARITY: %s\n", r.Granularity)
	fmt.Fprintf(&b, ":BUCKET_TIMESTAMP: %s\n", r.BucketTimestamp)
	fmt.Fprintf(&b, ":SERIES: %d\n", r.Series)
	fmt.Fprintf(&b, ":POINTS: %d\n", r.Points)
	fmt.Fprintf(&b, ":BUILT: %s\n", r.Built.UTC().Format(time.RFC3339))
	b.WriteString(":END:\n")
	return b.String()
}

// FormatRunsOrg renders runs separated by blank lines.
func FormatRunsOrg(runs []Run) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRunOrg(r))
	}
	return b.String()
}

// FormatPointsOrg renders points as an Org table.
func FormatPointsOrg(points []PointRecord) string {
	var b strings.Builder
	b.WriteString("| series | time | value |\n")
	b.WriteString("|--------+------+-------|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			p.Series,
			p.Time.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(p.Value, 'g', -1, 64))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
