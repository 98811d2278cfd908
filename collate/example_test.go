package collate_test

import (
	"fmt"
	"time"

	"github.com/rustyeddy/collate/bucket"
	"github.com/rustyeddy/collate/collate"
	"github.com/rustyeddy/collate/feed"
)

func ExampleEngine_Collate() {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cur := feed.NewSlice([]feed.Sample{
		{Time: t0.Add(5 * time.Second), Value: 5},
		{Time: t0.Add(10 * time.Second), Value: 8},
		{Time: t0.Add(20 * time.Second), Value: 3},
		{Time: t0.Add(30 * time.Second), Value: 6},
	})

	e, err := collate.New(collate.Options{
		Granularity: bucket.OneMinute,
		Policy:      collate.PolicyOHLC,
	}, nil)
	if err != nil {
		panic(err)
	}

	out, err := e.Collate("prices", "eurusd", cur)
	if err != nil {
		panic(err)
	}
	for _, p := range out.Points() {
		fmt.Println(p.Time.Format("15:04:05"), p.Value)
	}
	// Output:
	// 00:00:00 5
	// 00:00:15 8
	// 00:00:30 3
	// 00:00:45 6
}
