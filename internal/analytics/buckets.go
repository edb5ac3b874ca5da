package analytics

import (
	"sort"
	"time"

	"logdeck/internal/model"
)

const (
	DefaultWidth      = time.Minute
	DefaultMaxBuckets = 20
)

// Bucket is one fixed-width time window of severity counts. Debug
// folds into Info to match the three-series histogram.
type Bucket struct {
	Key   time.Time
	Error int
	Warn  int
	Info  int
}

func (b Bucket) Total() int { return b.Error + b.Warn + b.Info }

// Bucketize groups the filtered view into ascending, sparse buckets:
// only windows with at least one entry exist, and only the newest
// maxBuckets are kept. Consumers that need zero-filled windows for
// continuous charting backfill on their side.
func Bucketize(entries []model.LogEntry, width time.Duration, maxBuckets int) []Bucket {
	if width <= 0 {
		width = DefaultWidth
	}
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	byKey := make(map[time.Time]*Bucket)
	keys := make([]time.Time, 0, 16)
	for _, e := range entries {
		k := e.Timestamp.Truncate(width)
		b, ok := byKey[k]
		if !ok {
			b = &Bucket{Key: k}
			byKey[k] = b
			keys = append(keys, k)
		}
		switch e.Severity {
		case model.SeverityError:
			b.Error++
		case model.SeverityWarn:
			b.Warn++
		default:
			b.Info++
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	if len(keys) > maxBuckets {
		keys = keys[len(keys)-maxBuckets:]
	}
	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
