package analytics

import (
	"testing"
	"time"

	"logdeck/internal/model"
)

func entry(ts time.Time, sev model.Severity) model.LogEntry {
	return model.LogEntry{Source: "api", Timestamp: ts, Severity: sev, Message: "m"}
}

func TestBucketizeScenario(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.LogEntry{
		entry(ts, model.SeverityInfo),
		entry(ts.Add(time.Second), model.SeverityError),
	}
	buckets := Bucketize(entries, time.Minute, DefaultMaxBuckets)
	if len(buckets) != 1 {
		t.Fatalf("buckets: %d", len(buckets))
	}
	b := buckets[0]
	if b.Key.Format("15:04") != "10:00" || b.Error != 1 || b.Warn != 0 || b.Info != 1 {
		t.Fatalf("bucket: %+v", b)
	}
}

func TestBucketizeSparseAscending(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	entries := []model.LogEntry{
		entry(ts.Add(5*time.Minute), model.SeverityWarn),
		entry(ts, model.SeverityInfo),
	}
	buckets := Bucketize(entries, time.Minute, DefaultMaxBuckets)
	if len(buckets) != 2 {
		t.Fatalf("expected sparse buckets, got %d", len(buckets))
	}
	if !buckets[0].Key.Before(buckets[1].Key) {
		t.Fatalf("buckets not ascending")
	}
}

func TestBucketizeDebugFoldsIntoInfo(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	buckets := Bucketize([]model.LogEntry{entry(ts, model.SeverityDebug)}, time.Minute, DefaultMaxBuckets)
	if buckets[0].Info != 1 {
		t.Fatalf("debug not folded into info: %+v", buckets[0])
	}
}

func TestBucketizeKeepsNewest(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var entries []model.LogEntry
	for i := 0; i < 30; i++ {
		entries = append(entries, entry(ts.Add(time.Duration(i)*time.Minute), model.SeverityInfo))
	}
	buckets := Bucketize(entries, time.Minute, 20)
	if len(buckets) != 20 {
		t.Fatalf("buckets: %d", len(buckets))
	}
	if buckets[0].Key.Format("15:04") != "10:10" {
		t.Fatalf("oldest retained bucket: %s", buckets[0].Key.Format("15:04"))
	}
}
