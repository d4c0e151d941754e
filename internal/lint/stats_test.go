package lint

import (
	"testing"
	"time"
)

func TestEvalStatsSnapshotPercentiles(t *testing.T) {
	stats := NewEvalStats(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(us)*time.Microsecond, us == 500)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Failures != 1 {
		t.Fatalf("expected failures=1, got %d", snap.Failures)
	}
	if snap.MinUs != 100 || snap.MaxUs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
}

func TestEvalStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewEvalStats(10 * time.Millisecond)
	stats.Record(100*time.Microsecond, false)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200*time.Microsecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinUs != 200 || snap.MaxUs != 200 {
		t.Fatalf("expected one fresh sample of 200us, got %+v", snap)
	}
}

func TestEvalStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewEvalStats(time.Hour)
	stats.Record(-10*time.Microsecond, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinUs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}
