package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_RecordAndSnapshot verifies requests and queries are aggregated separately.
func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /admin/members", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /admin/members", StatusCode: 500, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT member", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 3 || snap.Requests != 2 {
		t.Errorf("TotalRecorded = %d, Requests = %d; want 3, 2", snap.TotalRecorded, snap.Requests)
	}
	if snap.Errors != 1 {
		t.Errorf("Errors = %d, want 1", snap.Errors)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 || snap.SlowestPaths[0].MaxMs != 30 {
		t.Fatalf("unexpected paths %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Path != "SELECT member" {
		t.Fatalf("unexpected queries %+v", snap.SlowestQueries)
	}
}

// TestCollector_RingBufferOverwrites verifies oldest entries are overwritten when full.
func TestCollector_RingBufferOverwrites(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /x", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Count != 3 {
		t.Fatalf("expected 3 retained entries, got %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].AvgMs != 3 {
		t.Errorf("AvgMs = %v, want 3 (entries 2,3,4)", snap.SlowestPaths[0].AvgMs)
	}
}

// TestCollector_Percentiles verifies P50/P95/P99 calculation.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /p", DurationMs: float64(i), Timestamp: now})
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
	if snap.RequestP99Ms < 98 || snap.RequestP99Ms > 100 {
		t.Errorf("P99 = %v, want ~99", snap.RequestP99Ms)
	}
}

// TestCollector_TopN verifies ordering and truncation of the slowest list.
func TestCollector_TopN(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(Entry{Kind: KindQuery, Path: "SELECT a", DurationMs: 1, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT b", DurationMs: 9, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "SELECT c", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestQueries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.SlowestQueries))
	}
	if snap.SlowestQueries[0].Path != "SELECT b" || snap.SlowestQueries[1].Path != "SELECT c" {
		t.Errorf("unexpected order %+v", snap.SlowestQueries)
	}
}

// TestCollector_SnapshotFiltersBySince verifies old entries are excluded.
func TestCollector_SnapshotFiltersBySince(t *testing.T) {
	c := NewCollector(100)
	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 100, Timestamp: time.Now().Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 10, Timestamp: time.Now()})

	snap := c.Snapshot(time.Now().Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /new" {
		t.Errorf("expected only GET /new, got %+v", snap.SlowestPaths)
	}
}

// TestCollector_ConcurrentWrites verifies goroutine safety of Record.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.Record(Entry{Kind: KindRequest, Path: "GET /c", DurationMs: float64(n), Timestamp: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded = %d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures per-call cost of Record().
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Path: "GET /bench", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for b.Loop() {
		c.Record(e)
	}
}
