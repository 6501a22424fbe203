package status

import (
	"errors"
	"testing"
	"time"
)

func TestBoard_Report(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	at := time.Date(2026, 3, 10, 6, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		region    Region
		n         int
		err       error
		wantState string
		wantMsg   string
	}{
		{"logs failed", Logs, 3, errors.New("timeout"), "failed", "Failed to load logs."},
		{"logs empty", Logs, 0, nil, "empty", "No logs for the past 7 days."},
		{"logs loaded", Logs, 2, nil, "ready", "Last updated: March 10, 2026, 02:30 PM"},
		{"stats without empty message", Stats, 0, nil, "ready", "Last updated: March 10, 2026, 02:30 PM"},
		{"stats failed", Stats, 0, errors.New("500"), "failed", "Failed to load statistics."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard(manila)
			got := b.Report(tt.region, tt.n, tt.err, at)
			if got.State != tt.wantState || got.Message != tt.wantMsg {
				t.Errorf("Report() = %q %q, want %q %q", got.State, got.Message, tt.wantState, tt.wantMsg)
			}
			if b.Get(tt.region) != got {
				t.Error("Get should return the reported entry")
			}
		})
	}
}

func TestBoard_GetBeforeReport(t *testing.T) {
	b := NewBoard(nil)
	if e := b.Get(Logs); e.State != "loading" || e.Message != "" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestBoard_LatestWins(t *testing.T) {
	b := NewBoard(time.UTC)
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	b.Report(Logs, 0, errors.New("boom"), at)
	b.Report(Stats, 1, nil, at)
	b.Report(Logs, 5, nil, at.Add(time.Minute))

	entries := b.Entries()
	if len(entries) != 2 || entries[0].Region != "logs" || entries[0].State != "ready" || entries[0].Err != nil {
		t.Errorf("unexpected entries %+v", entries)
	}
}
