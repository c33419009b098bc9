package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/opd-ai/go-planes/pkg/event"
)

func openTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "results.db"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBoard_BestOrdersByDuration(t *testing.T) {
	b := openTestBoard(t)
	ctx := context.Background()

	runs := []Result{
		{RunID: "slow", Distance: 50000, Duration: 240},
		{RunID: "fast", Distance: 50000, Duration: 170},
		{RunID: "mid", Distance: 50000, Duration: 200},
	}
	for _, r := range runs {
		if err := b.Record(ctx, r); err != nil {
			t.Fatalf("Record %s failed: %v", r.RunID, err)
		}
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"all", 10, []string{"fast", "mid", "slow"}},
		{"top_two", 2, []string{"fast", "mid"}},
		{"none", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Best(ctx, tt.n)
			if err != nil {
				t.Fatalf("Best failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d results, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].RunID != id {
					t.Errorf("Expected %s at %d, got %s", id, i, got[i].RunID)
				}
			}
		})
	}
}

func TestBoard_RecordIsIdempotentPerRun(t *testing.T) {
	b := openTestBoard(t)
	ctx := context.Background()

	r := Result{RunID: "abc", Duration: 180}
	for i := 0; i < 3; i++ {
		if err := b.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	count, err := b.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 result, got %d", count)
	}
}

func TestBoard_RecordRequiresRunID(t *testing.T) {
	b := openTestBoard(t)
	if err := b.Record(context.Background(), Result{Duration: 1}); err == nil {
		t.Error("Expected error for missing run id")
	}
}

func TestBoard_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	b, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := b.Record(ctx, Result{RunID: "keep", Duration: 99, Biome: "desert"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	b.Close()

	b, err = Open(path, nil)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer b.Close()

	got, err := b.Best(ctx, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("Expected one stored result, got %v, %v", got, err)
	}
	if got[0].RunID != "keep" || got[0].Biome != "desert" {
		t.Errorf("Unexpected result %+v", got[0])
	}
}

func TestBoard_Closed(t *testing.T) {
	b, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Expected second close to succeed, got %v", err)
	}
	if err := b.Record(context.Background(), Result{RunID: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if _, err := b.Best(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestBoard_SubscribeRecordsFinishedRaces(t *testing.T) {
	b := openTestBoard(t)
	bus := event.NewEventBus()
	sub := b.Subscribe(bus)

	finished := event.NewRaceEvent(event.RaceFinished, nil, "run-1")
	finished.Duration = 175
	finished.TopSpeed = 320
	finished.Weather = "storm"
	bus.Publish(finished)

	// Other race events are not results.
	bus.Publish(event.NewRaceEvent(event.RaceStarted, nil, "run-2"))

	got, err := b.Best(context.Background(), 10)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(got))
	}
	if got[0].RunID != "run-1" || got[0].TopSpeed != 320 || got[0].Weather != "storm" {
		t.Errorf("Unexpected result %+v", got[0])
	}

	bus.Unsubscribe(sub)
	bus.Publish(event.NewRaceEvent(event.RaceFinished, nil, "run-3"))
	if count, _ := b.Count(context.Background()); count != 1 {
		t.Errorf("Expected no recording after unsubscribe, got %d results", count)
	}
}
