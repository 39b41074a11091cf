package fetchlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/solstice-fi/lorebase/snapshot"
)

var _ snapshot.Recorder = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndReadBack(t *testing.T) {
	// WHAT: Recorded refreshes round-trip through SQLite, newest first.
	// WHY: The history table is only useful if rows survive intact.
	store := openTestStore(t)

	store.RecordRefresh("brand", true, false, 120*time.Millisecond, nil)
	store.RecordRefresh("glossary", false, true, 80*time.Millisecond, errors.New("upstream down"))
	store.Flush()

	entries, err := store.Recent(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}

	// Same timestamp resolution can tie; newest-first falls back to insert
	// order, so the glossary failure comes first.
	got := entries[0]
	if got.Domain != "glossary" || got.OK || !got.Fallback {
		t.Errorf("entry: got %+v", got)
	}
	if got.Error != "upstream down" {
		t.Errorf("error: got %q", got.Error)
	}
	if got.Elapsed != 80*time.Millisecond {
		t.Errorf("elapsed: got %v", got.Elapsed)
	}
}

func TestStore_RecentFiltersAndLimits(t *testing.T) {
	// WHAT: Recent narrows by domain and respects the limit.
	// WHY: Status output shows one domain's recent history, bounded.
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.RecordRefresh("stats", true, false, time.Millisecond, nil)
	}
	store.RecordRefresh("brand", true, false, time.Millisecond, nil)
	store.Flush()

	entries, err := store.Recent(context.Background(), "stats", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Domain != "stats" {
			t.Errorf("wrong domain leaked: %+v", e)
		}
	}
}

func TestStore_CleanupDropsOldRows(t *testing.T) {
	// WHAT: Cleanup removes entries older than the retention window only.
	// WHY: The log must not grow without bound.
	store := openTestStore(t)

	old := time.Now().Add(-48 * time.Hour).UnixMicro()
	if _, err := store.db.Exec(
		`INSERT INTO refreshes (domain, ok, fallback, elapsed_us, error, at) VALUES (?, 1, 0, 10, '', ?)`,
		"brand", old); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store.RecordRefresh("brand", true, false, time.Millisecond, nil)
	store.Flush()

	removed, err := store.Cleanup(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	entries, err := store.Recent(context.Background(), "brand", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("surviving entries: got %d, want 1", len(entries))
	}
}

func TestStore_UseAfterCloseIsNoOp(t *testing.T) {
	// WHAT: RecordRefresh, Flush and a second Close after Close are no-ops,
	// not panics.
	// WHY: During shutdown a late refresh can race the store teardown.
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store.RecordRefresh("brand", true, false, time.Millisecond, nil)
	store.Flush()
	store.Close()
}

func TestStore_DropsWhenBufferFull(t *testing.T) {
	// WHAT: Recording never blocks, even when entries outpace the writer.
	// WHY: A slow disk must not stall content queries.
	store := openTestStore(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			store.RecordRefresh("stats", true, false, time.Microsecond, nil)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("recording blocked")
	}
}
