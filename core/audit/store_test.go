package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func appendRaw(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = f.WriteString(line)
	return err
}

func rec(ts time.Time, room string, outcome Outcome) Record {
	return Record{
		Timestamp:  ts,
		ProposalID: "p-" + room,
		Room:       room,
		Outcome:    outcome,
	}
}

func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	dir := t.TempDir()
	var (
		s   Store
		err error
	)
	switch name {
	case "jsonl":
		s, err = NewJSONLStore(filepath.Join(dir, "audit.jsonl"))
	case "sqlite":
		s, err = NewSQLiteStore(filepath.Join(dir, "audit.db"))
	}
	if err != nil {
		t.Fatalf("open %s store: %v", name, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStores(t *testing.T) {
	base := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	for _, backend := range []string{"jsonl", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			s := storeUnderTest(t, backend)
			ctx := context.Background()

			records := []Record{
				rec(base, "Room A", OutcomeAccepted),
				rec(base.Add(time.Hour), "Room B", OutcomeDeclined),
				rec(base.Add(2*time.Hour), "Room A", OutcomeFailed),
			}
			for _, r := range records {
				if err := s.Append(ctx, r); err != nil {
					t.Fatalf("append: %v", err)
				}
			}

			all, err := s.Query(ctx, Query{})
			if err != nil {
				t.Fatalf("query all: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("got %d records, want 3", len(all))
			}
			if all[0].ProposalID != "p-Room A" || all[0].Outcome != OutcomeAccepted {
				t.Errorf("first record: %+v", all[0])
			}

			byRoom, err := s.Query(ctx, Query{Room: "Room A"})
			if err != nil {
				t.Fatal(err)
			}
			if len(byRoom) != 2 {
				t.Fatalf("room filter: got %d, want 2", len(byRoom))
			}

			byOutcome, err := s.Query(ctx, Query{Outcome: OutcomeDeclined})
			if err != nil {
				t.Fatal(err)
			}
			if len(byOutcome) != 1 || byOutcome[0].Room != "Room B" {
				t.Fatalf("outcome filter: %+v", byOutcome)
			}

			window, err := s.Query(ctx, Query{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
			if err != nil {
				t.Fatal(err)
			}
			if len(window) != 1 || window[0].Room != "Room B" {
				t.Fatalf("time window: %+v", window)
			}
		})
	}
}

func TestJSONLSkipsGarbageLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Append(ctx, rec(time.Now(), "Room A", OutcomeAccepted)); err != nil {
		t.Fatal(err)
	}

	// a torn write must not poison later queries
	if err := appendRaw(path, "{not json\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(ctx, rec(time.Now(), "Room B", OutcomeDeclined)); err != nil {
		t.Fatal(err)
	}

	res, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d records, want 2", len(res))
	}
}

func TestNopStore(t *testing.T) {
	var s NopStore
	ctx := context.Background()
	if err := s.Append(ctx, Record{}); err != nil {
		t.Fatal(err)
	}
	res, err := s.Query(ctx, Query{})
	if err != nil || res != nil {
		t.Fatalf("got (%v, %v)", res, err)
	}
}
