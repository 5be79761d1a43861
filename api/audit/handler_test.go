package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	coreaudit "github.com/interviewday/board/core/audit"
)

type memStore struct {
	recs    []coreaudit.Record
	last    coreaudit.Query
	queried bool
}

func (m *memStore) Append(_ context.Context, rec coreaudit.Record) error {
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) Query(_ context.Context, q coreaudit.Query) ([]coreaudit.Record, error) {
	m.last = q
	m.queried = true
	return m.recs, nil
}

func (m *memStore) Close() error { return nil }

func TestSwapsEndpoint(t *testing.T) {
	store := &memStore{recs: []coreaudit.Record{
		{ProposalID: "p1", Room: "Room A", Outcome: coreaudit.OutcomeAccepted, Timestamp: time.Now()},
	}}
	srv := httptest.NewServer(New(store, ""))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/audit/swaps?room=Room+A&outcome=accepted&start=2025-06-04T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	var recs []coreaudit.Record
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ProposalID != "p1" {
		t.Fatalf("records: %+v", recs)
	}

	if store.last.Room != "Room A" {
		t.Errorf("room filter not forwarded: %q", store.last.Room)
	}
	if store.last.Outcome != coreaudit.OutcomeAccepted {
		t.Errorf("outcome filter not forwarded: %q", store.last.Outcome)
	}
	want := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	if !store.last.Start.Equal(want) {
		t.Errorf("start filter: %v", store.last.Start)
	}
}

func TestSwapsRejectsBadParams(t *testing.T) {
	store := &memStore{}
	srv := httptest.NewServer(New(store, ""))
	defer srv.Close()

	// a typo'd filter must not degrade into an unfiltered full query
	for _, query := range []string{
		"start=not-a-time",
		"end=2025-06-04",
		"outcome=bogus",
	} {
		resp, err := http.Get(srv.URL + "/api/audit/swaps?" + query)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", query, resp.StatusCode)
		}
	}
	if store.queried {
		t.Error("store queried despite invalid parameters")
	}
}

func TestSwapsAuth(t *testing.T) {
	srv := httptest.NewServer(New(&memStore{}, "sekrit"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/audit/swaps")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/audit/swaps", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("with token: got %d", resp2.StatusCode)
	}

	resp3, err := http.Post(srv.URL+"/api/audit/swaps", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST: got %d", resp3.StatusCode)
	}
}
