// Package audit exposes the swap audit log via GET /api/audit/swaps.
package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	coreaudit "github.com/interviewday/board/core/audit"
)

// New returns an HTTP handler querying the audit store. Requests must
// include "Authorization: Bearer <token>" when token is non-empty.
// Supported query parameters: start, end (RFC 3339), room, outcome;
// values that do not parse are answered with 400.
func New(store coreaudit.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			if r.Header.Get("Authorization") != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := coreaudit.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid start: %v", err), http.StatusBadRequest)
				return
			}
			q.Start = t
		}
		if s := r.URL.Query().Get("end"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid end: %v", err), http.StatusBadRequest)
				return
			}
			q.End = t
		}
		q.Room = r.URL.Query().Get("room")
		if o := r.URL.Query().Get("outcome"); o != "" {
			v, ok := outcomeFromString(o)
			if !ok {
				http.Error(w, fmt.Sprintf("unknown outcome %q", o), http.StatusBadRequest)
				return
			}
			q.Outcome = v
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func outcomeFromString(s string) (coreaudit.Outcome, bool) {
	switch s {
	case "accepted":
		return coreaudit.OutcomeAccepted, true
	case "declined":
		return coreaudit.OutcomeDeclined, true
	case "failed":
		return coreaudit.OutcomeFailed, true
	default:
		return "", false
	}
}
