// Package sink holds the read-only consumers of engine snapshots: the
// HTTP status API and the console renderer. Sinks never touch live
// engine state.
package sink

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Ayman-Singh/IoT-InvisiStrings/model"
	"github.com/Ayman-Singh/IoT-InvisiStrings/util"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// SnapshotStore hands the latest per-tick snapshot to HTTP readers. The
// loop goroutine publishes, handler goroutines read; the snapshot itself
// is immutable so only the pointer swap needs guarding.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap model.Snapshot
	set  bool
}

func (s *SnapshotStore) Publish(snap model.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.set = true
	s.mu.Unlock()
}

func (s *SnapshotStore) Latest() (model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.set
}

type deviceRow struct {
	Device   string `json:"device"`
	LastSeen string `json:"last_seen"`
}

// NewRouter builds the status API. lastSeen may be nil when the ingest
// source has no device table (serial mode).
func NewRouter(store *SnapshotStore, lastSeen func() map[string]time.Time, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		snap, ok := store.Latest()
		if !ok {
			http.Error(w, `{"detail":"no snapshot yet"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, snap, log)
	}).Methods("GET")

	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		snap, ok := store.Latest()
		if !ok {
			http.Error(w, `{"detail":"no snapshot yet"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, snap.Stats, log)
	}).Methods("GET")

	router.HandleFunc("/devices", func(w http.ResponseWriter, r *http.Request) {
		rows := []deviceRow{}
		if lastSeen != nil {
			seen := lastSeen()
			for _, device := range util.SortedKeys(seen) {
				rows = append(rows, deviceRow{
					Device:   device,
					LastSeen: seen[device].Format(time.RFC3339),
				})
			}
		}
		writeJSON(w, rows, log)
	}).Methods("GET")

	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, v any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode response", zap.Error(err))
	}
}
