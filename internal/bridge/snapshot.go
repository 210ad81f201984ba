package bridge

import (
	"sync"
	"time"
)

// SnapshotInfo describes the latest published document
type SnapshotInfo struct {
	LastEvent string    `json:"last_event"`
	UpdatedAt time.Time `json:"updated_at"`
	Events    uint64    `json:"events"`
}

// Snapshot holds the most recent projection as JSON for readers outside the
// event loop. Published slices are never modified afterwards.
type Snapshot struct {
	mu   sync.RWMutex
	data []byte
	info SnapshotInfo
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Publish replaces the current document
func (s *Snapshot) Publish(data []byte, kind string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.info.LastEvent = kind
	s.info.UpdatedAt = at
	s.info.Events++
}

// Latest returns the current document, nil before the first event
func (s *Snapshot) Latest() ([]byte, SnapshotInfo) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.info
}
