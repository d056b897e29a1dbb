package clusters

import (
	"sync"
	"time"
)

// Analysis kinds sharing the status cache.
const (
	ClusterKey      = "cluster"
	AutoAnalyzerKey = "auto_analyzer"
)

type statusKey struct {
	kind     string
	launchID int64
}

type statusEntry struct {
	projectID int64
	startedAt time.Time
}

// StatusCache is the in-memory mutual-exclusion registry for analysis jobs.
// Presence of a (kind, launchId) key means an analysis of that kind is in
// progress for the launch. State lives for the process lifetime only; a
// restarted process has no in-flight jobs of its own.
type StatusCache struct {
	entries sync.Map // statusKey -> statusEntry
}

func NewStatusCache() *StatusCache {
	return &StatusCache{}
}

// TryMarkStarted atomically inserts the key if absent. It returns false when
// an analysis of this kind is already in progress for the launch, in which
// case the caller must not start another one.
func (c *StatusCache) TryMarkStarted(kind string, launchID, projectID int64) bool {
	key := statusKey{kind: kind, launchID: launchID}
	_, loaded := c.entries.LoadOrStore(key, statusEntry{projectID: projectID, startedAt: time.Now()})
	return !loaded
}

// Contains reports whether an analysis of the given kind is in progress.
func (c *StatusCache) Contains(kind string, launchID int64) bool {
	_, ok := c.entries.Load(statusKey{kind: kind, launchID: launchID})
	return ok
}

// AnalyzeFinished removes the key. Removing an absent key is a no-op.
func (c *StatusCache) AnalyzeFinished(kind string, launchID int64) {
	c.entries.Delete(statusKey{kind: kind, launchID: launchID})
}
