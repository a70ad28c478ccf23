// Package dedupe tracks fingerprints of previously submitted document
// texts so repeated submissions can be flagged.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
)

// defaultMaxSize bounds the tracker memory for long-running services.
const defaultMaxSize = 50000

// Tracker records document fingerprints to detect repeated submissions
// of identical content within the process lifetime.
type Tracker interface {
	// SeenAndRecord atomically checks whether the fingerprint was seen
	// and records it if not. Returns true when it was already seen.
	SeenAndRecord(ctx context.Context, fingerprint string) bool

	// Forget removes a fingerprint, allowing it to be submitted again
	// without being flagged.
	Forget(ctx context.Context, fingerprint string)

	Size() int64
}

// Fingerprint returns the canonical fingerprint of a document text:
// the hex SHA-256 of the whitespace-trimmed content.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// inMemoryTracker implements Tracker. In bounded mode (maxSize > 0) a
// ring of insertion order evicts the oldest fingerprint once the cap
// is reached; with maxSize <= 0 the map grows without limit.
type inMemoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryTracker creates a tracker with configuration options.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]struct{})
	if t.maxSize > 0 {
		t.ring = make([]string, t.maxSize)
	}

	return t
}

// SeenAndRecord atomically checks and records a fingerprint.
func (t *inMemoryTracker) SeenAndRecord(_ context.Context, fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[fingerprint]; exists {
		return true
	}

	if t.maxSize > 0 {
		if evicted := t.ring[t.next]; evicted != "" {
			if _, exists := t.seen[evicted]; exists {
				delete(t.seen, evicted)
				t.size.Add(-1)
			}
		}
		t.ring[t.next] = fingerprint
		t.next = (t.next + 1) % t.maxSize
	}

	t.seen[fingerprint] = struct{}{}
	t.size.Add(1)
	return false
}

// Forget removes a fingerprint. The ring slot, if any, is left behind
// and skipped at eviction time.
func (t *inMemoryTracker) Forget(_ context.Context, fingerprint string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[fingerprint]; exists {
		delete(t.seen, fingerprint)
		t.size.Add(-1)
	}
}

// Size returns the current number of tracked fingerprints.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
