// Package dedupe tracks fingerprints of previously submitted document
// texts so repeated submissions can be flagged.
package dedupe

// Option applies a configuration option to the in-memory tracker.
type Option func(*inMemoryTracker)

// WithMaxSize sets the maximum number of fingerprints kept in memory.
// If maxSize > 0: bounded mode, the oldest entry is evicted at the cap.
// If maxSize <= 0: unbounded mode, no eviction.
func WithMaxSize(maxSize int) Option {
	return func(t *inMemoryTracker) {
		t.maxSize = maxSize
	}
}
