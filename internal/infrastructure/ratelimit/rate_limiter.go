package ratelimit

import (
	"sync"
	"time"
)

// window tracks recent hit timestamps for one key inside a sliding
// time window.
type window struct {
	limit    int
	span     time.Duration
	hits     []time.Time
	lastSeen time.Time
	mutex    sync.Mutex
}

// RateLimiter gates named actions per actor. Keys are "<userID>:<action>".
// State lives only in memory; a restart clears every window.
type RateLimiter struct {
	windows map[string]*window
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func newWindow(limit int, span time.Duration) *window {
	return &window{
		limit: limit,
		span:  span,
	}
}

func (w *window) allow(now time.Time) (bool, time.Duration) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.lastSeen = now
	w.prune(now)

	if len(w.hits) < w.limit {
		w.hits = append(w.hits, now)
		return true, 0
	}

	return false, w.waitLocked(now)
}

func (w *window) remainingWait(now time.Time) time.Duration {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.prune(now)
	if len(w.hits) < w.limit {
		return 0
	}
	return w.waitLocked(now)
}

// waitLocked is the time until the oldest hit falls out of the window.
func (w *window) waitLocked(now time.Time) time.Duration {
	wait := w.span - now.Sub(w.hits[0])
	if wait < 0 {
		wait = 0
	}
	return wait
}

func (w *window) prune(now time.Time) {
	cutoff := now.Add(-w.span)
	kept := w.hits[:0]
	for _, t := range w.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.hits = kept
}

// Allow reports whether the action is currently permitted for the user,
// consuming one slot if it is, and otherwise the time until it will be
// permitted again.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	return rl.windowFor(userID, action).allow(rl.now())
}

// RemainingWait reports how long until the action is allowed again
// without consuming a slot. Zero when the action is allowed now.
func (rl *RateLimiter) RemainingWait(userID, action string) time.Duration {
	return rl.windowFor(userID, action).remainingWait(rl.now())
}

func (rl *RateLimiter) windowFor(userID, action string) *window {
	key := userID + ":" + action

	rl.mutex.RLock()
	w, exists := rl.windows[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		// Double-check pattern
		if w, exists = rl.windows[key]; !exists {
			switch action {
			case "send_message":
				// Max 5 messages within 10 seconds
				w = newWindow(5, 10*time.Second)
			case "create_listing", "create_request", "report_item":
				// Max 3 creations within 5 minutes
				w = newWindow(3, 5*time.Minute)
			case "upload_image":
				w = newWindow(5, time.Minute)
			default:
				// Default: 20 actions per minute
				w = newWindow(20, time.Minute)
			}
			rl.windows[key] = w
		}
		rl.mutex.Unlock()
	}

	return w
}

// Cleanup removes windows that have been idle for over an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		w.mutex.Lock()
		idle := now.Sub(w.lastSeen) > time.Hour
		w.mutex.Unlock()
		if idle {
			delete(rl.windows, key)
		}
	}
}

// StartCleanupRoutine starts a background sweep of idle windows.
func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
