package chain

import "time"

// logThrottle rate-limits the default Observer's per-site logging: a
// PerformOptimizationSweep visits every site up to three times a sweep, and
// logging every single one at info level drowns out the signal a human
// operator actually wants (sweep-level progress, not site-level). Adapted
// from the teacher's skipThrottler.
type logThrottle struct {
	d    time.Duration
	last time.Time
}

func newLogThrottle(d time.Duration) *logThrottle {
	return &logThrottle{d: d}
}

// Ok reports whether enough time has passed since the last Ok that returned
// true, and if so records now as the new last-fired time.
func (t *logThrottle) Ok(now time.Time) bool {
	if now.Before(t.last.Add(t.d)) {
		return false
	}
	t.last = now
	return true
}
