package ratelimit

import "time"

// Cleanup runs one sweep as if the clock read now.
func (l *Limiter) Cleanup(now time.Time) { l.cleanup(now) }
