package redislock

import "time"

// SetClock replaces the time source of a LocalLock.
func (l *LocalLock) SetClock(now func() time.Time) {
	l.now = now
}
