package main

import "time"

// releasedFPSLimit caps frames while the mouse is released
const releasedFPSLimit = 60

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	next time.Time
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{}
}

// Wait blocks until the next frame is due under limit frames per second.
// A limit of 0 disables limiting. Uses a hybrid sleep/spin approach for
// better precision on high FPS caps.
func (f *FPSLimiter) Wait(limit int, released bool) {
	if released && (limit <= 0 || limit > releasedFPSLimit) {
		limit = releasedFPSLimit
	}
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
