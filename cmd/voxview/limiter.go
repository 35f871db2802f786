package main

import "time"

// frameLimiter paces the render loop to a target frame rate.
type frameLimiter struct {
	fps  int
	next time.Time
}

// Wait blocks until the next frame is due. A non-positive fps disables it.
// Sleeps most of the gap and spins the last stretch for precision.
func (f *frameLimiter) Wait() {
	if f.fps <= 0 {
		f.next = time.Time{}
		return
	}
	target := time.Second / time.Duration(f.fps)
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
	}

	// resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
