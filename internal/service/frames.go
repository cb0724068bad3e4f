package service

import "time"

// timerFrames implements redraw.FrameRequester with a fixed frame interval.
// The callback runs on the session goroutine, never on the timer's.
type timerFrames struct {
	interval time.Duration
	post     func(func())
}

// RequestFrame schedules fn for the next frame
func (f *timerFrames) RequestFrame(fn func()) {
	time.AfterFunc(f.interval, func() {
		f.post(fn)
	})
}
