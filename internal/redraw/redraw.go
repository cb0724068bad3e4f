// Package redraw batches connection endpoint recomputation to one pass per
// rendering tick.
//
// Moves only mark the scheduler dirty. The first mark after a pass requests a
// frame; further marks before that frame fires coalesce into it.
package redraw

import (
	"mindmap/internal/domain"
)

// FrameRequester runs fn once on the next rendering tick
type FrameRequester interface {
	RequestFrame(fn func())
}

// SegmentSource computes connection lines from current node positions
type SegmentSource interface {
	Segments() []domain.Segment
}

// RenderFunc receives the recomputed lines of every connection
type RenderFunc func([]domain.Segment)

// Scheduler holds the single pending-redraw flag
type Scheduler struct {
	frames FrameRequester
	source SegmentSource
	render RenderFunc

	pending bool
	closed  bool
	passes  uint64
}

// New creates a scheduler. render may be nil.
func New(frames FrameRequester, source SegmentSource, render RenderFunc) *Scheduler {
	return &Scheduler{
		frames: frames,
		source: source,
		render: render,
	}
}

// MarkDirty records that a node moved. It never recomputes synchronously.
func (s *Scheduler) MarkDirty() {
	if s.pending || s.closed {
		return
	}
	s.pending = true
	s.frames.RequestFrame(s.flush)
}

// Pending reports whether a pass is scheduled
func (s *Scheduler) Pending() bool {
	return s.pending
}

// Passes returns how many recomputation passes have run
func (s *Scheduler) Passes() uint64 {
	return s.passes
}

// Close tears the scheduler down; a frame already requested becomes a no-op
func (s *Scheduler) Close() {
	s.closed = true
	s.pending = false
}

func (s *Scheduler) flush() {
	if s.closed || !s.pending {
		return
	}
	s.pending = false
	s.passes++

	segments := s.source.Segments()
	if s.render != nil {
		s.render(segments)
	}
}

// ManualFrames queues frame callbacks until Tick is called
type ManualFrames struct {
	queue []func()
}

// RequestFrame queues fn
func (m *ManualFrames) RequestFrame(fn func()) {
	m.queue = append(m.queue, fn)
}

// Tick runs every queued callback and returns how many ran
func (m *ManualFrames) Tick() int {
	q := m.queue
	m.queue = nil
	for _, fn := range q {
		fn()
	}
	return len(q)
}

// Queued returns the number of callbacks waiting for the next tick
func (m *ManualFrames) Queued() int {
	return len(m.queue)
}
