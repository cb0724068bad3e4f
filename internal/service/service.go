package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mindmap/internal/domain"
	"mindmap/internal/editor"
	"mindmap/internal/graph"
	"mindmap/internal/repository"
)

// ErrClosed is returned for work submitted after Close
var ErrClosed = errors.New("session closed")

// ErrNoArchive is returned by archive operations when no archive is configured
var ErrNoArchive = errors.New("snapshot archive not configured")

// Config configures a Session
type Config struct {
	Canvas        domain.Canvas
	Placer        graph.Placer
	FrameInterval time.Duration
	Archive       repository.Archive
	Bus           *EventBus
	Logger        *zap.Logger
}

// Session owns one Editor on a dedicated goroutine. Every read and mutation
// runs there, so the editor never sees concurrent access.
type Session struct {
	ed      *editor.Editor
	bus     *EventBus
	archive repository.Archive
	logger  *zap.Logger

	work      chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewSession starts a session with an empty diagram
func NewSession(cfg Config) *Session {
	if cfg.Bus == nil {
		cfg.Bus = NewEventBus()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 16 * time.Millisecond
	}
	if cfg.Canvas == (domain.Canvas{}) {
		cfg.Canvas = domain.Canvas{Width: 800, Height: 600}
	}

	s := &Session{
		bus:     cfg.Bus,
		archive: cfg.Archive,
		logger:  cfg.Logger,
		work:    make(chan func()),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	opts := []editor.Option{
		editor.WithCanvas(cfg.Canvas),
		editor.WithFrames(&timerFrames{interval: cfg.FrameInterval, post: s.post}),
		editor.WithRenderer(s.render),
		editor.WithConfirmer(editor.ConfirmFunc(s.requestConfirm)),
		editor.WithLogger(cfg.Logger.Named("editor")),
	}
	if cfg.Placer != nil {
		opts = append(opts, editor.WithPlacer(cfg.Placer))
	}
	s.ed = editor.New(opts...)
	s.ed.Subscribe(s.forward)

	go s.loop()
	s.logger.Info("session started",
		zap.Float64("canvas_width", cfg.Canvas.Width),
		zap.Float64("canvas_height", cfg.Canvas.Height),
		zap.Duration("frame_interval", cfg.FrameInterval),
	)
	return s
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.work:
			fn()
		case <-s.done:
			s.ed.Close()
			return
		}
	}
}

// post queues fn on the session goroutine without waiting for it. It drops
// fn once the session is closed.
func (s *Session) post(fn func()) {
	select {
	case s.work <- fn:
	case <-s.done:
	}
}

// Do runs fn on the session goroutine and waits for it. fn must not call
// back into the session. ctx bounds only the wait for the goroutine to pick
// fn up; once queued, fn runs to completion and its result is returned.
func (s *Session) Do(ctx context.Context, fn func(*editor.Editor) error) error {
	result := make(chan error, 1)
	job := func() {
		result <- fn(s.ed)
	}

	select {
	case s.work <- job:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-result
}

// Close stops the session goroutine and waits for it to exit
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped
		s.logger.Info("session closed")
	})
}

// Bus returns the event bus the session publishes on
func (s *Session) Bus() *EventBus {
	return s.bus
}

// View returns the current editor summary
func (s *Session) View(ctx context.Context) (editor.View, error) {
	var v editor.View
	err := s.Do(ctx, func(ed *editor.Editor) error {
		v = ed.View()
		return nil
	})
	return v, err
}

// Handle applies one input event
func (s *Session) Handle(ctx context.Context, in editor.Input) (editor.Action, editor.View, error) {
	var (
		act editor.Action
		v   editor.View
	)
	err := s.Do(ctx, func(ed *editor.Editor) error {
		act = ed.Handle(in)
		v = ed.View()
		if act != editor.ActNone {
			s.publishState(v)
		}
		return nil
	})
	if err != nil {
		return "", v, err
	}
	return act, v, nil
}

// Exec runs a toolbar command
func (s *Session) Exec(ctx context.Context, name string, at *domain.Point) (any, error) {
	var out any
	err := s.Do(ctx, func(ed *editor.Editor) error {
		var err error
		out, err = ed.Exec(name, at)
		if err != nil {
			return err
		}
		s.publishState(ed.View())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("command executed", zap.String("command", name))
	return out, nil
}

// DeleteSelection deletes the current selection, using confirm as the
// answer if a bulk delete asks for confirmation
func (s *Session) DeleteSelection(ctx context.Context, confirm bool) (editor.DeleteResult, error) {
	var res editor.DeleteResult
	err := s.Do(ctx, func(ed *editor.Editor) error {
		res = ed.DeleteSelectionWith(editor.ConfirmFunc(func(string) bool { return confirm }))
		s.publishState(ed.View())
		return nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

// Export returns the current export snapshot
func (s *Session) Export(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.Do(ctx, func(ed *editor.Editor) error {
		snap = ed.Export()
		return nil
	})
	return snap, err
}

// SaveSnapshot archives the current export
func (s *Session) SaveSnapshot(ctx context.Context) (repository.SnapshotInfo, bool, error) {
	if s.archive == nil {
		return repository.SnapshotInfo{}, false, ErrNoArchive
	}
	snap, err := s.Export(ctx)
	if err != nil {
		return repository.SnapshotInfo{}, false, err
	}

	info, created, err := s.archive.Save(ctx, snap)
	if err != nil {
		return repository.SnapshotInfo{}, false, fmt.Errorf("failed to archive snapshot: %w", err)
	}
	if created {
		s.bus.Publish(Event{Type: EventSnapshotSaved, Payload: info})
	}
	return info, created, nil
}

// ListSnapshots returns archived snapshots, newest first
func (s *Session) ListSnapshots(ctx context.Context) ([]repository.SnapshotInfo, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.List(ctx)
}

// GetSnapshot returns one archived snapshot
func (s *Session) GetSnapshot(ctx context.Context, id string) (*repository.Record, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.Get(ctx, id)
}

// DeleteSnapshot removes one archived snapshot
func (s *Session) DeleteSnapshot(ctx context.Context, id string) error {
	if s.archive == nil {
		return ErrNoArchive
	}
	if err := s.archive.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(Event{Type: EventSnapshotDeleted, Payload: map[string]string{"id": id}})
	return nil
}

// forward republishes store events. It runs on the session goroutine.
func (s *Session) forward(ev graph.Event) {
	var payload any
	switch {
	case ev.Node != nil:
		payload = ev.Node
	case ev.Connection != nil:
		payload = ev.Connection
	}
	s.bus.Publish(Event{Type: EventType(ev.Type), Payload: payload})
}

// render publishes recomputed connection lines once per frame
func (s *Session) render(segments []domain.Segment) {
	s.bus.Publish(Event{Type: EventRedraw, Payload: segments})
}

func (s *Session) requestConfirm(message string) bool {
	s.logger.Info("bulk delete needs confirmation", zap.String("message", message))
	s.bus.Publish(Event{Type: EventConfirmRequired, Payload: map[string]string{"message": message}})
	return false
}

// publishState must run on the session goroutine so state events keep the
// order of the mutations that produced them.
func (s *Session) publishState(v editor.View) {
	s.bus.Publish(Event{Type: EventStateChanged, Payload: v})
}
