package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/internal/domain"
	"mindmap/internal/editor"
	"mindmap/internal/placement"
	"mindmap/internal/repository"
	"mindmap/internal/repository/sqlite"
)

func newTestSession(t *testing.T) (*Session, chan Event) {
	t.Helper()
	archive, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	bus := NewEventBus()
	events := make(chan Event, 256)
	bus.Subscribe(events)

	s := NewSession(Config{
		Placer:        placement.New(placement.WithRand(rand.New(rand.NewPCG(1, 2)))),
		FrameInterval: time.Millisecond,
		Archive:       archive,
		Bus:           bus,
	})
	t.Cleanup(s.Close)
	return s, events
}

// waitFor drains events until one of type want arrives
func waitFor(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
			return Event{}
		}
	}
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	fast := make(chan Event, 1)
	slow := make(chan Event)
	bus.Subscribe(fast)
	bus.Subscribe(slow)

	bus.Publish(Event{Type: EventRedraw})
	assert.Equal(t, EventRedraw, (<-fast).Type, "slow subscribers do not block others")

	bus.Unsubscribe(fast)
	bus.Publish(Event{Type: EventRedraw})
	assert.Empty(t, fast)
}

func TestSessionCommandsAndEvents(t *testing.T) {
	s, events := newTestSession(t)
	ctx := context.Background()

	out, err := s.Exec(ctx, editor.CmdAddCircle, nil)
	require.NoError(t, err)
	node := out.(domain.Node)
	assert.Equal(t, domain.Point{X: 400, Y: 300}, node.Center())

	created := waitFor(t, events, EventNodeCreated)
	assert.Equal(t, node.ID, created.Payload.(*domain.Node).ID)

	state := waitFor(t, events, EventStateChanged)
	assert.Equal(t, 1, state.Payload.(editor.View).NodeCount)

	_, err = s.Exec(ctx, "nope", nil)
	assert.ErrorIs(t, err, editor.ErrUnknownCommand)
}

func TestSessionRedrawOnTimer(t *testing.T) {
	s, events := newTestSession(t)
	ctx := context.Background()

	a, err := s.Exec(ctx, editor.CmdAddCircle, &domain.Point{X: 100, Y: 100})
	require.NoError(t, err)
	b, err := s.Exec(ctx, editor.CmdAddCircle, &domain.Point{X: 300, Y: 100})
	require.NoError(t, err)
	aID, bID := a.(domain.Node).ID, b.(domain.Node).ID

	require.NoError(t, s.Do(ctx, func(ed *editor.Editor) error {
		ed.ToggleConnectMode()
		ed.ConnectClick(aID)
		ed.ConnectClick(bID)
		ed.ToggleConnectMode()
		return nil
	}))

	inputs := []editor.Input{
		{Kind: editor.PointerDown, Target: editor.TargetNode, ID: bID, X: 300, Y: 100},
		{Kind: editor.PointerMove, Target: editor.TargetCanvas, X: 300, Y: 150},
		{Kind: editor.PointerUp, Target: editor.TargetCanvas, X: 300, Y: 150},
	}
	for _, in := range inputs {
		_, _, err := s.Handle(ctx, in)
		require.NoError(t, err)
	}

	ev := waitFor(t, events, EventRedraw)
	segments := ev.Payload.([]domain.Segment)
	require.Len(t, segments, 1)
	assert.Equal(t, domain.Point{X: 300, Y: 150}, segments[0].To)

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.False(t, v.RedrawPending)
}

func TestSessionBulkDeleteConfirmation(t *testing.T) {
	s, events := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Do(ctx, func(ed *editor.Editor) error {
		var ids []string
		for i := 0; i < 3; i++ {
			ids = append(ids, ed.AddNode(domain.NodeKindRect, nil).ID)
		}
		ed.ClearSelection()
		for _, id := range ids {
			ed.ToggleNode(id)
		}
		return nil
	}))

	_, _, err := s.Handle(ctx, editor.Input{Kind: editor.KeyDown, Key: "Delete"})
	require.NoError(t, err)
	ev := waitFor(t, events, EventConfirmRequired)
	assert.Equal(t, map[string]string{"message": "Delete all 3 selected nodes?"}, ev.Payload)

	res, err := s.DeleteSelection(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Declined)

	res, err = s.DeleteSelection(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Nodes)

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Zero(t, v.NodeCount)
}

func TestSessionSnapshots(t *testing.T) {
	s, events := newTestSession(t)
	ctx := context.Background()

	_, err := s.Exec(ctx, editor.CmdAddRect, nil)
	require.NoError(t, err)

	info, created, err := s.SaveSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, info.NodeCount)
	waitFor(t, events, EventSnapshotSaved)

	_, created, err = s.SaveSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, created, "unchanged diagram is not archived twice")

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	rec, err := s.GetSnapshot(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeKindRect, rec.Snapshot.Nodes[0].Type)

	require.NoError(t, s.DeleteSnapshot(ctx, info.ID))
	deleted := waitFor(t, events, EventSnapshotDeleted)
	assert.Equal(t, map[string]string{"id": info.ID}, deleted.Payload)

	_, err = s.GetSnapshot(ctx, info.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSnapshot(ctx, info.ID), repository.ErrNotFound)
}

func TestSessionWithoutArchive(t *testing.T) {
	s := NewSession(Config{})
	defer s.Close()

	_, _, err := s.SaveSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoArchive)
	assert.ErrorIs(t, s.DeleteSnapshot(context.Background(), "x"), ErrNoArchive)
}

func TestSessionClose(t *testing.T) {
	s := NewSession(Config{})
	s.Close()
	s.Close()

	err := s.Do(context.Background(), func(*editor.Editor) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionSerialisesConcurrentCallers(t *testing.T) {
	s := NewSession(Config{FrameInterval: time.Millisecond})
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Exec(ctx, editor.CmdAddCircle, &domain.Point{X: float64(40 + i*10), Y: 100})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, v.NodeCount)
}

func TestSessionContextCancel(t *testing.T) {
	s := NewSession(Config{})
	defer s.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	go s.Do(context.Background(), func(*editor.Editor) error {
		close(started)
		<-release
		return nil
	})
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Do(ctx, func(*editor.Editor) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionStateEventsFollowMutationOrder(t *testing.T) {
	const n = 200

	bus := NewEventBus()
	events := make(chan Event, 8*n)
	bus.Subscribe(events)
	s := NewSession(Config{Bus: bus, FrameInterval: time.Hour})
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			at := &domain.Point{X: float64(40 + i%70*10), Y: float64(40 + i/70*10)}
			_, err := s.Exec(ctx, editor.CmdAddCircle, at)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var counts []int
	for len(events) > 0 {
		ev := <-events
		if ev.Type == EventStateChanged {
			counts = append(counts, ev.Payload.(editor.View).NodeCount)
		}
	}

	require.Len(t, counts, n)
	for i := 1; i < len(counts); i++ {
		assert.GreaterOrEqual(t, counts[i], counts[i-1], "state event %d arrived out of order", i)
	}
	assert.Equal(t, n, counts[len(counts)-1])
}

func TestSessionDoReturnsResultOnceQueued(t *testing.T) {
	s := NewSession(Config{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	running := make(chan struct{})
	release := make(chan struct{})
	errApplied := errors.New("applied")

	done := make(chan error, 1)
	go func() {
		done <- s.Do(ctx, func(*editor.Editor) error {
			close(running)
			<-release
			return errApplied
		})
	}()

	<-running
	cancel()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errApplied, "a job that ran reports its own result")
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return")
	}
}
