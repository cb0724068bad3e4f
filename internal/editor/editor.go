// Package editor ties the diagram components into one explicit aggregate and
// routes UI input to them.
//
// Every input is numbered. Classify decides what an input means from a small
// State snapshot; Handle then applies it. The click that immediately follows
// the pointer-up ending a drag or a rubber band is recognised by its sequence
// number, not by elapsed time.
//
// Editor is not safe for concurrent use; see service.Session for a
// goroutine-owned wrapper.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mindmap/internal/connect"
	"mindmap/internal/domain"
	"mindmap/internal/drag"
	"mindmap/internal/graph"
	"mindmap/internal/placement"
	"mindmap/internal/redraw"
	"mindmap/internal/selection"
)

// ErrUnknownCommand is returned by Exec for an unrecognised command name
var ErrUnknownCommand = errors.New("unknown command")

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(message string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

// Editor is the application aggregate
type Editor struct {
	store  *graph.Store
	sel    *selection.Controller
	conn   *connect.Controller
	drag   *drag.Coordinator
	redraw *redraw.Scheduler

	confirm Confirmer
	logger  *zap.Logger

	seq        uint64
	suppressAt uint64
	editing    string
}

type options struct {
	canvas  domain.Canvas
	placer  graph.Placer
	frames  redraw.FrameRequester
	render  redraw.RenderFunc
	confirm Confirmer
	logger  *zap.Logger
}

// Option configures an Editor
type Option func(*options)

// WithCanvas sets the surface extent
func WithCanvas(c domain.Canvas) Option {
	return func(o *options) { o.canvas = c }
}

// WithPlacer sets the placement strategy for nodes created without coordinates
func WithPlacer(p graph.Placer) Option {
	return func(o *options) { o.placer = p }
}

// WithFrames sets the rendering tick source for batched redraws
func WithFrames(f redraw.FrameRequester) Option {
	return func(o *options) { o.frames = f }
}

// WithRenderer receives recomputed connection lines once per tick
func WithRenderer(r redraw.RenderFunc) Option {
	return func(o *options) { o.render = r }
}

// WithConfirmer sets the capability asked before bulk deletion
func WithConfirmer(c Confirmer) Option {
	return func(o *options) { o.confirm = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates an editor with an empty diagram
func New(opts ...Option) *Editor {
	o := options{
		canvas:  domain.Canvas{Width: 800, Height: 600},
		confirm: ConfirmFunc(func(string) bool { return false }),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.placer == nil {
		o.placer = placement.New()
	}
	if o.frames == nil {
		o.frames = &redraw.ManualFrames{}
	}

	e := &Editor{
		confirm: o.confirm,
		logger:  o.logger,
	}
	e.store = graph.NewStore(o.canvas, o.placer)
	e.sel = selection.New(e.store)
	e.conn = connect.New(e.store)
	e.redraw = redraw.New(o.frames, e.store, o.render)
	e.drag = drag.New(e.store, e.sel, e.redraw)

	e.store.Subscribe(e.onStoreEvent)
	return e
}

// onStoreEvent keeps every tracking structure in step with deletions
func (e *Editor) onStoreEvent(ev graph.Event) {
	switch ev.Type {
	case graph.EventNodeDeleted:
		id := ev.Node.ID
		e.sel.RemoveNode(id)
		e.conn.ForgetNode(id)
		e.drag.ForgetNode(id)
		if e.editing == id {
			e.editing = ""
		}
	case graph.EventConnectionDeleted:
		e.sel.RemoveConnection(ev.Connection.ID)
	}
}

// Subscribe registers l for store events
func (e *Editor) Subscribe(l graph.Listener) {
	e.store.Subscribe(l)
}

// Close tears down the redraw scheduler
func (e *Editor) Close() {
	e.redraw.Close()
}

// State returns the classification state for the next input
func (e *Editor) State() State {
	_, connecting := e.conn.Connecting()
	return State{
		ConnectMode:   e.conn.ConnectMode(),
		DeleteMode:    e.conn.DeleteMode(),
		Connecting:    connecting,
		Dragging:      e.drag.Active(),
		Banding:       e.sel.Banding(),
		Editing:       e.editing != "",
		SuppressClick: e.suppressAt != 0 && e.suppressAt == e.seq+1,
	}
}

// Handle classifies and applies one input, returning the action taken
func (e *Editor) Handle(in Input) Action {
	act := Classify(e.State(), in)
	e.seq++
	p := domain.Point{X: in.X, Y: in.Y}

	switch act {
	case ActSelectNode:
		e.SelectNode(in.ID)
	case ActToggleNode:
		e.ToggleNode(in.ID)
	case ActBeginDrag:
		if !e.store.HasNode(in.ID) {
			return ActNone
		}
		if !e.sel.Contains(in.ID) {
			e.SelectNode(in.ID)
		}
		e.drag.Begin(in.ID, p)
	case ActDragMove:
		e.drag.Move(p)
	case ActEndDrag:
		if e.drag.End() {
			e.suppressAt = e.seq + 1
		}
	case ActConnectStep:
		e.ConnectClick(in.ID)
	case ActDeleteNode:
		e.DeleteNode(in.ID)
	case ActBeginEdit:
		e.BeginEdit(in.ID)
	case ActCommitEdit:
		e.CommitEdit(in.Text)
	case ActCancelEdit:
		e.CancelEdit()
	case ActSelectConnection:
		e.SelectConnection(in.ID)
	case ActBeginBand:
		e.sel.BeginBand(p)
	case ActBandMove:
		e.sel.UpdateBand(p)
	case ActEndBand:
		e.sel.EndBand()
		e.logSelection()
		e.suppressAt = e.seq + 1
	case ActGuideMove:
		e.conn.TrackPointer(p)
	case ActClearSelection:
		e.ClearSelection()
	case ActExitConnectMode:
		e.conn.ExitConnectMode()
	case ActDeleteSelection:
		e.DeleteSelection()
	case ActCreateCircle:
		e.AddNode(domain.NodeKindCircle, nil)
	case ActCreateRect:
		e.AddNode(domain.NodeKindRect, nil)
	}
	return act
}

// AddNode creates a node and makes it the single selection. A nil pos uses the placement search.
func (e *Editor) AddNode(kind domain.NodeKind, pos *domain.Point) domain.Node {
	n := e.store.CreateNode(kind, pos)
	e.sel.Select(n.ID)
	return n
}

// SelectNode makes id the single selection
func (e *Editor) SelectNode(id string) bool {
	if !e.store.HasNode(id) {
		return false
	}
	e.sel.Select(id)
	return true
}

// ToggleNode adds or removes id from a multi-selection
func (e *Editor) ToggleNode(id string) bool {
	if !e.store.HasNode(id) {
		return false
	}
	e.sel.Toggle(id)
	e.logSelection()
	return true
}

// SelectConnection selects a connection, clearing node selection
func (e *Editor) SelectConnection(id string) bool {
	if _, ok := e.store.FindConnection(id); !ok {
		return false
	}
	e.sel.SelectConnection(id)
	return true
}

// ClearSelection empties the selection
func (e *Editor) ClearSelection() {
	e.sel.Clear()
}

// ConnectClick feeds a node click to the connect-mode state machine
func (e *Editor) ConnectClick(id string) (domain.Connection, bool) {
	n, ok := e.store.FindNode(id)
	if !ok {
		return domain.Connection{}, false
	}
	return e.conn.Click(n)
}

// ToggleConnectMode flips connect mode
func (e *Editor) ToggleConnectMode() bool {
	return e.conn.ToggleConnectMode()
}

// ToggleDeleteMode flips delete mode, forcing connect mode off when enabling
func (e *Editor) ToggleDeleteMode() bool {
	return e.conn.ToggleDeleteMode()
}

// ToggleLineStyle flips the style used for new connections
func (e *Editor) ToggleLineStyle() domain.LineStyle {
	return e.conn.ToggleStyle()
}

// MoveNode places a node at to without clamping
func (e *Editor) MoveNode(id string, to domain.Point) bool {
	return e.drag.MoveNode(id, to)
}

// MoveSelection translates the selected nodes as a group, all or nothing
func (e *Editor) MoveSelection(delta domain.Point) bool {
	return e.drag.MoveGroup(delta)
}

// DeleteNode removes a node and its connections
func (e *Editor) DeleteNode(id string) bool {
	_, ok := e.store.DeleteNode(id)
	return ok
}

// DeleteConnection removes a connection
func (e *Editor) DeleteConnection(id string) bool {
	return e.store.DeleteConnection(id)
}

// DeleteResult reports what DeleteSelection did
type DeleteResult struct {
	Nodes      int  `json:"nodes"`
	Connection bool `json:"connection"`
	Declined   bool `json:"declined"`
}

// DeleteSelection deletes the selected nodes, or the selected connection.
// Deleting two or more nodes asks the confirmer first; a refusal changes nothing.
func (e *Editor) DeleteSelection() DeleteResult {
	return e.DeleteSelectionWith(e.confirm)
}

// DeleteSelectionWith is DeleteSelection with an explicit confirmer
func (e *Editor) DeleteSelectionWith(confirm Confirmer) DeleteResult {
	ids := e.sel.Selected()
	switch {
	case len(ids) > 1:
		msg := fmt.Sprintf("Delete all %d selected nodes?", len(ids))
		if !confirm.Confirm(msg) {
			e.logger.Info("bulk delete declined", zap.Int("nodes", len(ids)))
			return DeleteResult{Declined: true}
		}
		var res DeleteResult
		for _, id := range ids {
			if e.DeleteNode(id) {
				res.Nodes++
			}
		}
		return res
	case len(ids) == 1:
		if e.DeleteNode(ids[0]) {
			return DeleteResult{Nodes: 1}
		}
	default:
		if id, ok := e.sel.Connection(); ok {
			return DeleteResult{Connection: e.DeleteConnection(id)}
		}
	}
	return DeleteResult{}
}

// BeginEdit starts editing a node label. Only one edit may be open.
func (e *Editor) BeginEdit(id string) bool {
	if e.editing != "" || !e.store.HasNode(id) {
		return false
	}
	e.editing = id
	return true
}

// Editing returns the node whose label is being edited
func (e *Editor) Editing() (string, bool) {
	return e.editing, e.editing != ""
}

// CommitEdit stores the trimmed text as the label; blank text restores the default label
func (e *Editor) CommitEdit(text string) bool {
	if e.editing == "" {
		return false
	}
	id := e.editing
	e.editing = ""

	label := strings.TrimSpace(text)
	if label == "" {
		label = domain.DefaultLabelFor(id)
	}
	return e.store.RelabelNode(id, label)
}

// CancelEdit closes the edit without changing the label
func (e *Editor) CancelEdit() {
	e.editing = ""
}

// Clear deletes every node and connection and resets modes. Ids keep counting.
func (e *Editor) Clear() {
	for _, n := range e.store.Nodes() {
		e.store.DeleteNode(n.ID)
	}
	e.sel.Clear()
	e.conn.Cancel()
	e.conn.ExitConnectMode()
	e.drag.Cancel()
	e.editing = ""
}

// Export returns the export snapshot
func (e *Editor) Export() *domain.Snapshot {
	return e.store.Export()
}

// NodeCount returns the number of nodes
func (e *Editor) NodeCount() int {
	return e.store.NodeCount()
}

// ConnectionCount returns the number of connections
func (e *Editor) ConnectionCount() int {
	return e.store.ConnectionCount()
}

// FindNode returns a node by id
func (e *Editor) FindNode(id string) (domain.Node, bool) {
	return e.store.FindNode(id)
}

// Nodes returns all nodes in creation order
func (e *Editor) Nodes() []domain.Node {
	return e.store.Nodes()
}

// Connections returns all connections in creation order
func (e *Editor) Connections() []domain.Connection {
	return e.store.Connections()
}

// RedrawPending reports whether a batched redraw is waiting for the next tick
func (e *Editor) RedrawPending() bool {
	return e.redraw.Pending()
}

func (e *Editor) logSelection() {
	if n := e.sel.Count(); n > 1 {
		e.logger.Debug("multi selection", zap.Int("nodes", n))
	}
}
