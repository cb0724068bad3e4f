// Package graph owns the live nodes and connections of a diagram.
//
// The store is pure CRUD with cascade rules: deleting a node first deletes
// every connection touching it, each deletion firing its own event, then
// removes the node. Connections are undirected; a second connection between
// the same pair of nodes, in either direction, is ignored.
//
// Store is not safe for concurrent use. Callers that share it between
// goroutines must funnel all access through a single owner.
package graph

import (
	"slices"

	"mindmap/internal/domain"
)

// Placer picks a position for a node created without coordinates
type Placer interface {
	Place(canvas domain.Canvas, occupied []domain.Point) domain.Point
}

// Store holds nodes and connections in insertion order
type Store struct {
	canvas domain.Canvas
	placer Placer

	nodes   map[string]*domain.Node
	order   []string
	conns   map[string]*domain.Connection
	corder  []string
	pairs   map[domain.Pair]string
	nodeSeq uint64
	connSeq uint64

	listeners []Listener
}

// NewStore creates an empty store for canvas
func NewStore(canvas domain.Canvas, placer Placer) *Store {
	return &Store{
		canvas: canvas,
		placer: placer,
		nodes:  make(map[string]*domain.Node),
		conns:  make(map[string]*domain.Connection),
		pairs:  make(map[domain.Pair]string),
	}
}

// Subscribe registers l for every subsequent mutation
func (s *Store) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Store) publish(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}

// Canvas returns the surface extent
func (s *Store) Canvas() domain.Canvas {
	return s.canvas
}

// CreateNode adds a node. A nil pos delegates to the placer; a given pos is used verbatim.
func (s *Store) CreateNode(kind domain.NodeKind, pos *domain.Point) domain.Node {
	var at domain.Point
	if pos != nil {
		at = *pos
	} else {
		at = s.placer.Place(s.canvas, s.Positions())
	}

	s.nodeSeq++
	node := domain.NewNode(s.nodeSeq, kind, at)
	s.nodes[node.ID] = node
	s.order = append(s.order, node.ID)

	s.publish(Event{Type: EventNodeCreated, Node: clone(node)})
	return *node
}

// FindNode returns the node with id
func (s *Store) FindNode(id string) (domain.Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is a live node
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns all nodes in creation order
func (s *Store) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Positions returns every node center in creation order
func (s *Store) Positions() []domain.Point {
	out := make([]domain.Point, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id].Center())
	}
	return out
}

// MoveNode sets a node's center. Unknown ids are ignored.
func (s *Store) MoveNode(id string, to domain.Point) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	n.X, n.Y = to.X, to.Y
	return true
}

// RelabelNode replaces a node's label
func (s *Store) RelabelNode(id, label string) bool {
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	n.Label = label
	s.publish(Event{Type: EventNodeRelabeled, Node: clone(n)})
	return true
}

// DeleteNode removes the node and, before it, every connection touching it.
// It returns the number of connections removed by the cascade.
func (s *Store) DeleteNode(id string) (cascaded int, ok bool) {
	n, ok := s.nodes[id]
	if !ok {
		return 0, false
	}

	for _, cid := range slices.Clone(s.corder) {
		if s.conns[cid].Touches(id) {
			s.DeleteConnection(cid)
			cascaded++
		}
	}

	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })

	s.publish(Event{Type: EventNodeDeleted, Node: n})
	return cascaded, true
}

// CreateConnection links two live, distinct nodes.
// Self-links, unknown endpoints and duplicates of an existing unordered pair are no-ops.
func (s *Store) CreateConnection(fromID, toID string, style domain.LineStyle) (domain.Connection, bool) {
	if fromID == toID || !s.HasNode(fromID) || !s.HasNode(toID) {
		return domain.Connection{}, false
	}

	pair := domain.NewPair(fromID, toID)
	if _, dup := s.pairs[pair]; dup {
		return domain.Connection{}, false
	}

	s.connSeq++
	conn := domain.NewConnection(s.connSeq, fromID, toID, style)
	s.conns[conn.ID] = conn
	s.corder = append(s.corder, conn.ID)
	s.pairs[pair] = conn.ID

	s.publish(Event{Type: EventConnectionCreated, Connection: cloneConn(conn)})
	return *conn, true
}

// FindConnection returns the connection with id
func (s *Store) FindConnection(id string) (domain.Connection, bool) {
	c, ok := s.conns[id]
	if !ok {
		return domain.Connection{}, false
	}
	return *c, true
}

// Connections returns all connections in creation order
func (s *Store) Connections() []domain.Connection {
	out := make([]domain.Connection, 0, len(s.corder))
	for _, id := range s.corder {
		out = append(out, *s.conns[id])
	}
	return out
}

// DeleteConnection removes a connection. Unknown ids are ignored.
func (s *Store) DeleteConnection(id string) bool {
	c, ok := s.conns[id]
	if !ok {
		return false
	}

	delete(s.conns, id)
	delete(s.pairs, c.Pair())
	s.corder = slices.DeleteFunc(s.corder, func(v string) bool { return v == id })

	s.publish(Event{Type: EventConnectionDeleted, Connection: c})
	return true
}

// NodeCount returns the number of live nodes
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// ConnectionCount returns the number of live connections
func (s *Store) ConnectionCount() int {
	return len(s.conns)
}

// Segments computes the current line of every connection from its endpoints
func (s *Store) Segments() []domain.Segment {
	out := make([]domain.Segment, 0, len(s.corder))
	for _, id := range s.corder {
		c := s.conns[id]
		from, okFrom := s.nodes[c.FromNodeID]
		to, okTo := s.nodes[c.ToNodeID]
		if !okFrom || !okTo {
			continue
		}
		out = append(out, domain.Segment{
			ConnectionID: c.ID,
			From:         from.Center(),
			To:           to.Center(),
			Style:        c.Style,
		})
	}
	return out
}

// Export builds the export snapshot in creation order
func (s *Store) Export() *domain.Snapshot {
	snap := domain.NewSnapshot()
	for _, n := range s.Nodes() {
		snap.AddNode(n)
	}
	for _, c := range s.Connections() {
		snap.AddConnection(c)
	}
	return snap
}

func clone(n *domain.Node) *domain.Node {
	cp := *n
	return &cp
}

func cloneConn(c *domain.Connection) *domain.Connection {
	cp := *c
	return &cp
}
