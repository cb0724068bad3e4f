// Package drag moves nodes under the pointer.
//
// A single node moves freely. When two or more nodes are selected the whole
// group moves by the same delta, and only if every node stays within the
// canvas inset by the node radius; otherwise nothing moves for that update.
package drag

import "mindmap/internal/domain"

// NodeMover reads and writes node positions
type NodeMover interface {
	FindNode(id string) (domain.Node, bool)
	MoveNode(id string, to domain.Point) bool
	Canvas() domain.Canvas
}

// Selection lists the currently selected node ids
type Selection interface {
	Selected() []string
}

// Invalidator is told about every successful move
type Invalidator interface {
	MarkDirty()
}

// Coordinator applies pointer drags to nodes
type Coordinator struct {
	nodes  NodeMover
	sel    Selection
	redraw Invalidator
	radius float64

	active bool
	nodeID string
	offset domain.Point
	moved  bool
}

// New creates a drag coordinator
func New(nodes NodeMover, sel Selection, redraw Invalidator) *Coordinator {
	return &Coordinator{
		nodes:  nodes,
		sel:    sel,
		redraw: redraw,
		radius: domain.NodeRadius,
	}
}

// Begin starts dragging nodeID, grabbed at pointer
func (c *Coordinator) Begin(nodeID string, pointer domain.Point) bool {
	n, ok := c.nodes.FindNode(nodeID)
	if !ok {
		return false
	}
	c.active = true
	c.nodeID = nodeID
	c.offset = pointer.Sub(n.Center())
	c.moved = false
	return true
}

// Active reports whether a drag is in progress
func (c *Coordinator) Active() bool {
	return c.active
}

// NodeID returns the node under the pointer during a drag
func (c *Coordinator) NodeID() string {
	return c.nodeID
}

// Move drags toward pointer. It reports whether anything moved.
func (c *Coordinator) Move(pointer domain.Point) bool {
	if !c.active {
		return false
	}
	n, ok := c.nodes.FindNode(c.nodeID)
	if !ok {
		c.Cancel()
		return false
	}

	target := pointer.Sub(c.offset)
	c.moved = true

	if len(c.sel.Selected()) > 1 {
		return c.MoveGroup(target.Sub(n.Center()))
	}
	return c.MoveNode(c.nodeID, target)
}

// End finishes the drag and reports whether a move happened during it
func (c *Coordinator) End() bool {
	moved := c.active && c.moved
	c.Cancel()
	return moved
}

// Cancel drops the drag state without moving anything
func (c *Coordinator) Cancel() {
	c.active = false
	c.nodeID = ""
	c.offset = domain.Point{}
	c.moved = false
}

// ForgetNode cancels the drag if id is the grabbed node
func (c *Coordinator) ForgetNode(id string) {
	if c.nodeID == id {
		c.Cancel()
	}
}

// MoveNode places one node at to, without clamping
func (c *Coordinator) MoveNode(id string, to domain.Point) bool {
	if !c.nodes.MoveNode(id, to) {
		return false
	}
	c.redraw.MarkDirty()
	return true
}

// MoveGroup translates every selected node by delta, or none of them if any
// would leave the canvas inset by the node radius
func (c *Coordinator) MoveGroup(delta domain.Point) bool {
	ids := c.sel.Selected()
	canvas := c.nodes.Canvas()

	targets := make([]domain.Point, 0, len(ids))
	for _, id := range ids {
		n, ok := c.nodes.FindNode(id)
		if !ok {
			return false
		}
		to := n.Center().Add(delta)
		if !canvas.Contains(to, c.radius) {
			return false
		}
		targets = append(targets, to)
	}

	for i, id := range ids {
		c.nodes.MoveNode(id, targets[i])
	}
	if len(ids) > 0 {
		c.redraw.MarkDirty()
	}
	return len(ids) > 0
}
