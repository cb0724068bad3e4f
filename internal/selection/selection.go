// Package selection tracks which nodes or connection the user has selected.
//
// Node selection and connection selection are mutually exclusive. The node
// selection keeps insertion order and is Empty, Single (with a primary node)
// or Multi. A rubber-band drag marks candidates continuously and commits them
// on release, replacing the prior selection.
package selection

import (
	"slices"

	"mindmap/internal/domain"
)

// State is the shape of the node selection
type State int

const (
	Empty State = iota
	Single
	Multi
)

func (s State) String() string {
	switch s {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "empty"
	}
}

// NodeSource provides node geometry for hit-testing
type NodeSource interface {
	Nodes() []domain.Node
}

// Controller owns selection state
type Controller struct {
	nodes  NodeSource
	radius float64

	selected   []string
	connection string

	banding    bool
	origin     domain.Point
	band       domain.Rect
	candidates []string
}

// New creates a controller hit-testing against nodes
func New(nodes NodeSource) *Controller {
	return &Controller{
		nodes:  nodes,
		radius: domain.NodeRadius,
	}
}

// State reports Empty, Single or Multi
func (c *Controller) State() State {
	switch len(c.selected) {
	case 0:
		return Empty
	case 1:
		return Single
	default:
		return Multi
	}
}

// Selected returns the selected node ids in selection order
func (c *Controller) Selected() []string {
	return slices.Clone(c.selected)
}

// Count returns the number of selected nodes
func (c *Controller) Count() int {
	return len(c.selected)
}

// Contains reports whether id is selected
func (c *Controller) Contains(id string) bool {
	return slices.Contains(c.selected, id)
}

// Primary returns the single selected node, if exactly one is selected
func (c *Controller) Primary() (string, bool) {
	if len(c.selected) != 1 {
		return "", false
	}
	return c.selected[0], true
}

// Connection returns the selected connection, if any
func (c *Controller) Connection() (string, bool) {
	return c.connection, c.connection != ""
}

// Select makes id the only selected node and clears any connection selection
func (c *Controller) Select(id string) {
	c.connection = ""
	c.selected = []string{id}
}

// Toggle adds id to or removes it from the node selection.
// Applying it twice with nothing in between restores the previous set.
func (c *Controller) Toggle(id string) {
	c.connection = ""
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return
	}
	c.selected = append(c.selected, id)
}

// SelectConnection selects a connection and clears the node selection
func (c *Controller) SelectConnection(id string) {
	c.selected = nil
	c.connection = id
}

// Clear empties both node and connection selection
func (c *Controller) Clear() {
	c.selected = nil
	c.connection = ""
}

// RemoveNode drops a deleted node from every tracking structure
func (c *Controller) RemoveNode(id string) {
	c.selected = slices.DeleteFunc(c.selected, func(v string) bool { return v == id })
	c.candidates = slices.DeleteFunc(c.candidates, func(v string) bool { return v == id })
}

// RemoveConnection clears the connection selection if it is id
func (c *Controller) RemoveConnection(id string) {
	if c.connection == id {
		c.connection = ""
	}
}

// BeginBand starts a rubber-band drag at p
func (c *Controller) BeginBand(p domain.Point) {
	c.banding = true
	c.origin = p
	c.band = domain.Rect{X: p.X, Y: p.Y}
	c.candidates = nil
}

// Banding reports whether a rubber-band drag is active
func (c *Controller) Banding() bool {
	return c.banding
}

// Band returns the current rubber-band rectangle
func (c *Controller) Band() domain.Rect {
	return c.band
}

// Candidates returns the nodes the current band touches
func (c *Controller) Candidates() []string {
	return slices.Clone(c.candidates)
}

// UpdateBand recomputes the band rectangle from the origin to p and the
// nodes whose bounding circle intersects it
func (c *Controller) UpdateBand(p domain.Point) []string {
	if !c.banding {
		return nil
	}
	c.band = domain.RectFromCorners(c.origin, p)
	c.candidates = c.candidates[:0]
	for _, n := range c.nodes.Nodes() {
		if c.band.IntersectsCircle(n.Center(), c.radius) {
			c.candidates = append(c.candidates, n.ID)
		}
	}
	return c.Candidates()
}

// EndBand commits the candidates as the new selection and ends the drag.
// It reports whether a band was active.
func (c *Controller) EndBand() bool {
	if !c.banding {
		return false
	}
	c.Clear()
	if len(c.candidates) > 0 {
		c.selected = slices.Clone(c.candidates)
	}
	c.banding = false
	c.candidates = nil
	c.band = domain.Rect{}
	return true
}
