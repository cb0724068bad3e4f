// Package placement finds a free spot for a node created without coordinates.
//
// The canvas is divided into square cells of NodeSize+Margin. Existing nodes
// are rounded to the cell their center falls in; the search then walks square
// rings outward from the center cell and returns the first free cell. When
// every ring is exhausted it falls back to a random point, which may overlap.
package placement

import (
	"math"
	"math/rand/v2"

	"mindmap/internal/domain"
)

const (
	DefaultNodeSize = domain.NodeSize
	DefaultMargin   = 20.0
)

// Alignment selects where the cell grid is anchored on the canvas
type Alignment string

const (
	// AlignCentered centers the cols×rows grid on the canvas
	AlignCentered Alignment = "centered"
	// AlignMargin anchors the first cell at the margin, cell center m + g·gridSize + d/2
	AlignMargin Alignment = "margin"
)

// Cell is a grid coordinate
type Cell struct {
	Col, Row int
}

// Engine computes non-overlapping placements
type Engine struct {
	nodeSize  float64
	margin    float64
	alignment Alignment
	rnd       *rand.Rand
}

// Option configures an Engine
type Option func(*Engine)

// WithAlignment sets the grid alignment
func WithAlignment(a Alignment) Option {
	return func(e *Engine) {
		e.alignment = a
	}
}

// WithRand sets the source used by the random fallback
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = r
	}
}

// WithGeometry overrides node size and margin
func WithGeometry(nodeSize, margin float64) Option {
	return func(e *Engine) {
		e.nodeSize = nodeSize
		e.margin = margin
	}
}

// New creates a placement engine
func New(opts ...Option) *Engine {
	e := &Engine{
		nodeSize:  DefaultNodeSize,
		margin:    DefaultMargin,
		alignment: AlignCentered,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// grid describes the cell layout for one canvas
type grid struct {
	cols, rows       int
	size             float64
	originX, originY float64 // center of cell (0,0) minus half a cell
}

func (e *Engine) grid(canvas domain.Canvas) grid {
	g := grid{size: e.nodeSize + e.margin}
	g.cols = int(math.Floor((canvas.Width - 2*e.margin) / g.size))
	g.rows = int(math.Floor((canvas.Height - 2*e.margin) / g.size))

	switch e.alignment {
	case AlignMargin:
		g.originX = e.margin + e.nodeSize/2 - g.size/2
		g.originY = e.margin + e.nodeSize/2 - g.size/2
	default:
		g.originX = (canvas.Width - float64(g.cols)*g.size) / 2
		g.originY = (canvas.Height - float64(g.rows)*g.size) / 2
	}
	return g
}

func (g grid) center(c Cell) domain.Point {
	return domain.Point{
		X: g.originX + float64(c.Col)*g.size + g.size/2,
		Y: g.originY + float64(c.Row)*g.size + g.size/2,
	}
}

// cellOf rounds a position to its cell. Distinct positions may share a cell.
// Halves round toward +Inf, so a center on a boundary maps to the higher cell.
func (g grid) cellOf(p domain.Point) Cell {
	return Cell{
		Col: roundHalfUp((p.X - g.originX - g.size/2) / g.size),
		Row: roundHalfUp((p.Y - g.originY - g.size/2) / g.size),
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func (g grid) inBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.cols && c.Row >= 0 && c.Row < g.rows
}

// Dimensions returns the number of columns and rows on canvas
func (e *Engine) Dimensions(canvas domain.Canvas) (cols, rows int) {
	g := e.grid(canvas)
	return g.cols, g.rows
}

// CellOf returns the cell a position occupies on canvas
func (e *Engine) CellOf(canvas domain.Canvas, p domain.Point) Cell {
	return e.grid(canvas).cellOf(p)
}

// FreeCell runs the ring search and returns the first unoccupied in-bounds cell.
// It is a pure function of canvas and occupied.
func (e *Engine) FreeCell(canvas domain.Canvas, occupied []domain.Point) (Cell, bool) {
	g := e.grid(canvas)

	taken := make(map[Cell]struct{}, len(occupied))
	for _, p := range occupied {
		taken[g.cellOf(p)] = struct{}{}
	}

	free := func(c Cell) bool {
		if !g.inBounds(c) {
			return false
		}
		_, ok := taken[c]
		return !ok
	}

	center := Cell{Col: g.cols / 2, Row: g.rows / 2}
	for radius := 0; radius < max(g.cols, g.rows); radius++ {
		if radius == 0 {
			if free(center) {
				return center, true
			}
			continue
		}

		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				c := Cell{Col: center.Col + dx, Row: center.Row + dy}
				if free(c) {
					return c, true
				}
			}
		}
	}

	return Cell{}, false
}

// CellCenter returns the canvas coordinate of a cell's center
func (e *Engine) CellCenter(canvas domain.Canvas, c Cell) domain.Point {
	return e.grid(canvas).center(c)
}

// Place returns the position for a new node. If the grid is full the result
// is a uniformly random point in [m, W-m] × [m, H-m].
func (e *Engine) Place(canvas domain.Canvas, occupied []domain.Point) domain.Point {
	if c, ok := e.FreeCell(canvas, occupied); ok {
		return e.grid(canvas).center(c)
	}

	return domain.Point{
		X: e.margin + e.rnd.Float64()*(canvas.Width-2*e.margin),
		Y: e.margin + e.rnd.Float64()*(canvas.Height-2*e.margin),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
