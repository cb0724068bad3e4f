package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/internal/domain"
)

var canvas800 = domain.Canvas{Width: 800, Height: 600}

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestPlaceEmptyCanvas(t *testing.T) {
	t.Run("centered grid puts first node at canvas center", func(t *testing.T) {
		e := New(seeded())
		assert.Equal(t, domain.Point{X: 400, Y: 300}, e.Place(canvas800, nil))
	})

	t.Run("margin grid uses margin-anchored cell centers", func(t *testing.T) {
		e := New(WithAlignment(AlignMargin), seeded())
		assert.Equal(t, domain.Point{X: 370, Y: 290}, e.Place(canvas800, nil))
	})

	t.Run("dimensions", func(t *testing.T) {
		cols, rows := New().Dimensions(canvas800)
		assert.Equal(t, 9, cols)
		assert.Equal(t, 7, rows)
	})
}

func TestFreeCellRingOrder(t *testing.T) {
	for _, align := range []Alignment{AlignCentered, AlignMargin} {
		t.Run(string(align), func(t *testing.T) {
			e := New(WithAlignment(align), seeded())

			occupied := []domain.Point{e.CellCenter(canvas800, Cell{Col: 4, Row: 3})}
			cell, ok := e.FreeCell(canvas800, occupied)
			require.True(t, ok)
			// ring 1 starts at dx=-1, dy=-1
			assert.Equal(t, Cell{Col: 3, Row: 2}, cell)

			occupied = append(occupied, e.CellCenter(canvas800, cell))
			cell, ok = e.FreeCell(canvas800, occupied)
			require.True(t, ok)
			assert.Equal(t, Cell{Col: 3, Row: 3}, cell)
		})
	}
}

func TestFreeCellSkipsOutOfBounds(t *testing.T) {
	e := New(seeded())
	small := domain.Canvas{Width: 200, Height: 120}

	cols, rows := e.Dimensions(small)
	require.Equal(t, 2, cols)
	require.Equal(t, 1, rows)

	occupied := []domain.Point{e.CellCenter(small, Cell{Col: 1, Row: 0})}
	cell, ok := e.FreeCell(small, occupied)
	require.True(t, ok)
	assert.Equal(t, Cell{Col: 0, Row: 0}, cell)
}

func TestPlaceDeterministic(t *testing.T) {
	e := New(seeded())
	occupied := []domain.Point{{X: 400, Y: 300}, {X: 120, Y: 60}, {X: 333, Y: 222}}

	first := e.Place(canvas800, occupied)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Place(canvas800, occupied))
	}
}

func TestPlaceNonCollision(t *testing.T) {
	for _, align := range []Alignment{AlignCentered, AlignMargin} {
		t.Run(string(align), func(t *testing.T) {
			e := New(WithAlignment(align), seeded())
			cols, rows := e.Dimensions(canvas800)

			var placed []domain.Point
			seen := make(map[Cell]bool)
			for i := 0; i < cols*rows; i++ {
				p := e.Place(canvas800, placed)
				cell := e.CellOf(canvas800, p)

				assert.False(t, seen[cell], "cell %v returned twice", cell)
				assert.True(t, cell.Col >= 0 && cell.Col < cols && cell.Row >= 0 && cell.Row < rows)
				seen[cell] = true
				placed = append(placed, p)
			}
			assert.Len(t, seen, cols*rows)

			_, ok := e.FreeCell(canvas800, placed)
			assert.False(t, ok, "grid should be exhausted")
		})
	}
}

func TestPlaceRandomFallback(t *testing.T) {
	e := New(seeded())
	small := domain.Canvas{Width: 200, Height: 120}
	full := []domain.Point{
		e.CellCenter(small, Cell{Col: 0, Row: 0}),
		e.CellCenter(small, Cell{Col: 1, Row: 0}),
	}

	for i := 0; i < 50; i++ {
		p := e.Place(small, full)
		assert.GreaterOrEqual(t, p.X, DefaultMargin)
		assert.LessOrEqual(t, p.X, small.Width-DefaultMargin)
		assert.GreaterOrEqual(t, p.Y, DefaultMargin)
		assert.LessOrEqual(t, p.Y, small.Height-DefaultMargin)
	}

	t.Run("canvas too small for a single cell", func(t *testing.T) {
		tiny := domain.Canvas{Width: 90, Height: 90}
		_, ok := e.FreeCell(tiny, nil)
		assert.False(t, ok)

		p := e.Place(tiny, nil)
		assert.True(t, p.X >= DefaultMargin && p.X <= tiny.Width-DefaultMargin)
	})
}

func TestCellOfCoarseRounding(t *testing.T) {
	e := New(WithAlignment(AlignMargin))
	// 50 is the center of cell 0; anything within half a cell rounds to it
	assert.Equal(t, Cell{Col: 0, Row: 0}, e.CellOf(canvas800, domain.Point{X: 50, Y: 50}))
	assert.Equal(t, Cell{Col: 0, Row: 0}, e.CellOf(canvas800, domain.Point{X: 89, Y: 11}))
	assert.Equal(t, Cell{Col: 1, Row: 0}, e.CellOf(canvas800, domain.Point{X: 91, Y: 50}))
}

func TestCellOfHalfBoundaryRoundsUp(t *testing.T) {
	e := New(WithAlignment(AlignMargin), seeded())
	one := domain.Canvas{Width: 120, Height: 120}

	cols, rows := e.Dimensions(one)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)

	// (10,10) is exactly half a cell before the center of cell 0
	assert.Equal(t, Cell{Col: 0, Row: 0}, e.CellOf(one, domain.Point{X: 10, Y: 10}))
	assert.Equal(t, Cell{Col: 1, Row: 0}, e.CellOf(canvas800, domain.Point{X: 90, Y: 50}))

	_, ok := e.FreeCell(one, []domain.Point{{X: 10, Y: 10}})
	assert.False(t, ok, "the only cell is occupied")
}
