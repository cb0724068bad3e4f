package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmap/internal/domain"
)

type nodeList []domain.Node

func (l nodeList) Nodes() []domain.Node { return l }

func node(id string, x, y float64) domain.Node {
	return domain.Node{ID: id, Kind: domain.NodeKindCircle, X: x, Y: y, Width: 60, Height: 60}
}

func TestSelect(t *testing.T) {
	c := New(nodeList{})

	c.SelectConnection("conn_1")
	c.Select("node_1")
	_, hasConn := c.Connection()
	assert.False(t, hasConn, "selecting a node clears the connection")

	c.Select("node_2")
	assert.Equal(t, Single, c.State())
	primary, ok := c.Primary()
	require.True(t, ok)
	assert.Equal(t, "node_2", primary)

	c.SelectConnection("conn_1")
	assert.Equal(t, Empty, c.State())
	id, ok := c.Connection()
	assert.True(t, ok)
	assert.Equal(t, "conn_1", id)
}

func TestToggleTransitions(t *testing.T) {
	c := New(nodeList{})

	c.Toggle("a")
	assert.Equal(t, Single, c.State())
	c.Toggle("b")
	assert.Equal(t, Multi, c.State())
	_, ok := c.Primary()
	assert.False(t, ok, "no primary in multi")
	c.Toggle("c")
	assert.Equal(t, []string{"a", "b", "c"}, c.Selected())

	c.Toggle("b")
	assert.Equal(t, Multi, c.State())
	c.Toggle("a")
	assert.Equal(t, Single, c.State())
	primary, _ := c.Primary()
	assert.Equal(t, "c", primary)
	c.Toggle("c")
	assert.Equal(t, Empty, c.State())
}

func TestToggleInvolution(t *testing.T) {
	starts := map[string][]string{
		"empty":  nil,
		"single": {"a"},
		"multi":  {"a", "b", "c"},
	}

	for name, start := range starts {
		for _, target := range []string{"a", "b", "z"} {
			t.Run(name+"/"+target, func(t *testing.T) {
				c := New(nodeList{})
				for _, id := range start {
					c.Toggle(id)
				}
				before := c.Selected()
				stateBefore := c.State()

				c.Toggle(target)
				c.Toggle(target)

				assert.ElementsMatch(t, before, c.Selected())
				assert.Equal(t, stateBefore, c.State())
			})
		}
	}
}

func TestRubberBand(t *testing.T) {
	nodes := nodeList{
		node("n1", 100, 100),
		node("n2", 200, 100),
		node("n3", 500, 500),
	}

	t.Run("commits candidates on release replacing prior selection", func(t *testing.T) {
		c := New(nodes)
		c.Select("n3")

		c.BeginBand(domain.Point{X: 250, Y: 150})
		assert.True(t, c.Banding())
		got := c.UpdateBand(domain.Point{X: 50, Y: 50})
		assert.Equal(t, []string{"n1", "n2"}, got)
		assert.Equal(t, domain.Rect{X: 50, Y: 50, W: 200, H: 100}, c.Band())

		require.True(t, c.EndBand())
		assert.Equal(t, Multi, c.State())
		assert.Equal(t, []string{"n1", "n2"}, c.Selected())
		assert.False(t, c.Banding())
	})

	t.Run("candidates follow the pointer", func(t *testing.T) {
		c := New(nodes)
		c.BeginBand(domain.Point{X: 0, Y: 0})
		c.UpdateBand(domain.Point{X: 250, Y: 250})
		assert.Equal(t, []string{"n1", "n2"}, c.Candidates())
		c.UpdateBand(domain.Point{X: 120, Y: 120})
		assert.Equal(t, []string{"n1"}, c.Candidates())

		c.EndBand()
		assert.Equal(t, Single, c.State())
	})

	t.Run("bounding circle counts near misses", func(t *testing.T) {
		c := New(nodes)
		c.BeginBand(domain.Point{X: 130, Y: 0})
		c.UpdateBand(domain.Point{X: 170, Y: 40})
		// n1 at x=100 reaches 130; n2 at x=200 reaches 170; both rows reach y=70 > 40
		assert.Empty(t, c.Candidates())
		c.UpdateBand(domain.Point{X: 170, Y: 70})
		assert.Equal(t, []string{"n1", "n2"}, c.Candidates())
		c.EndBand()
	})

	t.Run("empty band clears selection", func(t *testing.T) {
		c := New(nodes)
		c.SelectConnection("conn_1")
		c.BeginBand(domain.Point{X: 700, Y: 10})
		c.UpdateBand(domain.Point{X: 750, Y: 20})
		c.EndBand()

		assert.Equal(t, Empty, c.State())
		_, ok := c.Connection()
		assert.False(t, ok)
	})

	t.Run("end without begin", func(t *testing.T) {
		c := New(nodes)
		c.Select("n1")
		assert.False(t, c.EndBand())
		assert.Nil(t, c.UpdateBand(domain.Point{}))
		assert.Equal(t, Single, c.State())
	})
}

func TestRemove(t *testing.T) {
	c := New(nodeList{})
	c.Toggle("a")
	c.Toggle("b")

	c.RemoveNode("a")
	assert.Equal(t, Single, c.State())
	primary, _ := c.Primary()
	assert.Equal(t, "b", primary)

	c.SelectConnection("conn_1")
	c.RemoveConnection("conn_2")
	_, ok := c.Connection()
	assert.True(t, ok)
	c.RemoveConnection("conn_1")
	_, ok = c.Connection()
	assert.False(t, ok)
}
