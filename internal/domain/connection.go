package domain

import "strconv"

// LineStyle represents how a connection line is stroked
type LineStyle string

const (
	LineStyleSolid  LineStyle = "solid"
	LineStyleDashed LineStyle = "dashed"
)

const connectionIDPrefix = "conn_"

// Toggle returns the other style
func (s LineStyle) Toggle() LineStyle {
	if s == LineStyleDashed {
		return LineStyleSolid
	}
	return LineStyleDashed
}

// Valid reports whether s is a known line style
func (s LineStyle) Valid() bool {
	return s == LineStyleSolid || s == LineStyleDashed
}

// Connection is an undirected, styled link between two node ids
type Connection struct {
	ID         string    `json:"id"`
	FromNodeID string    `json:"from"`
	ToNodeID   string    `json:"to"`
	Style      LineStyle `json:"style"`
}

// NewConnection creates a connection for the seq-th connection id
func NewConnection(seq uint64, fromID, toID string, style LineStyle) *Connection {
	return &Connection{
		ID:         ConnectionID(seq),
		FromNodeID: fromID,
		ToNodeID:   toID,
		Style:      style,
	}
}

// ConnectionID formats the id for the seq-th connection
func ConnectionID(seq uint64) string {
	return connectionIDPrefix + strconv.FormatUint(seq, 10)
}

// Pair returns the unordered endpoint pair of the connection
func (c *Connection) Pair() Pair {
	return NewPair(c.FromNodeID, c.ToNodeID)
}

// Touches reports whether either endpoint is nodeID
func (c *Connection) Touches(nodeID string) bool {
	return c.FromNodeID == nodeID || c.ToNodeID == nodeID
}

// Pair is an unordered pair of node ids. A→B and B→A produce the same Pair.
type Pair struct {
	A, B string
}

// NewPair normalizes endpoints so the pair is order-independent
func NewPair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}
