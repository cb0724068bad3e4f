package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeKind represents the shape drawn for a node
type NodeKind string

const (
	NodeKindCircle NodeKind = "circle"
	NodeKindRect   NodeKind = "rect"
)

const (
	// NodeSize is the width and height of every new node
	NodeSize = 60.0
	// NodeRadius is the bounding circle radius used for hit-testing and group-drag bounds
	NodeRadius = NodeSize / 2

	nodeIDPrefix = "node_"
)

// Valid reports whether k is a known node kind
func (k NodeKind) Valid() bool {
	return k == NodeKindCircle || k == NodeKindRect
}

// Node represents a placed shape on the canvas. X and Y are the shape center.
type Node struct {
	ID     string   `json:"id"`
	Kind   NodeKind `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Label  string   `json:"text"`
}

// NewNode creates a node with the default size and the default label for seq
func NewNode(seq uint64, kind NodeKind, pos Point) *Node {
	return &Node{
		ID:     NodeID(seq),
		Kind:   kind,
		X:      pos.X,
		Y:      pos.Y,
		Width:  NodeSize,
		Height: NodeSize,
		Label:  DefaultLabel(seq),
	}
}

// Center returns the node position
func (n *Node) Center() Point {
	return Point{X: n.X, Y: n.Y}
}

// NodeID formats the id for the seq-th node
func NodeID(seq uint64) string {
	return nodeIDPrefix + strconv.FormatUint(seq, 10)
}

// DefaultLabel returns the label a node receives when created or when its label is cleared
func DefaultLabel(seq uint64) string {
	return fmt.Sprintf("Node %d", seq)
}

// DefaultLabelFor derives the default label from a node id such as "node_7".
// Ids without a numeric suffix fall back to the id itself.
func DefaultLabelFor(id string) string {
	seq, err := strconv.ParseUint(strings.TrimPrefix(id, nodeIDPrefix), 10, 64)
	if err != nil {
		return id
	}
	return DefaultLabel(seq)
}
