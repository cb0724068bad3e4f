package domain

// Snapshot is the export schema, the only persisted artifact
type Snapshot struct {
	Nodes       []SnapshotNode       `json:"nodes" yaml:"nodes"`
	Connections []SnapshotConnection `json:"connections" yaml:"connections"`
}

// SnapshotNode is a node as exported
type SnapshotNode struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeKind `json:"type" yaml:"type"`
	X    float64  `json:"x" yaml:"x"`
	Y    float64  `json:"y" yaml:"y"`
	Text string   `json:"text" yaml:"text"`
}

// SnapshotConnection is a connection as exported
type SnapshotConnection struct {
	ID    string    `json:"id" yaml:"id"`
	From  string    `json:"from" yaml:"from"`
	To    string    `json:"to" yaml:"to"`
	Style LineStyle `json:"style" yaml:"style"`
}

// NewSnapshot creates an empty snapshot with initialized collections
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Nodes:       make([]SnapshotNode, 0),
		Connections: make([]SnapshotConnection, 0),
	}
}

// AddNode appends a node in export form
func (s *Snapshot) AddNode(n Node) {
	s.Nodes = append(s.Nodes, SnapshotNode{
		ID:   n.ID,
		Type: n.Kind,
		X:    n.X,
		Y:    n.Y,
		Text: n.Label,
	})
}

// AddConnection appends a connection in export form
func (s *Snapshot) AddConnection(c Connection) {
	s.Connections = append(s.Connections, SnapshotConnection{
		ID:    c.ID,
		From:  c.FromNodeID,
		To:    c.ToNodeID,
		Style: c.Style,
	})
}
