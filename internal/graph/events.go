package graph

import "mindmap/internal/domain"

// EventType identifies a store mutation
type EventType string

const (
	EventNodeCreated       EventType = "node_created"
	EventNodeDeleted       EventType = "node_deleted"
	EventNodeRelabeled     EventType = "node_relabeled"
	EventConnectionCreated EventType = "connection_created"
	EventConnectionDeleted EventType = "connection_deleted"
)

// Event describes one mutation. Node or Connection is set according to Type.
type Event struct {
	Type       EventType          `json:"type"`
	Node       *domain.Node       `json:"node,omitempty"`
	Connection *domain.Connection `json:"connection,omitempty"`
}

// Listener receives events synchronously, in mutation order
type Listener func(Event)
