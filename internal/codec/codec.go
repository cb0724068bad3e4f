// Package codec writes export snapshots as JSON or YAML.
//
// Each codec also parses what it writes. Parse validates the result against
// the snapshot schema; it exists so tests can check that an export reads back
// to the same diagram, not to load diagrams into the editor.
package codec

import (
	"errors"
	"fmt"
	"io"

	"mindmap/internal/domain"
)

// ErrUnknownFormat is returned by Lookup for a format with no codec
var ErrUnknownFormat = errors.New("unknown format")

// Importer reads an export snapshot from a wire format
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes an export snapshot to a wire format
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
	ContentType() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// Lookup returns the codec for format ("json" or "yaml")
func Lookup(format string) (Codec, error) {
	switch format {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// validate checks the invariants an export always satisfies: known node
// types and line styles, unique ids, and connections between distinct live nodes
func validate(snap *domain.Snapshot) error {
	nodes := make(map[string]struct{}, len(snap.Nodes))
	for _, n := range snap.Nodes {
		if n.ID == "" {
			return errors.New("node with empty id")
		}
		if !n.Type.Valid() {
			return fmt.Errorf("node %s: invalid type %q", n.ID, n.Type)
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}

	conns := make(map[string]struct{}, len(snap.Connections))
	pairs := make(map[domain.Pair]struct{}, len(snap.Connections))
	for _, c := range snap.Connections {
		if !c.Style.Valid() {
			return fmt.Errorf("connection %s: invalid style %q", c.ID, c.Style)
		}
		if c.From == c.To {
			return fmt.Errorf("connection %s: self link", c.ID)
		}
		for _, end := range []string{c.From, c.To} {
			if _, ok := nodes[end]; !ok {
				return fmt.Errorf("connection %s: unknown node %s", c.ID, end)
			}
		}
		if _, dup := conns[c.ID]; dup {
			return fmt.Errorf("duplicate connection id %s", c.ID)
		}
		conns[c.ID] = struct{}{}

		pair := domain.NewPair(c.From, c.To)
		if _, dup := pairs[pair]; dup {
			return fmt.Errorf("connection %s duplicates %s-%s", c.ID, c.From, c.To)
		}
		pairs[pair] = struct{}{}
	}
	return nil
}

func normalize(snap *domain.Snapshot) {
	if snap.Nodes == nil {
		snap.Nodes = make([]domain.SnapshotNode, 0)
	}
	if snap.Connections == nil {
		snap.Connections = make([]domain.SnapshotConnection, 0)
	}
}
