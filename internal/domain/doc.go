// Package domain defines the core types of the mindmap diagram editor.
//
// # Core Types
//
// Node is a placed shape (circle or rect) identified by a never-reused id.
// Its X/Y coordinates are the shape center.
//
// Connection is an undirected, styled link between two node ids. Pair gives
// the order-independent endpoint key used to reject duplicate edges.
//
// Point, Rect and Canvas carry the geometry used by placement, rubber-band
// hit-testing and bounded group drags. Segment is the rendered projection of
// a connection between its endpoints' current centers.
//
// Snapshot is the export schema:
//
//	{ nodes: [{id, type, x, y, text}], connections: [{id, from, to, style}] }
//
// # Design Principles
//
// - No rendering, storage or transport dependencies
// - Value types; ownership of live entities belongs to the graph store
package domain
