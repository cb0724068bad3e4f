// Package handler implements the HTTP API for the diagram editor.
//
// # Routes
//
//	GET    /api/state               editor summary
//	POST   /api/input               one input event
//	POST   /api/commands/{name}     toolbar command, optional {x, y} body
//	DELETE /api/selection?confirm=  delete the selection
//	GET    /api/export/{format}     json or yaml export
//	POST   /api/snapshots           archive the current export
//	GET    /api/snapshots           list archived snapshots
//	GET    /api/snapshots/{id}      one archived snapshot
//	DELETE /api/snapshots/{id}      remove an archived snapshot
//	GET    /events                  Server-Sent Events
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201, 204).
// Error responses return JSON with {error, details} structure.
package handler
