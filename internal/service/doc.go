// Package service hosts the editor for concurrent clients.
//
// # Session
//
// Session owns one editor.Editor on a dedicated goroutine. HTTP handlers and
// other callers submit closures through Do and wait for the result, so every
// mutation is applied in arrival order and the editor itself needs no locks.
//
// Batched redraws are driven by a timer: the editor asks for a frame, the
// timer fires after the configured interval and posts the recomputation back
// onto the session goroutine.
//
// # Event System
//
// Store mutations, recomputed connection lines, state summaries and archive
// writes are published on the EventBus for real-time delivery to clients via
// Server-Sent Events (SSE).
package service
