package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mindmap/internal/codec"
	"mindmap/internal/domain"
	"mindmap/internal/editor"
	"mindmap/internal/logging"
	"mindmap/internal/repository"
	"mindmap/internal/service"
)

// Session is the editor host the handlers drive
type Session interface {
	View(ctx context.Context) (editor.View, error)
	Handle(ctx context.Context, in editor.Input) (editor.Action, editor.View, error)
	Exec(ctx context.Context, name string, at *domain.Point) (any, error)
	DeleteSelection(ctx context.Context, confirm bool) (editor.DeleteResult, error)
	Export(ctx context.Context) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context) (repository.SnapshotInfo, bool, error)
	ListSnapshots(ctx context.Context) ([]repository.SnapshotInfo, error)
	GetSnapshot(ctx context.Context, id string) (*repository.Record, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// EditorHandler handles editor API requests. It logs through the
// request-scoped logger the Logger middleware stores in the context.
type EditorHandler struct {
	svc      Session
	validate *validator.Validate
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(svc Session) *EditorHandler {
	return &EditorHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// InputResponse reports the action an input produced and the resulting state
type InputResponse struct {
	Action editor.Action `json:"action"`
	State  editor.View   `json:"state"`
}

// pointRequest optionally positions a created node
type pointRequest struct {
	X *float64 `json:"x" validate:"required_with=Y"`
	Y *float64 `json:"y" validate:"required_with=X"`
}

// SnapshotResponse is returned when archiving a snapshot
type SnapshotResponse struct {
	repository.SnapshotInfo
	Created bool `json:"created"`
}

// GetState returns the editor summary
func (h *EditorHandler) GetState(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.View(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to get state", err)
		return
	}
	h.writeJSON(w, r, v, http.StatusOK)
}

// PostInput applies one input event
func (h *EditorHandler) PostInput(w http.ResponseWriter, r *http.Request) {
	var in editor.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		h.writeError(w, r, "Invalid input", err.Error(), http.StatusBadRequest)
		return
	}

	act, v, err := h.svc.Handle(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "Failed to handle input", err)
		return
	}
	h.writeJSON(w, r, InputResponse{Action: act, State: v}, http.StatusOK)
}

// PostCommand runs a toolbar command
func (h *EditorHandler) PostCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var at *domain.Point
	if r.ContentLength != 0 {
		var req pointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.writeError(w, r, "Invalid position", err.Error(), http.StatusBadRequest)
			return
		}
		if req.X != nil && req.Y != nil {
			at = &domain.Point{X: *req.X, Y: *req.Y}
		}
	}

	out, err := h.svc.Exec(r.Context(), name, at)
	if err != nil {
		h.writeServiceError(w, r, "Failed to run command", err)
		return
	}

	status := http.StatusOK
	if name == editor.CmdAddCircle || name == editor.CmdAddRect {
		status = http.StatusCreated
	}
	h.writeJSON(w, r, out, status)
}

// DeleteSelection deletes the current selection. The confirm query parameter
// answers the bulk-delete confirmation.
func (h *EditorHandler) DeleteSelection(w http.ResponseWriter, r *http.Request) {
	confirm := false
	if raw := r.URL.Query().Get("confirm"); raw != "" {
		var err error
		confirm, err = strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, "Invalid confirm parameter", err.Error(), http.StatusBadRequest)
			return
		}
	}

	res, err := h.svc.DeleteSelection(r.Context(), confirm)
	if err != nil {
		h.writeServiceError(w, r, "Failed to delete selection", err)
		return
	}
	h.writeJSON(w, r, res, http.StatusOK)
}

// Export writes the current diagram in the format named by the URL
func (h *EditorHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.Lookup(chi.URLParam(r, "format"))
	if err != nil {
		h.writeError(w, r, "Unsupported format", err.Error(), http.StatusNotFound)
		return
	}

	snap, err := h.svc.Export(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to export", err)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=mindmap.%s", c.Format()))
	if err := c.Export(snap, w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write export", zap.Error(err))
	}
}

// CreateSnapshot archives the current export
func (h *EditorHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	info, created, err := h.svc.SaveSnapshot(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to save snapshot", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, r, SnapshotResponse{SnapshotInfo: info, Created: created}, status)
}

// ListSnapshots returns archived snapshots, newest first
func (h *EditorHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListSnapshots(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "Failed to list snapshots", err)
		return
	}
	h.writeJSON(w, r, list, http.StatusOK)
}

// GetSnapshot returns one archived snapshot
func (h *EditorHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get snapshot", err)
		return
	}
	h.writeJSON(w, r, rec, http.StatusOK)
}

// DeleteSnapshot removes one archived snapshot
func (h *EditorHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSnapshot(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, "Failed to delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, editor.ErrUnknownCommand), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrClosed), errors.Is(err, service.ErrNoArchive):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *EditorHandler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error(msg, zap.Error(err))
	}
	h.writeError(w, r, msg, err.Error(), status)
}

func (h *EditorHandler) writeJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode JSON", zap.Error(err))
	}
}

func (h *EditorHandler) writeError(w http.ResponseWriter, r *http.Request, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode error response", zap.Error(err))
	}
}
