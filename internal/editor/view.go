package editor

import (
	"mindmap/internal/connect"
	"mindmap/internal/domain"
)

// View is a read-only summary of editor state for clients
type View struct {
	ConnectMode bool             `json:"connect_mode"`
	DeleteMode  bool             `json:"delete_mode"`
	LineStyle   domain.LineStyle `json:"line_style"`

	Selection  string   `json:"selection"`
	Selected   []string `json:"selected"`
	Primary    string   `json:"primary,omitempty"`
	Connection string   `json:"connection,omitempty"`

	Connecting string         `json:"connecting,omitempty"`
	Guide      *connect.Guide `json:"guide,omitempty"`
	Band       *domain.Rect   `json:"band,omitempty"`
	Candidates []string       `json:"candidates,omitempty"`
	Editing    string         `json:"editing,omitempty"`

	NodeCount       int  `json:"node_count"`
	ConnectionCount int  `json:"connection_count"`
	RedrawPending   bool `json:"redraw_pending"`
}

// View summarises the current state
func (e *Editor) View() View {
	v := View{
		ConnectMode:     e.conn.ConnectMode(),
		DeleteMode:      e.conn.DeleteMode(),
		LineStyle:       e.conn.Style(),
		Selection:       e.sel.State().String(),
		Selected:        e.sel.Selected(),
		Editing:         e.editing,
		NodeCount:       e.store.NodeCount(),
		ConnectionCount: e.store.ConnectionCount(),
		RedrawPending:   e.redraw.Pending(),
	}
	if v.Selected == nil {
		v.Selected = []string{}
	}
	v.Primary, _ = e.sel.Primary()
	v.Connection, _ = e.sel.Connection()

	if src, ok := e.conn.Connecting(); ok {
		v.Connecting = src
		guide, _ := e.conn.Guide()
		v.Guide = &guide
	}
	if e.sel.Banding() {
		band := e.sel.Band()
		v.Band = &band
		v.Candidates = e.sel.Candidates()
	}
	return v
}
