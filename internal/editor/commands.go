package editor

import (
	"fmt"

	"mindmap/internal/domain"
)

// Command names accepted by Exec, matching the toolbar
const (
	CmdAddCircle       = "add-circle"
	CmdAddRect         = "add-rect"
	CmdToggleConnect   = "toggle-connect"
	CmdToggleDelete    = "toggle-delete"
	CmdToggleLineStyle = "toggle-line-style"
	CmdClear           = "clear"
)

// Exec runs a toolbar command. at is only used by the add commands.
func (e *Editor) Exec(name string, at *domain.Point) (any, error) {
	switch name {
	case CmdAddCircle:
		return e.AddNode(domain.NodeKindCircle, at), nil
	case CmdAddRect:
		return e.AddNode(domain.NodeKindRect, at), nil
	case CmdToggleConnect:
		return map[string]bool{"connect_mode": e.ToggleConnectMode()}, nil
	case CmdToggleDelete:
		return map[string]bool{"delete_mode": e.ToggleDeleteMode()}, nil
	case CmdToggleLineStyle:
		return map[string]domain.LineStyle{"line_style": e.ToggleLineStyle()}, nil
	case CmdClear:
		e.Clear()
		return map[string]int{"nodes": 0, "connections": 0}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}
