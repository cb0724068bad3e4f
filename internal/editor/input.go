package editor

import "strings"

// EventKind is the kind of an input event
type EventKind string

const (
	PointerDown EventKind = "pointerdown"
	PointerMove EventKind = "pointermove"
	PointerUp   EventKind = "pointerup"
	Click       EventKind = "click"
	DoubleClick EventKind = "dblclick"
	ContextMenu EventKind = "contextmenu"
	KeyDown     EventKind = "keydown"
	EditCommit  EventKind = "editcommit"
	EditCancel  EventKind = "editcancel"
)

// TargetKind is what an input event hit
type TargetKind string

const (
	TargetNone       TargetKind = ""
	TargetCanvas     TargetKind = "canvas"
	TargetNode       TargetKind = "node"
	TargetConnection TargetKind = "connection"
)

// Input is one UI event, independent of any rendering surface
type Input struct {
	Kind   EventKind  `json:"kind" validate:"required,oneof=pointerdown pointermove pointerup click dblclick contextmenu keydown editcommit editcancel"`
	Target TargetKind `json:"target,omitempty" validate:"omitempty,oneof=canvas node connection"`
	ID     string     `json:"id,omitempty"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Ctrl   bool       `json:"ctrl,omitempty"`
	Key    string     `json:"key,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// Action is what the editor does in response to an input
type Action string

const (
	ActNone             Action = "none"
	ActSelectNode       Action = "select_node"
	ActToggleNode       Action = "toggle_node"
	ActBeginDrag        Action = "begin_drag"
	ActDragMove         Action = "drag_move"
	ActEndDrag          Action = "end_drag"
	ActConnectStep      Action = "connect_step"
	ActDeleteNode       Action = "delete_node"
	ActBeginEdit        Action = "begin_edit"
	ActCommitEdit       Action = "commit_edit"
	ActCancelEdit       Action = "cancel_edit"
	ActSelectConnection Action = "select_connection"
	ActBeginBand        Action = "begin_band"
	ActBandMove         Action = "band_move"
	ActEndBand          Action = "end_band"
	ActGuideMove        Action = "guide_move"
	ActClearSelection   Action = "clear_selection"
	ActExitConnectMode  Action = "exit_connect_mode"
	ActDeleteSelection  Action = "delete_selection"
	ActCreateCircle     Action = "create_circle"
	ActCreateRect       Action = "create_rect"
)

// State is the part of the editor that decides how an input is handled
type State struct {
	ConnectMode bool
	DeleteMode  bool
	Connecting  bool
	Dragging    bool
	Banding     bool
	Editing     bool
	// SuppressClick is set for the click that immediately follows the
	// pointer-up ending a node drag or a rubber band
	SuppressClick bool
}

// Classify maps the current state and an input to an action. It has no side effects.
func Classify(s State, in Input) Action {
	switch in.Kind {
	case PointerDown:
		switch in.Target {
		case TargetNode:
			switch {
			case s.ConnectMode:
				return ActNone
			case in.Ctrl:
				return ActToggleNode
			default:
				return ActBeginDrag
			}
		case TargetCanvas:
			if !s.ConnectMode && !s.Connecting {
				return ActBeginBand
			}
		}
		return ActNone

	case PointerMove:
		switch {
		case s.Dragging:
			return ActDragMove
		case s.Banding:
			return ActBandMove
		case s.Connecting:
			return ActGuideMove
		}
		return ActNone

	case PointerUp:
		switch {
		case s.Dragging:
			return ActEndDrag
		case s.Banding:
			return ActEndBand
		}
		return ActNone

	case Click:
		return classifyClick(s, in)

	case DoubleClick:
		if in.Target == TargetNode {
			return ActBeginEdit
		}
		return ActNone

	case ContextMenu:
		if in.Target == TargetNode {
			return ActDeleteNode
		}
		return ActNone

	case KeyDown:
		return classifyKey(s, in)

	case EditCommit:
		if s.Editing {
			return ActCommitEdit
		}
		return ActNone

	case EditCancel:
		if s.Editing {
			return ActCancelEdit
		}
		return ActNone
	}
	return ActNone
}

func classifyClick(s State, in Input) Action {
	switch in.Target {
	case TargetNode:
		switch {
		case s.SuppressClick:
			return ActNone
		case s.ConnectMode:
			return ActConnectStep
		case s.DeleteMode:
			return ActDeleteNode
		case in.Ctrl:
			return ActNone
		default:
			return ActSelectNode
		}
	case TargetConnection:
		return ActSelectConnection
	case TargetCanvas:
		switch {
		case s.ConnectMode:
			return ActExitConnectMode
		case s.SuppressClick:
			return ActNone
		default:
			return ActClearSelection
		}
	}
	return ActNone
}

func classifyKey(s State, in Input) Action {
	if s.Editing {
		return ActNone
	}
	switch in.Key {
	case "Delete", "Backspace":
		return ActDeleteSelection
	case "Escape":
		if s.ConnectMode {
			return ActExitConnectMode
		}
		return ActClearSelection
	}
	if in.Ctrl {
		switch strings.ToLower(in.Key) {
		case "c":
			return ActCreateCircle
		case "r":
			return ActCreateRect
		}
	}
	return ActNone
}
