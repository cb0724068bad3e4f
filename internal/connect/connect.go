// Package connect holds the connect-mode state machine, delete mode and the
// line style applied to new connections.
//
// Within connect mode a node click moves Idle → Connecting(source); a second
// click on a different node asks the linker to create the connection, and any
// second click returns to Idle. Enabling delete mode forces connect mode off.
// Enabling connect mode leaves delete mode untouched.
package connect

import "mindmap/internal/domain"

// Linker creates connections; duplicates are silently ignored by the implementation
type Linker interface {
	CreateConnection(fromID, toID string, style domain.LineStyle) (domain.Connection, bool)
}

// Guide is the transient line drawn from the source node to the pointer
type Guide struct {
	From domain.Point `json:"from"`
	To   domain.Point `json:"to"`
}

// Controller owns connect mode, delete mode and line style
type Controller struct {
	linker Linker

	connectMode bool
	deleteMode  bool
	style       domain.LineStyle

	source string
	guide  Guide
}

// New creates a controller with both modes off and solid lines
func New(linker Linker) *Controller {
	return &Controller{
		linker: linker,
		style:  domain.LineStyleSolid,
	}
}

// ConnectMode reports whether connect mode is on
func (c *Controller) ConnectMode() bool {
	return c.connectMode
}

// DeleteMode reports whether delete mode is on
func (c *Controller) DeleteMode() bool {
	return c.deleteMode
}

// Style returns the style for new connections
func (c *Controller) Style() domain.LineStyle {
	return c.style
}

// ToggleStyle flips between solid and dashed. Existing connections keep their style.
func (c *Controller) ToggleStyle() domain.LineStyle {
	c.style = c.style.Toggle()
	return c.style
}

// SetStyle sets the style for new connections
func (c *Controller) SetStyle(style domain.LineStyle) {
	if style.Valid() {
		c.style = style
	}
}

// ToggleConnectMode flips connect mode. Either direction cancels an in-progress connection.
func (c *Controller) ToggleConnectMode() bool {
	c.connectMode = !c.connectMode
	c.Cancel()
	return c.connectMode
}

// ExitConnectMode turns connect mode off if it is on
func (c *Controller) ExitConnectMode() {
	if c.connectMode {
		c.ToggleConnectMode()
	}
}

// ToggleDeleteMode flips delete mode; turning it on forces connect mode off
func (c *Controller) ToggleDeleteMode() bool {
	c.deleteMode = !c.deleteMode
	if c.deleteMode {
		c.ExitConnectMode()
	}
	return c.deleteMode
}

// Connecting returns the source node while a connection is in progress
func (c *Controller) Connecting() (string, bool) {
	return c.source, c.source != ""
}

// Guide returns the transient guide line while connecting
func (c *Controller) Guide() (Guide, bool) {
	return c.guide, c.source != ""
}

// Click advances the state machine for a click on node. It returns the
// created connection, if the click completed a new one.
func (c *Controller) Click(node domain.Node) (domain.Connection, bool) {
	if !c.connectMode {
		return domain.Connection{}, false
	}

	if c.source == "" {
		c.source = node.ID
		c.guide = Guide{From: node.Center(), To: node.Center()}
		return domain.Connection{}, false
	}

	source := c.source
	c.Cancel()
	if source == node.ID {
		return domain.Connection{}, false
	}
	return c.linker.CreateConnection(source, node.ID, c.style)
}

// TrackPointer moves the guide line end while connecting
func (c *Controller) TrackPointer(p domain.Point) {
	if c.source != "" {
		c.guide.To = p
	}
}

// Cancel discards an in-progress connection and its guide
func (c *Controller) Cancel() {
	c.source = ""
	c.guide = Guide{}
}

// ForgetNode cancels the in-progress connection if id is its source
func (c *Controller) ForgetNode(id string) {
	if c.source == id {
		c.Cancel()
	}
}
