package domain

// Point is a canvas coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add translates p by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from q to p
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// RectFromCorners builds the normalized rectangle spanned by two opposite corners
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: min(a.X, b.X),
		Y: min(a.Y, b.Y),
		W: max(a.X, b.X) - min(a.X, b.X),
		H: max(a.Y, b.Y) - min(a.Y, b.Y),
	}
}

// IntersectsCircle reports whether the circle of radius r around c touches the rectangle.
// This is a bounding-box test: corners count as hits even when the circle misses them.
func (r Rect) IntersectsCircle(c Point, radius float64) bool {
	return c.X+radius >= r.X &&
		c.X-radius <= r.X+r.W &&
		c.Y+radius >= r.Y &&
		c.Y-radius <= r.Y+r.H
}

// Canvas is the drawing surface extent
type Canvas struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Contains reports whether p lies inside the canvas shrunk by inset on every side
func (c Canvas) Contains(p Point, inset float64) bool {
	return p.X >= inset &&
		p.X <= c.Width-inset &&
		p.Y >= inset &&
		p.Y <= c.Height-inset
}

// Segment is the rendered line of a connection between its endpoint centers
type Segment struct {
	ConnectionID string    `json:"id"`
	From         Point     `json:"from"`
	To           Point     `json:"to"`
	Style        LineStyle `json:"style"`
}
