package aim

import (
	"fmt"
	"math"
	"strings"
)

// Point is a pointer sample in the host's coordinate space.
type Point struct {
	X float64
	Y float64
}

// Rect is a menu container's bounding box.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// Direction is the side of the menu on which submenus open.
type Direction uint8

const (
	// DirectionRight opens submenus to the right of the menu.
	DirectionRight Direction = iota
	// DirectionLeft opens submenus to the left.
	DirectionLeft
	// DirectionAbove opens submenus above.
	DirectionAbove
	// DirectionBelow opens submenus below.
	DirectionBelow
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRight:
		return "right"
	case DirectionLeft:
		return "left"
	case DirectionAbove:
		return "above"
	case DirectionBelow:
		return "below"
	default:
		return "unknown"
	}
}

// ParseDirection parses "right", "left", "above" or "below".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "":
		return DirectionRight, nil
	case "left":
		return DirectionLeft, nil
	case "above":
		return DirectionAbove, nil
	case "below":
		return DirectionBelow, nil
	default:
		return DirectionRight, fmt.Errorf("%w: direction %q", ErrInvalidConfig, s)
	}
}

// Corners are the menu's corners with the top and bottom pushed out by the tolerance.
type Corners struct {
	UpperLeft  Point
	UpperRight Point
	LowerLeft  Point
	LowerRight Point
}

// PaddedCorners computes the four corners of bounds padded vertically by tolerance.
func PaddedCorners(bounds Rect, tolerance float64) Corners {
	upperLeft := Point{X: bounds.Left, Y: bounds.Top - tolerance}
	upperRight := Point{X: bounds.Right(), Y: upperLeft.Y}
	lowerLeft := Point{X: bounds.Left, Y: bounds.Bottom() + tolerance}
	lowerRight := Point{X: upperRight.X, Y: lowerLeft.Y}
	return Corners{
		UpperLeft:  upperLeft,
		UpperRight: upperRight,
		LowerLeft:  lowerLeft,
		LowerRight: lowerRight,
	}
}

// Contains reports whether p lies within the padded box.
func (c Corners) Contains(p Point) bool {
	return p.X >= c.UpperLeft.X && p.X <= c.LowerRight.X &&
		p.Y >= c.UpperLeft.Y && p.Y <= c.LowerRight.Y
}

// Rays returns the decreasing and increasing corners for a submenu direction.
// Together they bound the wedge a pointer heading for the submenu travels through.
func (c Corners) Rays(d Direction) (decreasing, increasing Point) {
	switch d {
	case DirectionLeft:
		return c.LowerLeft, c.UpperLeft
	case DirectionBelow:
		return c.LowerRight, c.LowerLeft
	case DirectionAbove:
		return c.UpperLeft, c.UpperRight
	default:
		return c.UpperRight, c.LowerRight
	}
}

// slope returns (b.Y-a.Y)/(b.X-a.X). A zero run yields ±Inf or NaN.
func slope(a, b Point) float64 {
	return (b.Y - a.Y) / (b.X - a.X)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Converging reports whether moving from prev to loc narrows the angle
// toward both rays of the submenu wedge. Any non-finite slope counts as
// not converging.
func Converging(c Corners, d Direction, prev, loc Point) bool {
	decreasing, increasing := c.Rays(d)

	decSlope := slope(loc, decreasing)
	incSlope := slope(loc, increasing)
	prevDecSlope := slope(prev, decreasing)
	prevIncSlope := slope(prev, increasing)

	if !finite(decSlope, incSlope, prevDecSlope, prevIncSlope) {
		return false
	}
	return decSlope < prevDecSlope && incSlope > prevIncSlope
}
