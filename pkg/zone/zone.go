package zone

import "math"

// BBox is an axis-aligned rectangle with a top-left origin.
type BBox struct {
	X      float64 `json:"x" yaml:"x" bson:"x"`                // Left
	Y      float64 `json:"y" yaml:"y" bson:"y"`                // Top
	Width  float64 `json:"width" yaml:"width" bson:"width"`    // Extent along X
	Height float64 `json:"height" yaml:"height" bson:"height"` // Extent along Y
}

// NewBBoxFromCorners builds a box from [x1, y1, x2, y2] corner coordinates,
// the format produced by layout detectors.
func NewBBoxFromCorners(x1, y1, x2, y2 float64) BBox {
	left, right := math.Min(x1, x2), math.Max(x1, x2)
	top, bottom := math.Min(y1, y2), math.Max(y1, y2)
	return BBox{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 { return b.X + b.Width }

// Top returns the top edge Y coordinate.
func (b BBox) Top() float64 { return b.Y }

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 { return b.Y + b.Height }

// CenterY returns the vertical midpoint.
func (b BBox) CenterY() float64 { return b.Y + b.Height/2 }

// Area returns the area of the box.
func (b BBox) Area() float64 { return b.Width * b.Height }

// XOverlap returns the length of the intersection of both boxes' x-extents,
// or 0 when they do not overlap horizontally.
func (b BBox) XOverlap(o BBox) float64 {
	return math.Max(0, math.Min(b.Right(), o.Right())-math.Max(b.Left(), o.Left()))
}

// YOverlap returns the length of the intersection of both boxes' y-extents,
// or 0 when they do not overlap vertically.
func (b BBox) YOverlap(o BBox) float64 {
	return math.Max(0, math.Min(b.Bottom(), o.Bottom())-math.Max(b.Top(), o.Top()))
}

// CornerDistance returns the Euclidean distance between the top-left
// corners of both boxes.
func (b BBox) CornerDistance(o BBox) float64 {
	return math.Hypot(b.X-o.X, b.Y-o.Y)
}

// Scale multiplies every coordinate by the given factors. It converts
// percentage boxes into pixels (sx = width/100, sy = height/100).
func (b BBox) Scale(sx, sy float64) BBox {
	return BBox{X: b.X * sx, Y: b.Y * sy, Width: b.Width * sx, Height: b.Height * sy}
}

// Zone is a labeled rectangular region of a page.
//
// ID is unique within a page and stable across the reading-order and
// clustering algorithms. It is supplied by the caller (detector block
// index, annotation element id).
type Zone struct {
	ID    string `json:"id" yaml:"id" bson:"id"`
	BBox  BBox   `json:"bbox" yaml:"bbox" bson:"bbox"`
	Label Label  `json:"label" yaml:"label" bson:"label"`
}

// New returns a zone with the given geometry.
func New(id string, x, y, width, height float64, label Label) Zone {
	return Zone{ID: id, BBox: BBox{X: x, Y: y, Width: width, Height: height}, Label: label}
}

// IDs extracts the ID of each zone, preserving order.
func IDs(zones []Zone) []string {
	ids := make([]string, len(zones))
	for i, z := range zones {
		ids[i] = z.ID
	}
	return ids
}

// Boxes extracts the bounding box of each zone, preserving order.
func Boxes(zones []Zone) []BBox {
	boxes := make([]BBox, len(zones))
	for i, z := range zones {
		boxes[i] = z.BBox
	}
	return boxes
}

// Index maps each zone ID to its position in zones.
func Index(zones []Zone) map[string]int {
	m := make(map[string]int, len(zones))
	for i, z := range zones {
		m[z.ID] = i
	}
	return m
}
