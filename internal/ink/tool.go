package ink

import (
	"image/color"
	"math"
)

// Tool selects how strokes affect the surface.
type Tool int

const (
	// Pen paints opaque ink over existing pixels.
	Pen Tool = iota
	// Eraser clears pixels under the stroke.
	Eraser
)

// Stroke widths in surface pixels and the pen colour.
const (
	PenWidth    = 3.0
	EraserWidth = 18.0
)

// PenColor is the fixed ink colour.
var PenColor = color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}

func (t Tool) String() string {
	switch t {
	case Pen:
		return "pen"
	case Eraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// Width returns the stroke width of the tool.
func (t Tool) Width() float64 {
	if t == Eraser {
		return EraserWidth
	}
	return PenWidth
}

// ParseTool maps "pen" and "eraser" to a Tool.
func ParseTool(s string) (Tool, bool) {
	switch s {
	case "pen":
		return Pen, true
	case "eraser":
		return Eraser, true
	default:
		return Pen, false
	}
}

// Point is a pointer position in surface pixel coordinates.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// segment rasterizes the straight line a→b with round caps by stamping discs
// of the tool's width at sub-pixel steps.
func (s *Surface) segment(a, b Point, t Tool) {
	r := t.Width() / 2
	steps := max(1, int(math.Ceil(a.Dist(b)/0.5)))
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		s.disc(Point{X: a.X + (b.X-a.X)*f, Y: a.Y + (b.Y-a.Y)*f}, r, t)
	}
}

// disc sets every pixel whose centre lies within r of c.
func (s *Surface) disc(c Point, r float64, t Tool) {
	b := s.img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(c.X-r)))
	x1 := min(b.Max.X-1, int(math.Ceil(c.X+r)))
	y0 := max(b.Min.Y, int(math.Floor(c.Y-r)))
	y1 := min(b.Max.Y-1, int(math.Ceil(c.Y+r)))
	r2 := r * r
	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - c.Y
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - c.X
			if dx*dx+dy*dy > r2 {
				continue
			}
			if t == Eraser {
				s.img.SetNRGBA(x, y, color.NRGBA{})
			} else {
				s.img.SetNRGBA(x, y, PenColor)
			}
		}
	}
}
