package ink

// EventType is the phase of a pointer event.
type EventType int

const (
	EventDown EventType = iota
	EventMove
	EventUp
	EventCancel
)

// MouseEvent is a mouse press, drag or release in surface coordinates.
type MouseEvent struct {
	Type EventType
	X, Y float64
}

// TouchEvent carries the active touch points; the first is primary.
type TouchEvent struct {
	Type    EventType
	Touches []Point
}

// Mouse feeds a mouse event into the stroke logic.
func (l *Layer) Mouse(ev MouseEvent) {
	l.pointer(ev.Type, Point{X: ev.X, Y: ev.Y}, true)
}

// Touch feeds a touch event into the same stroke logic as Mouse, using the
// primary touch point. End and cancel events usually carry no touches.
func (l *Layer) Touch(ev TouchEvent) {
	var p Point
	ok := len(ev.Touches) > 0
	if ok {
		p = ev.Touches[0]
	}
	l.pointer(ev.Type, p, ok)
}

func (l *Layer) pointer(t EventType, p Point, hasPoint bool) {
	switch t {
	case EventDown:
		if hasPoint {
			l.PointerDown(p)
		}
	case EventMove:
		if hasPoint {
			l.PointerMove(p)
		}
	case EventUp, EventCancel:
		l.PointerUp()
	}
}
