// Package ink implements the freehand annotation overlay drawn over catalog
// images.
//
// A Layer binds one Surface to one image identity (the image URL, used
// verbatim). Strokes are flattened into the raster as they are drawn; after
// every stroke the whole surface is serialized and written to the ink store
// under that identity, and binding the same identity again restores it.
// Drawing is best-effort: codec and store failures are logged at debug level
// and otherwise ignored.
package ink

import (
	"image"
	"io"

	"github.com/rs/zerolog"
)

// Store persists one serialized surface per image identity.
type Store interface {
	Get(identity string) (string, bool)
	Put(identity, dataURL string)
	Delete(identity string)
}

// Layer is the drawing state for one bound image.
type Layer struct {
	store  Store
	logger zerolog.Logger

	identity string
	surface  *Surface
	tool     Tool

	// Toolbar is the tool-button region in surface coordinates. Pointer
	// presses inside it never start a stroke.
	Toolbar image.Rectangle

	drawing bool
	last    Point
}

// NewLayer returns an unbound layer using store for persistence.
func NewLayer(store Store, logger zerolog.Logger) *Layer {
	return &Layer{
		store:   store,
		logger:  logger,
		surface: NewSurface(1, 1),
		tool:    Pen,
	}
}

// Bind attaches the layer to identity with a fresh w×h surface and restores
// any persisted ink for it. It runs on every render pass, so it always
// starts from the stored state rather than the previous surface.
func (l *Layer) Bind(identity string, w, h int) {
	l.identity = identity
	l.surface = NewSurface(w, h)
	l.drawing = false

	data, ok := l.store.Get(identity)
	if !ok {
		return
	}
	img, err := DecodeDataURL(data)
	if err != nil {
		l.logger.Debug().Err(err).Str("image", identity).Msg("restore ink")
		return
	}
	l.surface.Load(img).Apply()
}

// Relayout follows a change of the image's rendered box: snapshot, resize,
// then redraw the snapshot scaled into the new size.
func (l *Layer) Relayout(w, h int) {
	if cw, ch := l.surface.Size(); cw == max(1, w) && ch == max(1, h) {
		return
	}
	l.surface.Resize(w, h).Apply()
}

// Identity returns the bound image identity.
func (l *Layer) Identity() string { return l.identity }

// Surface returns the bound surface.
func (l *Layer) Surface() *Surface { return l.surface }

// Tool returns the active tool.
func (l *Layer) Tool() Tool { return l.tool }

// SetTool switches the active tool. A stroke in progress keeps drawing with
// the new tool.
func (l *Layer) SetTool(t Tool) { l.tool = t }

// Drawing reports whether a stroke is in progress.
func (l *Layer) Drawing() bool { return l.drawing }

// PointerDown starts a stroke at p. Presses outside the surface or inside
// the toolbar are ignored. It reports whether a stroke started.
func (l *Layer) PointerDown(p Point) bool {
	pt := image.Pt(int(p.X), int(p.Y))
	if p.X < 0 || p.Y < 0 || !pt.In(l.surface.Bounds()) || pt.In(l.Toolbar) {
		return false
	}
	l.drawing = true
	l.last = p
	return true
}

// PointerMove extends the current stroke with a straight segment to p.
func (l *Layer) PointerMove(p Point) {
	if !l.drawing {
		return
	}
	l.surface.segment(l.last, p, l.tool)
	l.last = p
}

// PointerUp ends the stroke and persists the whole surface.
func (l *Layer) PointerUp() {
	if !l.drawing {
		return
	}
	l.drawing = false
	l.Persist()
}

// Persist writes the current surface to the store under the bound identity.
func (l *Layer) Persist() {
	if l.identity == "" {
		return
	}
	data, err := EncodeDataURL(l.surface.img)
	if err != nil {
		l.logger.Debug().Err(err).Str("image", l.identity).Msg("persist ink")
		return
	}
	l.store.Put(l.identity, data)
}

// Clear blanks the surface and forgets the persisted ink, but only if
// confirm returns true. A nil confirm never clears. It reports whether the
// surface was cleared.
func (l *Layer) Clear(confirm func() bool) bool {
	if confirm == nil || !confirm() {
		return false
	}
	l.drawing = false
	l.surface.Clear()
	if l.identity != "" {
		l.store.Delete(l.identity)
	}
	return true
}

// Stroke draws a full polyline as one stroke: down at the first point,
// a segment to each following point, then up.
func (l *Layer) Stroke(points []Point) bool {
	if len(points) == 0 || !l.PointerDown(points[0]) {
		return false
	}
	for _, p := range points[1:] {
		l.PointerMove(p)
	}
	l.PointerUp()
	return true
}

// Export writes the surface as PNG.
func (l *Layer) Export(w io.Writer) error {
	return l.surface.WritePNG(w)
}
