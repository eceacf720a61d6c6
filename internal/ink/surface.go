package ink

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Surface is a transparent raster laid over one displayed image. Its pixel
// size follows the image's rendered box.
//
// Resizing clears the pixels, so Resize snapshots first and hands back a
// Restore that draws the snapshot into the new size. Only the restore of the
// most recent resize applies; an older one is dropped and its snapshot is
// carried forward by the newer resize, so ink is never lost to reordering.
type Surface struct {
	img     *image.NRGBA
	gen     uint64
	pending image.Image
}

// NewSurface returns a blank w×h surface. Non-positive sizes become 1.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, max(1, w), max(1, h)))}
}

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Size returns the width and height in pixels.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.NRGBA {
	cp := image.NewNRGBA(s.img.Bounds())
	copy(cp.Pix, s.img.Pix)
	return cp
}

// At returns the colour of one pixel.
func (s *Surface) At(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// Blank reports whether every pixel is fully transparent.
func (s *Surface) Blank() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Clear makes every pixel transparent and drops any pending restore.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.pending = nil
}

// Restore is the deferred second half of a resize.
type Restore struct {
	s   *Surface
	gen uint64
}

// Resize snapshots the surface, resizes it (clearing its pixels) and returns
// the Restore that redraws the snapshot. Callers may Apply immediately or
// after an asynchronous step; a Restore superseded by a later Resize does
// nothing.
func (s *Surface) Resize(w, h int) *Restore {
	var snap image.Image
	switch {
	case s.pending != nil && !s.Blank():
		// Ink drawn while a restore was still pending goes on top of it.
		merged := &Surface{img: image.NewNRGBA(s.img.Bounds())}
		merged.draw(s.pending)
		merged.draw(s.img)
		snap = merged.img
	case s.pending != nil:
		snap = s.pending
	case !s.Blank():
		snap = s.img
	}
	s.gen++
	s.img = image.NewNRGBA(image.Rect(0, 0, max(1, w), max(1, h)))
	s.pending = snap
	return &Restore{s: s, gen: s.gen}
}

// Load schedules img to be drawn scaled into the surface and returns the
// Restore that performs it. It is how persisted ink reaches a freshly bound
// surface.
func (s *Surface) Load(img image.Image) *Restore {
	s.gen++
	s.pending = img
	return &Restore{s: s, gen: s.gen}
}

// Apply draws the pending snapshot into the surface. It reports whether it
// drew anything; a superseded or already applied Restore returns false.
func (r *Restore) Apply() bool {
	if r == nil || r.gen != r.s.gen || r.s.pending == nil {
		return false
	}
	r.s.draw(r.s.pending)
	r.s.pending = nil
	return true
}

// draw composites src over the surface, scaling it to the surface size.
// Equal sizes copy pixels exactly.
func (s *Surface) draw(src image.Image) {
	op := xdraw.Over
	if s.Blank() {
		op = xdraw.Src
	}
	sb := src.Bounds()
	db := s.img.Bounds()
	if sb.Dx() == db.Dx() && sb.Dy() == db.Dy() {
		xdraw.Draw(s.img, db, src, sb.Min, op)
		return
	}
	xdraw.BiLinear.Scale(s.img, db, src, sb, op, nil)
}
