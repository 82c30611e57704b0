// Package patch extracts the square comparison windows used by proofs.
//
// A patch is a square crop of the source image centered (as far as image
// bounds allow) on a focal point: the rotation center or the midpoint of a
// mirror/glide axis. The transform engine renders its "after" buffer at the
// same window so the two can be compared side by side.
package patch

import (
	"image"
	"image/draw"
	"math"

	"tessella/internal/geom"
)

// Sample is one extracted patch.
type Sample struct {
	// Buffer holds the cropped pixels, Size x Size.
	Buffer *image.RGBA

	// Origin is the top-left of the crop in image coordinates.
	Origin geom.Point

	// RelativeFocus is the focal point expressed relative to Origin. It is
	// not clamped: when the crop itself was clamped at an image edge the
	// focus sits off-center, anywhere within [0, Size] on each axis.
	RelativeFocus geom.Point

	// Size is the square side actually used, possibly smaller than
	// requested when the image is narrower or shorter.
	Size int
}

// Focus returns the focal point in image coordinates.
func (s *Sample) Focus() geom.Point {
	return s.Origin.Add(s.RelativeFocus)
}

// Take crops a square patch of the requested size around focus. The crop is
// clamped to image bounds on each axis independently, so the returned sample
// always lies fully inside the image. Returns false if the image has zero
// width or height.
func Take(img image.Image, focus geom.Point, requested int) (*Sample, bool) {
	if img == nil {
		return nil, false
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || requested <= 0 {
		return nil, false
	}

	size := requested
	if w < size {
		size = w
	}
	if h < size {
		size = h
	}

	half := float64(size) / 2
	ox := math.Round(clamp(focus.X-half, 0, float64(w-size)))
	oy := math.Round(clamp(focus.Y-half, 0, float64(h-size)))
	origin := geom.Pt(ox, oy)

	buf := image.NewRGBA(image.Rect(0, 0, size, size))
	src := image.Pt(b.Min.X+int(ox), b.Min.Y+int(oy))
	draw.Draw(buf, buf.Bounds(), img, src, draw.Src)

	return &Sample{
		Buffer:        buf,
		Origin:        origin,
		RelativeFocus: focus.Sub(origin),
		Size:          size,
	}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
