// Package transform renders the "after" buffers for symmetry proofs.
//
// Each operation conceptually applies its symmetry to the whole source plane
// and then resamples the result within a patch's window, producing a buffer
// the same size as the patch. Comparing that buffer against the untransformed
// patch is the visual check a proof rests on.
//
// All three operations are pure: they allocate a fresh buffer and never
// retain state or mutate the source image.
package transform

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"tessella/internal/geom"
	"tessella/internal/patch"
)

// Rotate renders the source image rotated by angleDeg degrees about the
// sample's focal point, cropped to the sample's window. A zero angle
// reproduces the patch itself up to resampling.
func Rotate(s *patch.Sample, angleDeg float64, img image.Image) *image.RGBA {
	if s == nil || img == nil {
		return nil
	}
	t := geom.RotateAbout(geom.Radians(angleDeg), s.Focus())
	return render(s, t, img)
}

// Reflect renders the source image reflected across the infinite line through
// ln's endpoints, cropped to the sample's window. A degenerate line has no
// defined axis; the sample's own pixels are returned unchanged.
func Reflect(s *patch.Sample, ln geom.Line, img image.Image) *image.RGBA {
	if s == nil || img == nil {
		return nil
	}
	if ln.Degenerate() {
		return clone(s.Buffer)
	}
	return render(s, geom.ReflectAcross(ln), img)
}

// Glide renders a glide reflection: reflect across ln, then slide distPx
// pixels along ln's direction. Glide with distPx == 0 is exactly Reflect.
func Glide(s *patch.Sample, ln geom.Line, distPx float64, img image.Image) *image.RGBA {
	if s == nil || img == nil {
		return nil
	}
	if ln.Degenerate() {
		return clone(s.Buffer)
	}
	return render(s, geom.GlideAcross(ln, distPx), img)
}

// render resamples the transformed plane into a patch-sized buffer. The
// symmetry transform t operates in image space; composing the window
// translation on the left yields the image-to-buffer mapping.
func render(s *patch.Sample, t geom.Affine, img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, s.Size, s.Size))
	m := geom.Translate(-s.Origin.X, -s.Origin.Y).Mul(t)
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
	xdraw.BiLinear.Transform(dst, aff, img, img.Bounds(), xdraw.Src, nil)
	return dst
}

func clone(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
