package transform

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"tessella/internal/geom"
	"tessella/internal/patch"
)

// testImage builds a deterministic asymmetric pattern so that transforms
// produce visibly different buffers.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x*7 + y*13),
				G: uint8(x*3 ^ y*5),
				B: uint8((x + y) * 11),
				A: 255,
			})
		}
	}
	return img
}

// fullSample takes a patch covering the whole (square) image, so buffer
// coordinates coincide with image coordinates.
func fullSample(t *testing.T, img *image.RGBA) *patch.Sample {
	t.Helper()
	side := img.Bounds().Dx()
	half := float64(side) / 2
	s, ok := patch.Take(img, geom.Pt(half, half), side)
	require.True(t, ok)
	require.Equal(t, geom.Pt(0, 0), s.Origin)
	return s
}

// maxInteriorDiff compares two equally sized buffers, ignoring a margin of
// border pixels where resampling can pull in out-of-window content, and
// returns the largest per-channel difference found.
func maxInteriorDiff(a, b *image.RGBA, margin int) int {
	bounds := a.Bounds()
	max := 0
	for y := bounds.Min.Y + margin; y < bounds.Max.Y-margin; y++ {
		for x := bounds.Min.X + margin; x < bounds.Max.X-margin; x++ {
			ca, cb := a.RGBAAt(x, y), b.RGBAAt(x, y)
			for _, d := range []int{
				int(ca.R) - int(cb.R),
				int(ca.G) - int(cb.G),
				int(ca.B) - int(cb.B),
			} {
				if d < 0 {
					d = -d
				}
				if d > max {
					max = d
				}
			}
		}
	}
	return max
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	img := testImage(120, 120)
	s := fullSample(t, img)

	after := Rotate(s, 360, img)
	require.NotNil(t, after)
	if d := maxInteriorDiff(after, s.Buffer, 2); d > 2 {
		t.Fatalf("full turn changed interior pixels by up to %d", d)
	}
}

func TestRotateQuarterTurnMovesPixels(t *testing.T) {
	img := testImage(101, 101)
	s, ok := patch.Take(img, geom.Pt(50.5, 50.5), 101)
	require.True(t, ok)

	after := Rotate(s, 90, img)
	require.NotNil(t, after)

	// A 90 degree rotation about the center carries (80, 50) onto (50, 80)
	// in screen coordinates (y grows downward).
	got := after.RGBAAt(50, 80)
	want := img.RGBAAt(80, 50)
	for _, d := range []int{
		int(got.R) - int(want.R),
		int(got.G) - int(want.G),
		int(got.B) - int(want.B),
	} {
		if d < -3 || d > 3 {
			t.Fatalf("rotated pixel %v, want near %v", got, want)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	img := testImage(120, 120)
	s := fullSample(t, img)

	once := Rotate(s, 90, img)
	s2 := &patch.Sample{Buffer: once, Origin: s.Origin, RelativeFocus: s.RelativeFocus, Size: s.Size}
	back := Rotate(s2, 270, once)

	if d := maxInteriorDiff(back, s.Buffer, 4); d > 12 {
		t.Fatalf("rotate forward and back diverged by up to %d", d)
	}
}

func TestReflectInvolution(t *testing.T) {
	img := testImage(120, 120)
	s := fullSample(t, img)
	ln := geom.Ln(60, 0, 60, 120)

	once := Reflect(s, ln, img)
	s2 := &patch.Sample{Buffer: once, Origin: s.Origin, RelativeFocus: s.RelativeFocus, Size: s.Size}
	twice := Reflect(s2, ln, once)

	if d := maxInteriorDiff(twice, s.Buffer, 4); d > 12 {
		t.Fatalf("double reflection diverged by up to %d", d)
	}
}

func TestReflectVerticalAxis(t *testing.T) {
	img := testImage(100, 100)
	s := fullSample(t, img)

	after := Reflect(s, geom.Ln(50, 0, 50, 100), img)
	require.NotNil(t, after)

	// Pixel center 30.5 maps to 69.5 across the axis at x=50.
	got := after.RGBAAt(30, 40)
	want := img.RGBAAt(69, 40)
	for _, d := range []int{
		int(got.R) - int(want.R),
		int(got.G) - int(want.G),
		int(got.B) - int(want.B),
	} {
		if d < -3 || d > 3 {
			t.Fatalf("reflected pixel %v, want near %v", got, want)
		}
	}
}

func TestGlideZeroEqualsReflect(t *testing.T) {
	img := testImage(100, 100)
	s := fullSample(t, img)
	ln := geom.Ln(10, 20, 90, 75)

	reflected := Reflect(s, ln, img)
	glided := Glide(s, ln, 0, img)
	require.True(t, bytes.Equal(reflected.Pix, glided.Pix),
		"zero-distance glide must match plain reflection byte for byte")
}

func TestGlideSlidesAlongAxis(t *testing.T) {
	img := testImage(100, 100)
	s := fullSample(t, img)

	// Horizontal axis through y=50: pixel center 50.5 reflects to 49.5
	// and the glide slides the row right by 10 pixels.
	after := Glide(s, geom.Ln(0, 50, 100, 50), 10, img)
	got := after.RGBAAt(40, 50)
	want := img.RGBAAt(30, 49)
	for _, d := range []int{
		int(got.R) - int(want.R),
		int(got.G) - int(want.G),
		int(got.B) - int(want.B),
	} {
		if d < -3 || d > 3 {
			t.Fatalf("glided pixel %v, want near %v", got, want)
		}
	}
}

func TestDegenerateLineReturnsOriginal(t *testing.T) {
	img := testImage(80, 80)
	s := fullSample(t, img)
	ln := geom.Ln(40, 40, 40, 40)

	for _, after := range []*image.RGBA{
		Reflect(s, ln, img),
		Glide(s, ln, 25, img),
	} {
		require.NotNil(t, after)
		require.True(t, bytes.Equal(after.Pix, s.Buffer.Pix))
		// Must be a copy, not the live buffer.
		require.NotSame(t, s.Buffer, after)
	}
}

func TestNilInputs(t *testing.T) {
	img := testImage(50, 50)
	s := fullSample(t, img)
	if Rotate(nil, 90, img) != nil {
		t.Fatal("nil sample must yield nil")
	}
	if Reflect(s, geom.Ln(0, 0, 1, 1), nil) != nil {
		t.Fatal("nil image must yield nil")
	}
}
