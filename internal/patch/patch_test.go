package patch

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessella/internal/geom"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	return img
}

func TestTakeCentered(t *testing.T) {
	img := gradientImage(200, 200)
	s, ok := Take(img, geom.Pt(100, 100), 80)
	require.True(t, ok)
	assert.Equal(t, 80, s.Size)
	assert.Equal(t, geom.Pt(60, 60), s.Origin)
	assert.Equal(t, geom.Pt(40, 40), s.RelativeFocus)
	assert.Equal(t, geom.Pt(100, 100), s.Focus())
	assert.Equal(t, image.Rect(0, 0, 80, 80), s.Buffer.Bounds())

	// The crop must hold the source pixels at the shifted coordinates.
	assert.Equal(t, img.RGBAAt(60, 60), s.Buffer.RGBAAt(0, 0))
	assert.Equal(t, img.RGBAAt(100, 100), s.Buffer.RGBAAt(40, 40))
}

func TestTakeClampedAtCorner(t *testing.T) {
	img := gradientImage(200, 200)
	s, ok := Take(img, geom.Pt(5, 3), 80)
	require.True(t, ok)

	// The crop slides inside the image; the focus does not.
	assert.Equal(t, geom.Pt(0, 0), s.Origin)
	assert.Equal(t, geom.Pt(5, 3), s.RelativeFocus)
	assert.Equal(t, geom.Pt(5, 3), s.Focus())
}

func TestTakeClampedPerAxis(t *testing.T) {
	img := gradientImage(200, 120)
	s, ok := Take(img, geom.Pt(100, 115), 80)
	require.True(t, ok)

	// x is free to center, y is pinned to the bottom edge.
	assert.Equal(t, geom.Pt(60, 40), s.Origin)
	assert.Equal(t, geom.Pt(40, 75), s.RelativeFocus)
}

func TestTakeShrinksToImage(t *testing.T) {
	img := gradientImage(60, 200)
	s, ok := Take(img, geom.Pt(30, 100), 80)
	require.True(t, ok)
	assert.Equal(t, 60, s.Size, "patch side shrinks to the narrow dimension")
	assert.Equal(t, 0.0, s.Origin.X)
}

func TestTakeAlwaysInsideImage(t *testing.T) {
	img := gradientImage(100, 100)
	foci := []geom.Point{
		{X: -50, Y: -50}, {X: 0, Y: 0}, {X: 99, Y: 99},
		{X: 150, Y: 20}, {X: 50, Y: 500},
	}
	for _, f := range foci {
		s, ok := Take(img, f, 64)
		require.True(t, ok, "focus %v", f)
		assert.GreaterOrEqual(t, s.Origin.X, 0.0)
		assert.GreaterOrEqual(t, s.Origin.Y, 0.0)
		assert.LessOrEqual(t, s.Origin.X+float64(s.Size), 100.0)
		assert.LessOrEqual(t, s.Origin.Y+float64(s.Size), 100.0)
	}
}

func TestTakeInvalidInputs(t *testing.T) {
	if _, ok := Take(nil, geom.Pt(0, 0), 64); ok {
		t.Fatal("nil image must fail")
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, ok := Take(empty, geom.Pt(0, 0), 64); ok {
		t.Fatal("empty image must fail")
	}
	img := gradientImage(50, 50)
	if _, ok := Take(img, geom.Pt(25, 25), 0); ok {
		t.Fatal("zero size must fail")
	}
}
