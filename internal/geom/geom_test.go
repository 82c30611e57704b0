package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxPt(t *testing.T, got, want Point) {
	t.Helper()
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAffineApply(t *testing.T) {
	tests := []struct {
		name string
		tr   Affine
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -2), Pt(1, 1), Pt(11, -1)},
		{"rotate quarter", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"flip", FlipY(), Pt(2, 5), Pt(2, -5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			approxPt(t, tc.tr.Apply(tc.in), tc.want)
		})
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	// Translate after rotate: the rotation applies first.
	tr := Translate(10, 0).Mul(Rotate(math.Pi / 2))
	approxPt(t, tr.Apply(Pt(1, 0)), Pt(10, 1))
}

func TestInv(t *testing.T) {
	tr := Translate(3, -7).Mul(Rotate(0.83)).Mul(Translate(-1, 2))
	inv, ok := tr.Inv()
	if !ok {
		t.Fatal("transform should be invertible")
	}
	p := Pt(12.5, -4.25)
	approxPt(t, inv.Apply(tr.Apply(p)), p)
}

func TestInvSingular(t *testing.T) {
	if _, ok := (Affine{}).Inv(); ok {
		t.Fatal("zero transform must not be invertible")
	}
}

func TestRotateAboutFixesPivot(t *testing.T) {
	pivot := Pt(40, 25)
	tr := RotateAbout(1.234, pivot)
	approxPt(t, tr.Apply(pivot), pivot)
}

func TestReflectAcross(t *testing.T) {
	// Reflection across the vertical line x=5.
	ln := Ln(5, 0, 5, 10)
	tr := ReflectAcross(ln)
	approxPt(t, tr.Apply(Pt(7, 3)), Pt(3, 3))
	// Points on the axis are fixed.
	approxPt(t, tr.Apply(Pt(5, 8)), Pt(5, 8))
}

func TestReflectIsInvolution(t *testing.T) {
	ln := Ln(1, 2, 8, -3)
	twice := ReflectAcross(ln).Mul(ReflectAcross(ln))
	p := Pt(-4, 9)
	approxPt(t, twice.Apply(p), p)
}

func TestGlideAcross(t *testing.T) {
	// Glide along the x-axis: flip y, slide x.
	ln := Ln(0, 0, 10, 0)
	tr := GlideAcross(ln, 4)
	approxPt(t, tr.Apply(Pt(2, 3)), Pt(6, -3))
}

func TestGlideZeroDistanceEqualsReflect(t *testing.T) {
	ln := Ln(-2, 4, 7, 1)
	p := Pt(3, 3)
	approxPt(t, GlideAcross(ln, 0).Apply(p), ReflectAcross(ln).Apply(p))
}

func TestGlideTwiceIsTranslation(t *testing.T) {
	// Applying a glide twice translates by twice the slide along the axis.
	ln := Ln(0, 0, 1, 0)
	tr := GlideAcross(ln, 3)
	approxPt(t, tr.Apply(tr.Apply(Pt(1, 2))), Pt(7, 2))
}

func TestLineHelpers(t *testing.T) {
	ln := Ln(0, 0, 6, 8)
	approxPt(t, ln.Midpoint(), Pt(3, 4))
	if got := ln.Length(); math.Abs(got-10) > eps {
		t.Fatalf("length = %v, want 10", got)
	}
	if ln.Degenerate() {
		t.Fatal("non-degenerate line reported degenerate")
	}
	if !Ln(2, 2, 2, 2).Degenerate() {
		t.Fatal("degenerate line not detected")
	}
}
