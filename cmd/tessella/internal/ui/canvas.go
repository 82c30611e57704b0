package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"tessella/cmd/tessella/internal/theme"
	"tessella/internal/geom"
	"tessella/internal/proof"
	"tessella/internal/session"
)

// grabRadius is the hit radius, in display pixels, for endpoint and corner
// handles.
const grabRadius = 14

// dragTarget identifies what a pointer drag is moving.
type dragTarget int

const (
	dragNone dragTarget = iota
	dragCenter
	dragLineNew
	dragLineStart
	dragLineEnd
	dragCellCorner
)

// Canvas displays the pattern image and translates pointer gestures into
// image-space proof input: a click or drag places the rotation center, a
// drag draws a mirror/glide axis, and existing axis endpoints and unit-cell
// corners can be grabbed and moved.
type Canvas struct {
	theme *theme.Theme
	sess  *session.Session

	// View transform of the current frame.
	scale   float64
	offset  f32.Point
	imgSize image.Point

	// Cached paint op for the raster.
	imgOp  paint.ImageOp
	imgSrc image.Image

	drag     dragTarget
	anchor   geom.Point // fixed endpoint while dragging the other
	cellIdx  int
}

// NewCanvas creates the canvas bound to a session.
func NewCanvas(t *theme.Theme, s *session.Session) *Canvas {
	return &Canvas{theme: t, sess: s}
}

// InvalidateImage drops the cached image op after the raster was reloaded.
func (c *Canvas) InvalidateImage() {
	c.imgSrc = nil
}

// Layout renders the canvas and processes pointer input.
func (c *Canvas) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	defer clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, c.theme.Palette.Surface)

	ras := c.sess.Raster()
	if !ras.Usable() {
		return layout.Dimensions{Size: size}
	}

	c.updateView(size, ras.Width(), ras.Height())
	c.handlePointer(gtx)
	c.drawImage(gtx, ras.Pix)
	c.drawOverlays(gtx)

	event.Op(gtx.Ops, c)
	return layout.Dimensions{Size: size}
}

// updateView fits the image into the canvas, centered.
func (c *Canvas) updateView(size image.Point, imgW, imgH int) {
	c.imgSize = image.Pt(imgW, imgH)
	sx := float64(size.X) / float64(imgW)
	sy := float64(size.Y) / float64(imgH)
	c.scale = math.Min(sx, sy)
	c.offset = f32.Pt(
		float32((float64(size.X)-c.scale*float64(imgW))/2),
		float32((float64(size.Y)-c.scale*float64(imgH))/2),
	)
}

// toImage converts a display position to image coordinates.
func (c *Canvas) toImage(p f32.Point) geom.Point {
	return geom.Pt(
		(float64(p.X)-float64(c.offset.X))/c.scale,
		(float64(p.Y)-float64(c.offset.Y))/c.scale,
	)
}

// toDisplay converts an image-space point to display coordinates.
func (c *Canvas) toDisplay(p geom.Point) f32.Point {
	return f32.Pt(
		float32(p.X*c.scale)+c.offset.X,
		float32(p.Y*c.scale)+c.offset.Y,
	)
}

func (c *Canvas) handlePointer(gtx layout.Context) {
	for {
		e, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := e.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			c.startDrag(pe.Position)
		case pointer.Drag:
			c.moveDrag(pe.Position, false)
		case pointer.Release:
			c.moveDrag(pe.Position, true)
			c.drag = dragNone
		case pointer.Cancel:
			c.drag = dragNone
		}
	}
}

// startDrag hit-tests handles before starting a fresh gesture: unit-cell
// corners first, then axis endpoints, then the variant's default action.
func (c *Canvas) startDrag(pos f32.Point) {
	if c.sess.ShowUnitCell() {
		if i, ok := c.hitCellCorner(pos); ok {
			c.drag = dragCellCorner
			c.cellIdx = i
			c.moveDrag(pos, false)
			return
		}
	}

	switch st := c.sess.Proof().(type) {
	case *proof.Rotation:
		c.drag = dragCenter
		c.moveDrag(pos, false)
	case *proof.Mirror:
		c.startLineDrag(pos, st.Axis)
	case *proof.Glide:
		c.startLineDrag(pos, st.Axis)
	}
}

func (c *Canvas) startLineDrag(pos f32.Point, axis *geom.Line) {
	if axis != nil {
		if near(pos, c.toDisplay(axis.Start())) {
			c.drag = dragLineStart
			c.anchor = axis.End()
			return
		}
		if near(pos, c.toDisplay(axis.End())) {
			c.drag = dragLineEnd
			c.anchor = axis.Start()
			return
		}
	}
	c.drag = dragLineNew
	c.anchor = c.toImage(pos)
}

func (c *Canvas) moveDrag(pos f32.Point, final bool) {
	pt := c.toImage(pos)
	kind := c.sess.Proof().Kind()
	switch c.drag {
	case dragCenter:
		c.sess.SupplyRotationPoint(pt)
	case dragLineNew, dragLineEnd:
		c.sess.SupplyLine(geom.Ln(c.anchor.X, c.anchor.Y, pt.X, pt.Y), kind, final)
	case dragLineStart:
		// Keep the direction: the dragged point stays the first endpoint.
		c.sess.SupplyLine(geom.Ln(pt.X, pt.Y, c.anchor.X, c.anchor.Y), kind, final)
	case dragCellCorner:
		c.sess.SetUnitCellCorner(c.cellIdx, geom.Pt(
			pt.X/float64(c.imgSize.X),
			pt.Y/float64(c.imgSize.Y),
		))
	}
}

func (c *Canvas) hitCellCorner(pos f32.Point) (int, bool) {
	for i, corner := range c.sess.UnitCell().Corners() {
		d := c.toDisplay(c.denormalize(corner))
		if near(pos, d) {
			return i, true
		}
	}
	return 0, false
}

func (c *Canvas) denormalize(p geom.Point) geom.Point {
	return geom.Pt(p.X*float64(c.imgSize.X), p.Y*float64(c.imgSize.Y))
}

func near(a, b f32.Point) bool {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx+dy*dy) <= grabRadius
}

func (c *Canvas) drawImage(gtx layout.Context, img image.Image) {
	if c.imgSrc != img {
		c.imgOp = paint.NewImageOp(img)
		c.imgSrc = img
	}
	defer op.Affine(f32.Affine2D{}.
		Scale(f32.Point{}, f32.Pt(float32(c.scale), float32(c.scale))).
		Offset(c.offset)).Push(gtx.Ops).Pop()
	c.imgOp.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

func (c *Canvas) drawOverlays(gtx layout.Context) {
	pal := c.theme.Palette

	if c.sess.ShowUnitCell() {
		corners := c.sess.UnitCell().Corners()
		var pts [4]f32.Point
		for i, p := range corners {
			pts[i] = c.toDisplay(c.denormalize(p))
		}
		strokePolygon(gtx.Ops, pts[:], 1.5, pal.UnitCell)
		for _, p := range pts {
			fillCircle(gtx.Ops, p, 5, pal.UnitCell)
		}
	}

	st := c.sess.Proof()
	if s := st.Sample(); s != nil {
		tl := c.toDisplay(s.Origin)
		side := float32(float64(s.Size) * c.scale)
		strokeRect(gtx.Ops, tl, side, 1.5, pal.PatchFrame)
	}

	switch st := st.(type) {
	case *proof.Rotation:
		if st.Center != nil {
			fillCircle(gtx.Ops, c.toDisplay(*st.Center), 6, pal.RotationMark)
		}
	case *proof.Mirror:
		if st.Axis != nil {
			c.drawAxis(gtx, *st.Axis, pal.MirrorAxis)
		}
	case *proof.Glide:
		if st.Axis != nil {
			c.drawAxis(gtx, *st.Axis, pal.GlideAxis)
		}
	}
}

func (c *Canvas) drawAxis(gtx layout.Context, ln geom.Line, col color.NRGBA) {
	p1 := c.toDisplay(ln.Start())
	p2 := c.toDisplay(ln.End())
	strokeLine(gtx.Ops, p1, p2, 2, col)
	fillCircle(gtx.Ops, p1, 5, col)
	fillCircle(gtx.Ops, p2, 5, col)
}
