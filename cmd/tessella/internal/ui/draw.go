package ui

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// Stroke and fill helpers for the canvas overlays.

func strokeLine(ops *op.Ops, from, to f32.Point, width float32, col color.NRGBA) {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(from)
	p.LineTo(to)
	paint.FillShape(ops, col, clip.Stroke{
		Path:  p.End(),
		Width: width,
	}.Op())
}

func strokePolygon(ops *op.Ops, pts []f32.Point, width float32, col color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	p.Close()
	paint.FillShape(ops, col, clip.Stroke{
		Path:  p.End(),
		Width: width,
	}.Op())
}

func strokeRect(ops *op.Ops, topLeft f32.Point, side, width float32, col color.NRGBA) {
	strokePolygon(ops, []f32.Point{
		topLeft,
		f32.Pt(topLeft.X+side, topLeft.Y),
		f32.Pt(topLeft.X+side, topLeft.Y+side),
		f32.Pt(topLeft.X, topLeft.Y+side),
	}, width, col)
}

func clipRect(size image.Point) clip.Op {
	return clip.Rect{Max: size}.Op()
}

func fillCircle(ops *op.Ops, center f32.Point, radius float32, col color.NRGBA) {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(f32.Pt(center.X+radius, center.Y))
	p.ArcTo(center, center, 2*3.14159274)
	p.Close()
	paint.FillShape(ops, col, clip.Outline{Path: p.End()}.Op())
}
