package ui

import (
	"fmt"
	"image"

	"gioui.org/layout"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"tessella/internal/proof"
)

// layoutProofPanel renders the right panel: the before/after comparison
// patches and the controls for the active proof variant.
func (cl *Classifier) layoutProofPanel(gtx layout.Context) layout.Dimensions {
	t := cl.theme
	st := cl.sess.Proof()

	return layout.UniformInset(t.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := []layout.FlexChild{
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.H6(t.Theme, "Proof")
				l.Color = t.Palette.TextMuted
				l.TextSize = t.Config.FontCaption
				return l.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Body2(t.Theme, cl.proofHint(st))
				l.Color = t.Palette.Text
				return l.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		}

		if st.Kind() != proof.KindNone {
			children = append(children,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return cl.layoutPatchPair(gtx, st)
				}),
				layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			)
			children = append(children, cl.layoutControls(st)...)
		}

		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

// proofHint returns the instruction line for the active state.
func (cl *Classifier) proofHint(st proof.State) string {
	switch st := st.(type) {
	case *proof.Rotation:
		if st.Center == nil {
			return fmt.Sprintf("Click the pattern to place a %.0f° rotation center.", st.AngleDeg)
		}
		if st.Repeats > 1 {
			return fmt.Sprintf("Rotating %.0f° × %d about the marked center.", st.AngleDeg, st.Repeats)
		}
		return fmt.Sprintf("Rotating %.0f° about the marked center. Drag to refine.", st.AngleDeg)
	case *proof.Mirror:
		if st.Axis == nil {
			return "Drag across the pattern to draw the mirror axis."
		}
		return "Reflecting across the axis. Drag an endpoint to refine."
	case *proof.Glide:
		if st.Axis == nil {
			return "Drag along the pattern to draw the glide axis."
		}
		return "Reflecting across the axis, then sliding along it."
	default:
		if cl.sess.SelectedAnswer() == "" {
			return "Pick an answer. Answers that need a proof unlock the patch view."
		}
		return "No geometric proof needed for this answer."
	}
}

// layoutPatchPair shows the untransformed and transformed patches side by
// side; matching halves mean the claimed symmetry holds at that spot.
func (cl *Classifier) layoutPatchPair(gtx layout.Context, st proof.State) layout.Dimensions {
	t := cl.theme
	pane := func(label string, img *image.RGBA) layout.FlexChild {
		return layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body2(t.Theme, label)
					l.Color = t.Palette.TextMuted
					l.TextSize = t.Config.FontCaption
					return l.Layout(gtx)
				}),
				layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					side := gtx.Dp(110)
					gtx.Constraints = layout.Exact(image.Pt(side, side))
					if img == nil {
						paint.FillShape(gtx.Ops, t.Palette.Panel,
							clipRect(image.Pt(side, side)))
						return layout.Dimensions{Size: image.Pt(side, side)}
					}
					w := widget.Image{Src: paint.NewImageOp(img), Fit: widget.Contain}
					return w.Layout(gtx)
				}),
			)
		})
	}

	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
		pane("Before", st.Before()),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		pane("After", st.After()),
	)
}

// layoutControls returns the variant-specific control rows.
func (cl *Classifier) layoutControls(st proof.State) []layout.FlexChild {
	t := cl.theme
	var children []layout.FlexChild

	slider := func(label string, f *widget.Float) layout.FlexChild {
		return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body2(t.Theme, label)
					l.Color = t.Palette.TextMuted
					l.TextSize = t.Config.FontCaption
					return l.Layout(gtx)
				}),
				layout.Rigid(material.Slider(t.Theme, f).Layout),
			)
		})
	}

	children = append(children,
		slider("Patch size", &cl.patchSlider),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
	)

	switch st := st.(type) {
	case *proof.Rotation:
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body2(t.Theme, "Repeats")
					l.Color = t.Palette.TextMuted
					l.TextSize = t.Config.FontCaption
					return l.Layout(gtx)
				}),
				layout.Flexed(1, layout.Spacer{}.Layout),
				layout.Rigid(cl.stepperButton(&cl.repeatsDec, "−")),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body1(t.Theme, fmt.Sprintf(" %d ", st.Repeats))
					l.Color = t.Palette.Text
					return l.Layout(gtx)
				}),
				layout.Rigid(cl.stepperButton(&cl.repeatsInc, "+")),
			)
		}))
	case *proof.Glide:
		children = append(children,
			slider("Glide distance", &cl.glideSlider),
		)
	}

	children = append(children,
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			b := material.Button(t.Theme, &cl.resetBtn, "Reset proof")
			b.CornerRadius = t.Config.CornerRadius
			b.Background = t.Palette.Panel
			b.Color = t.Palette.Text
			b.TextSize = t.Config.FontCaption
			return b.Layout(gtx)
		}),
	)
	return children
}

func (cl *Classifier) stepperButton(c *widget.Clickable, label string) layout.Widget {
	t := cl.theme
	return func(gtx layout.Context) layout.Dimensions {
		b := material.Button(t.Theme, c, label)
		b.CornerRadius = t.Config.CornerRadius
		b.Background = t.Palette.Panel
		b.Color = t.Palette.Text
		b.Inset = layout.UniformInset(unit.Dp(6))
		return b.Layout(gtx)
	}
}
