// Package ui implements the classification screen.
package ui

import (
	"fmt"
	"image"
	"time"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"tessella/cmd/tessella/internal/theme"
	"tessella/internal/logging"
	"tessella/internal/proof"
	"tessella/internal/session"
	"tessella/internal/store"
)

// Classifier is the main screen: question panel on the left, the pattern
// canvas in the center, and the proof panel (before/after patches plus
// controls) on the right.
type Classifier struct {
	theme  *theme.Theme
	sess   *session.Session
	db     *store.Store // nil when result saving is disabled
	canvas *Canvas

	answerBtns []widget.Clickable
	confirmBtn widget.Clickable
	changeBtn  widget.Clickable
	backBtn    widget.Clickable
	restartBtn widget.Clickable
	resetBtn   widget.Clickable
	saveBtn    widget.Clickable

	patchSlider widget.Float
	glideSlider widget.Float
	repeatsDec  widget.Clickable
	repeatsInc  widget.Clickable

	answerList widget.List

	saved   bool
	saveErr error
}

// NewClassifier creates the screen. db may be nil to disable saving.
func NewClassifier(t *theme.Theme, s *session.Session, db *store.Store) *Classifier {
	return &Classifier{
		theme:  t,
		sess:   s,
		db:     db,
		canvas: NewCanvas(t, s),
		answerList: widget.List{
			List: layout.List{Axis: layout.Vertical},
		},
	}
}

// Canvas exposes the canvas, for image-reload invalidation.
func (cl *Classifier) Canvas() *Canvas { return cl.canvas }

// Layout handles pending widget events and renders the screen.
func (cl *Classifier) Layout(gtx layout.Context) layout.Dimensions {
	cl.handleActions(gtx)

	paint.Fill(gtx.Ops, cl.theme.Palette.Background)
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Dp(300)
			gtx.Constraints.Max.X = gtx.Dp(300)
			return cl.layoutQuestionPanel(gtx)
		}),
		layout.Rigid(cl.divider),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, cl.canvas.Layout)
		}),
		layout.Rigid(cl.divider),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Dp(280)
			gtx.Constraints.Max.X = gtx.Dp(280)
			return cl.layoutProofPanel(gtx)
		}),
	)
}

func (cl *Classifier) divider(gtx layout.Context) layout.Dimensions {
	size := image.Pt(gtx.Dp(1), gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, cl.theme.Palette.Border, clip.Rect{Max: size}.Op())
	return layout.Dimensions{Size: size}
}

// handleActions drains button and slider events before drawing.
func (cl *Classifier) handleActions(gtx layout.Context) {
	if q := cl.sess.Question(); q != nil {
		for len(cl.answerBtns) < len(q.Answers) {
			cl.answerBtns = append(cl.answerBtns, widget.Clickable{})
		}
		for i := range q.Answers {
			if cl.answerBtns[i].Clicked(gtx) {
				cl.sess.SelectAnswer(q.Answers[i].Key)
				cl.syncSliders()
			}
		}
	}

	if cl.confirmBtn.Clicked(gtx) {
		cl.sess.ConfirmAnswer()
	}
	if cl.changeBtn.Clicked(gtx) {
		cl.sess.ChangeAnswer()
	}
	if cl.backBtn.Clicked(gtx) {
		cl.sess.Back()
		cl.syncSliders()
	}
	if cl.restartBtn.Clicked(gtx) {
		cl.sess.Restart()
		cl.saved = false
		cl.saveErr = nil
	}
	if cl.resetBtn.Clicked(gtx) {
		cl.sess.ResetProof()
		cl.syncSliders()
	}
	if cl.saveBtn.Clicked(gtx) {
		cl.saveResult()
	}

	if cl.patchSlider.Update(gtx) {
		lo, hi := cl.sess.PatchSizeBounds()
		size := lo + int(float64(hi-lo)*float64(cl.patchSlider.Value))
		cl.sess.ResizePatch(size)
	}
	if cl.glideSlider.Update(gtx) {
		cl.sess.AdjustGlideDistance(float64(cl.glideSlider.Value))
	}
	if cl.repeatsDec.Clicked(gtx) {
		if r, ok := cl.sess.Proof().(*proof.Rotation); ok && r.Repeats > 1 {
			cl.sess.AdjustRotationRepeats(r.Repeats - 1)
		}
	}
	if cl.repeatsInc.Clicked(gtx) {
		if r, ok := cl.sess.Proof().(*proof.Rotation); ok {
			cl.sess.AdjustRotationRepeats(r.Repeats + 1)
		}
	}
}

// syncSliders moves the slider thumbs to match restored or reset proof state.
func (cl *Classifier) syncSliders() {
	st := cl.sess.Proof()
	lo, hi := cl.sess.PatchSizeBounds()
	if hi > lo {
		cl.patchSlider.Value = float32(st.PatchSize()-lo) / float32(hi-lo)
	}
	if g, ok := st.(*proof.Glide); ok {
		cl.glideSlider.Value = float32(g.Distance)
	}
}

// saveResult writes the finished classification to the results store.
func (cl *Classifier) saveResult() {
	leaf := cl.sess.Leaf()
	ras := cl.sess.Raster()
	if cl.db == nil || leaf == nil || ras == nil || cl.saved {
		return
	}

	steps := make([]store.Step, 0, len(cl.sess.History()))
	for _, h := range cl.sess.History() {
		steps = append(steps, store.Step{NodeID: h.NodeID, AnswerKey: h.AnswerKey})
	}
	c := &store.Classification{
		ImagePath:  ras.Path,
		ImageHash:  ras.Hash[:],
		TreeID:     cl.sess.Tree().ID,
		Group:      leaf.Group,
		Steps:      steps,
		StartedAt:  cl.sess.StartedAt(),
		FinishedAt: time.Now(),
	}
	if _, err := cl.db.Save(c); err != nil {
		cl.saveErr = err
		logging.Error("save classification", "error", err)
		return
	}
	cl.saved = true
	cl.saveErr = nil
	logging.Info("classification saved", "group", leaf.Group, "image", ras.Path)
}

func (cl *Classifier) layoutQuestionPanel(gtx layout.Context) layout.Dimensions {
	t := cl.theme
	inset := layout.UniformInset(t.Config.Padding)

	if leaf := cl.sess.Leaf(); leaf != nil {
		return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return cl.layoutLeaf(gtx, leaf.Group, leaf.Description)
		})
	}

	q := cl.sess.Question()
	if q == nil {
		return layout.Dimensions{Size: gtx.Constraints.Max}
	}

	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := []layout.FlexChild{
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				title := material.H6(t.Theme, cl.sess.Tree().Name)
				title.Color = t.Palette.TextMuted
				title.TextSize = t.Config.FontCaption
				return title.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				prompt := material.H5(t.Theme, q.Prompt)
				prompt.Color = t.Palette.Text
				prompt.TextSize = t.Config.FontTitle
				return prompt.Layout(gtx)
			}),
		}
		for _, note := range q.Notes {
			note := note
			children = append(children,
				layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					l := material.Body2(t.Theme, note)
					l.Color = t.Palette.TextMuted
					return l.Layout(gtx)
				}),
			)
		}
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
			layout.Flexed(1, cl.layoutAnswers),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(cl.layoutNavButtons),
		)
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (cl *Classifier) layoutAnswers(gtx layout.Context) layout.Dimensions {
	t := cl.theme
	q := cl.sess.Question()
	selected := cl.sess.SelectedAnswer()

	return material.List(t.Theme, &cl.answerList).Layout(gtx, len(q.Answers),
		func(gtx layout.Context, i int) layout.Dimensions {
			a := q.Answers[i]
			btn := material.Button(t.Theme, &cl.answerBtns[i], a.Label)
			btn.CornerRadius = t.Config.CornerRadius
			if a.Key == selected {
				btn.Background = t.Palette.Primary
				btn.Color = t.Palette.Background
			} else {
				btn.Background = t.Palette.Panel
				btn.Color = t.Palette.Text
			}
			return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, btn.Layout)
		})
}

func (cl *Classifier) layoutNavButtons(gtx layout.Context) layout.Dimensions {
	t := cl.theme
	st := cl.sess.Proof()
	hasSelection := cl.sess.SelectedAnswer() != ""

	confirm := material.Button(t.Theme, &cl.confirmBtn, "Confirm")
	confirm.CornerRadius = t.Config.CornerRadius
	if hasSelection && st.Ready() {
		confirm.Background = t.Palette.Success
		confirm.Color = t.Palette.Background
	} else {
		confirm.Background = t.Palette.Panel
		confirm.Color = t.Palette.TextMuted
	}

	row := func(btns ...layout.FlexChild) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx, btns...)
	}
	small := func(c *widget.Clickable, label string) layout.FlexChild {
		return layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			b := material.Button(t.Theme, c, label)
			b.CornerRadius = t.Config.CornerRadius
			b.Background = t.Palette.Panel
			b.Color = t.Palette.Text
			b.TextSize = t.Config.FontCaption
			return layout.UniformInset(unit.Dp(2)).Layout(gtx, b.Layout)
		})
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(confirm.Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return row(
				small(&cl.changeBtn, "Change"),
				small(&cl.backBtn, "Back"),
				small(&cl.restartBtn, "Restart"),
			)
		}),
	)
}

func (cl *Classifier) layoutLeaf(gtx layout.Context, group, description string) layout.Dimensions {
	t := cl.theme

	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			l := material.H6(t.Theme, "Classified as")
			l.Color = t.Palette.TextMuted
			l.TextSize = t.Config.FontCaption
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			l := material.H3(t.Theme, group)
			l.Color = t.Palette.Primary
			return l.Layout(gtx)
		}),
	}
	if description != "" {
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Body1(t.Theme, description)
				l.Color = t.Palette.Text
				return l.Layout(gtx)
			}),
		)
	}

	saveLabel := "Save result"
	if cl.saved {
		saveLabel = "Saved"
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if cl.db == nil {
				return layout.Dimensions{}
			}
			b := material.Button(t.Theme, &cl.saveBtn, saveLabel)
			b.CornerRadius = t.Config.CornerRadius
			if cl.saved {
				b.Background = t.Palette.Panel
				b.Color = t.Palette.TextMuted
			}
			return b.Layout(gtx)
		}),
	)
	if cl.saveErr != nil {
		children = append(children,
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				l := material.Body2(t.Theme, fmt.Sprintf("save failed: %v", cl.saveErr))
				l.Color = t.Palette.Error
				return l.Layout(gtx)
			}),
		)
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					b := material.Button(t.Theme, &cl.backBtn, "Back")
					b.CornerRadius = t.Config.CornerRadius
					b.Background = t.Palette.Panel
					b.Color = t.Palette.Text
					return layout.UniformInset(unit.Dp(2)).Layout(gtx, b.Layout)
				}),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					b := material.Button(t.Theme, &cl.restartBtn, "Restart")
					b.CornerRadius = t.Config.CornerRadius
					b.Background = t.Palette.Panel
					b.Color = t.Palette.Text
					return layout.UniformInset(unit.Dp(2)).Layout(gtx, b.Layout)
				}),
			)
		}),
	)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}
