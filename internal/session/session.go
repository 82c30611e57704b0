// Package session drives one classification: walking the decision tree,
// gating each advance on proof readiness, and preserving in-progress proofs
// so backtracking never loses work.
//
// A Session owns the proof machine and the draft store. All mutation happens
// through Session methods on a single event-loop goroutine; there are no
// concurrent writers. Invalid calls (no image, no selection, lack of
// readiness) are silent no-ops, matching the proof layer's permissive design.
package session

import (
	"image"
	"time"

	"tessella/internal/geom"
	"tessella/internal/logging"
	"tessella/internal/proof"
	"tessella/internal/raster"
	"tessella/internal/tree"
)

// HistoryEntry records one confirmed advance, the sole unit of backtracking.
type HistoryEntry struct {
	NodeID    string
	AnswerKey string
}

// draftKey addresses one saved proof draft.
type draftKey struct {
	node   string
	answer string
}

// Session is the navigation and history controller for one classification.
type Session struct {
	tree    *tree.Tree
	ras     *raster.Raster
	machine *proof.Machine

	current  string
	selected string
	history  []HistoryEntry
	drafts   map[draftKey]proof.State

	cell      UnitCell
	startedAt time.Time
}

// New starts a session over the given tree and raster. The raster may be nil
// or empty, in which case every geometric interaction is disabled until
// SetRaster provides a usable image.
func New(t *tree.Tree, ras *raster.Raster, defaultPatch int) *Session {
	var img = imageOf(ras)
	return &Session{
		tree:      t,
		ras:       ras,
		machine:   proof.NewMachine(img, defaultPatch),
		current:   t.Start,
		drafts:    make(map[draftKey]proof.State),
		cell:      DefaultUnitCell(),
		startedAt: time.Now(),
	}
}

// SetRaster replaces the loaded image, for example after the watched file
// changed on disk. Existing drafts keep their buffers; recomputations use the
// new pixels.
func (s *Session) SetRaster(ras *raster.Raster) {
	s.ras = ras
	s.machine.SetImage(imageOf(ras))
}

// Raster returns the loaded image, possibly nil.
func (s *Session) Raster() *raster.Raster { return s.ras }

// Tree returns the decision tree the session walks.
func (s *Session) Tree() *tree.Tree { return s.tree }

// Proof returns the active proof state.
func (s *Session) Proof() proof.State { return s.machine.State() }

// CurrentID returns the active node id.
func (s *Session) CurrentID() string { return s.current }

// Question returns the active question node, or nil at a leaf.
func (s *Session) Question() *tree.Question {
	return s.tree.Nodes[s.current].Question
}

// Leaf returns the leaf the session arrived at, or nil while questions
// remain.
func (s *Session) Leaf() *tree.Leaf {
	return s.tree.Nodes[s.current].Leaf
}

// SelectedAnswer returns the selected answer key, empty when none.
func (s *Session) SelectedAnswer() string { return s.selected }

// History returns the confirmed advances so far, oldest first.
func (s *Session) History() []HistoryEntry { return s.history }

// StartedAt returns when the session (or its last restart) began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// SelectAnswer picks an answer on the active question and prepares its proof:
// a saved draft of the same proof type is restored, otherwise a fresh state
// is initialized from the resolved type. Answers that resolve to no proof
// auto-confirm immediately. No-op without a usable image or on a leaf.
func (s *Session) SelectAnswer(key string) {
	q := s.Question()
	if q == nil || !s.ras.Usable() {
		return
	}
	a := q.Answer(key)
	if a == nil {
		return
	}
	s.selected = key
	kind, angle := tree.ResolveProof(q, a)

	dk := draftKey{s.current, key}
	if d, ok := s.drafts[dk]; ok && d.Kind() == kind {
		s.machine.Restore(d)
	} else {
		s.machine.Initialize(kind, angle)
		s.drafts[dk] = s.machine.State()
	}
	logging.Debug("answer selected", "node", s.current, "answer", key, "proof", kind.String())

	if kind == proof.KindNone {
		// No geometric proof to supply; behave as an immediate confirm.
		s.ConfirmAnswer()
	}
}

// ConfirmAnswer commits the selected answer: pushes a history entry and moves
// to the answer's target node. Requires a selection whose proof is ready.
func (s *Session) ConfirmAnswer() {
	q := s.Question()
	if q == nil || s.selected == "" || !s.machine.State().Ready() {
		return
	}
	a := q.Answer(s.selected)
	if a == nil {
		return
	}
	s.history = append(s.history, HistoryEntry{NodeID: s.current, AnswerKey: s.selected})
	logging.Debug("answer confirmed", "node", s.current, "answer", s.selected, "next", a.Next)
	s.current = a.Next
	s.selected = ""
	s.machine.Initialize(proof.KindNone, 0)
}

// ChangeAnswer drops the current selection without touching history or the
// draft already saved for it; reselecting the same answer restores the draft.
func (s *Session) ChangeAnswer() {
	if s.selected == "" {
		return
	}
	s.selected = ""
	s.machine.Initialize(proof.KindNone, 0)
}

// Back undoes the last confirmed advance, restoring the node, the answer that
// was selected there, and its proof draft. Restoring does not re-trigger the
// auto-confirm rule, so backtracking over a proof-free step holds at that
// step instead of immediately re-advancing. No-op with empty history.
func (s *Session) Back() {
	if len(s.history) == 0 {
		return
	}
	e := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.current = e.NodeID
	s.selected = e.AnswerKey

	q := s.Question()
	if q == nil || s.selected == "" {
		s.selected = ""
		s.machine.Initialize(proof.KindNone, 0)
		return
	}
	a := q.Answer(s.selected)
	kind, angle := tree.ResolveProof(q, a)
	dk := draftKey{s.current, s.selected}
	if d, ok := s.drafts[dk]; ok && d.Kind() == kind {
		s.machine.Restore(d)
	} else {
		s.machine.Initialize(kind, angle)
		s.drafts[dk] = s.machine.State()
	}
	logging.Debug("backtracked", "node", s.current, "answer", s.selected)
}

// Restart clears history, drafts, selection, proof state, and the unit-cell
// overlay, returning to the start node. The loaded image is kept.
func (s *Session) Restart() {
	s.history = nil
	s.drafts = make(map[draftKey]proof.State)
	s.selected = ""
	s.current = s.tree.Start
	s.machine.Initialize(proof.KindNone, 0)
	s.cell = DefaultUnitCell()
	s.startedAt = time.Now()
	logging.Debug("session restarted", "tree", s.tree.ID)
}

// Proof mutations delegate to the machine and then refresh the draft pointer,
// so the stored draft always reflects the latest state even after the machine
// swaps in a new state value on reset.

// SupplyRotationPoint forwards a rotation-center placement or drag.
func (s *Session) SupplyRotationPoint(p geom.Point) {
	s.machine.SupplyRotationPoint(p)
	s.saveDraft()
}

// SupplyLine forwards a mirror/glide axis placement or drag.
func (s *Session) SupplyLine(ln geom.Line, kind proof.Kind, final bool) {
	s.machine.SupplyLine(ln, kind, final)
	s.saveDraft()
}

// AdjustGlideDistance forwards a glide-slider change.
func (s *Session) AdjustGlideDistance(fraction float64) {
	s.machine.AdjustGlideDistance(fraction)
	s.saveDraft()
}

// AdjustRotationRepeats forwards a repeats-stepper change.
func (s *Session) AdjustRotationRepeats(n int) {
	s.machine.AdjustRotationRepeats(n)
	s.saveDraft()
}

// ResizePatch forwards a patch-size slider change.
func (s *Session) ResizePatch(size int) {
	s.machine.ResizePatch(size)
	s.saveDraft()
}

// PatchSizeBounds returns the legal patch-side range for the loaded image.
func (s *Session) PatchSizeBounds() (lo, hi int) {
	return s.machine.PatchSizeBounds()
}

// ResetProof clears all progress on the selected answer's proof.
func (s *Session) ResetProof() {
	if s.selected == "" {
		return
	}
	s.machine.Reset()
	s.saveDraft()
}

func (s *Session) saveDraft() {
	if s.selected == "" {
		return
	}
	s.drafts[draftKey{s.current, s.selected}] = s.machine.State()
}

func imageOf(ras *raster.Raster) image.Image {
	if ras == nil || ras.Pix == nil {
		return nil
	}
	return ras.Pix
}
