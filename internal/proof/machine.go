package proof

import (
	"image"
	"math"

	"tessella/internal/geom"
	"tessella/internal/patch"
	"tessella/internal/transform"
)

// Machine drives the proof state for one classification session. It owns the
// active State, knows the source image, and implements every legal mutation.
// Calls that do not apply to the active variant, or that arrive before their
// prerequisites (an image, a committed center or axis), return without effect.
type Machine struct {
	img          image.Image
	imgW, imgH   int
	defaultPatch int

	kind     Kind
	override float64 // rotation angle override from the tree, 0 if none

	state State
}

// NewMachine creates a machine over the given source image. A nil or empty
// image leaves every interaction disabled. defaultPatch is the patch side
// used when a variant is first initialized.
func NewMachine(img image.Image, defaultPatch int) *Machine {
	m := &Machine{defaultPatch: defaultPatch}
	m.SetImage(img)
	m.Initialize(KindNone, 0)
	return m
}

// SetImage replaces the source image, for example after the watched file was
// rewritten on disk. The current proof state is kept; its buffers refresh on
// the next recomputation.
func (m *Machine) SetImage(img image.Image) {
	m.img = img
	m.imgW, m.imgH = 0, 0
	if img != nil {
		b := img.Bounds()
		m.imgW, m.imgH = b.Dx(), b.Dy()
	}
}

// usable reports whether geometric interactions are enabled.
func (m *Machine) usable() bool {
	return m.img != nil && m.imgW > 0 && m.imgH > 0
}

// State returns the active proof state.
func (m *Machine) State() State { return m.state }

// Initialize replaces the state with a fresh variant of the given kind.
// angleOverride, when nonzero, sets the base rotation angle; otherwise
// rotation defaults to 180 degrees. Only None starts ready.
func (m *Machine) Initialize(kind Kind, angleOverride float64) {
	m.kind = kind
	m.override = angleOverride
	m.state = m.fresh()
}

// Restore swaps in a previously saved draft state. A nil draft reinitializes
// instead.
func (m *Machine) Restore(st State) {
	if st == nil {
		m.state = m.fresh()
		return
	}
	m.kind = st.Kind()
	if r, ok := st.(*Rotation); ok {
		m.override = r.AngleDeg
	}
	m.state = st
}

// Reset discards all progress and reinitializes the same kind with the same
// angle override.
func (m *Machine) Reset() {
	m.state = m.fresh()
}

func (m *Machine) fresh() State {
	c := common{patchSize: m.defaultPatch}
	switch m.kind {
	case KindRotation:
		angle := float64(DefaultAngleDeg)
		if m.override != 0 {
			angle = m.override
		}
		return &Rotation{common: c, AngleDeg: angle, Repeats: DefaultRepeats}
	case KindMirror:
		return &Mirror{common: c}
	case KindGlide:
		return &Glide{common: c, Distance: DefaultGlideFraction}
	default:
		c.ready = true
		return &None{common: c}
	}
}

// SupplyRotationPoint places (or drags) the rotation center. The patch is
// resampled around the point and the composed rotation is rendered; readiness
// turns on with the first successful computation and stays on.
func (m *Machine) SupplyRotationPoint(p geom.Point) {
	r, ok := m.state.(*Rotation)
	if !ok || !m.usable() {
		return
	}
	s, ok := m.take(p, r.patchSize)
	if !ok {
		return
	}
	r.Center = &p
	r.sample = s
	r.before = s.Buffer
	r.after = transform.Rotate(s, r.AngleDeg*float64(r.Repeats), m.img)
	r.ready = true
}

// SupplyLine places (or drags) a mirror or glide axis. kind must match the
// active variant. The patch is sampled at the axis midpoint. final marks the
// end of a drag: readiness first turns on with a final call, and once on it
// never turns back off for preview updates. Degenerate lines are rejected
// without touching the state.
func (m *Machine) SupplyLine(ln geom.Line, kind Kind, final bool) {
	if !m.usable() || ln.Degenerate() {
		return
	}
	switch st := m.state.(type) {
	case *Mirror:
		if kind != KindMirror {
			return
		}
		s, ok := m.take(ln.Midpoint(), st.patchSize)
		if !ok {
			return
		}
		st.Axis = &ln
		st.sample = s
		st.before = s.Buffer
		st.after = transform.Reflect(s, ln, m.img)
		st.ready = st.ready || final
	case *Glide:
		if kind != KindGlide {
			return
		}
		s, ok := m.take(ln.Midpoint(), st.patchSize)
		if !ok {
			return
		}
		st.Axis = &ln
		st.sample = s
		st.before = s.Buffer
		st.slidePx = st.Distance * float64(s.Size) / 2
		st.after = transform.Glide(s, ln, st.slidePx, m.img)
		st.ready = st.ready || final
	}
}

// AdjustGlideDistance recomputes the glide with a new slide fraction, driven
// by the slider. The fraction is clamped to [0, 1] and converted to pixels
// against the larger image dimension. Requires a previously supplied axis;
// readiness is untouched.
func (m *Machine) AdjustGlideDistance(fraction float64) {
	g, ok := m.state.(*Glide)
	if !ok || !m.usable() || g.Axis == nil || g.sample == nil {
		return
	}
	g.Distance = clamp01(fraction)
	g.slidePx = g.Distance * float64(max(m.imgW, m.imgH))
	g.after = transform.Glide(g.sample, *g.Axis, g.slidePx, m.img)
}

// AdjustRotationRepeats re-renders the rotation composed n times. The patch
// is not resampled; only the angle changes. Requires a previously supplied
// center; readiness is untouched.
func (m *Machine) AdjustRotationRepeats(n int) {
	r, ok := m.state.(*Rotation)
	if !ok || !m.usable() || n < 1 || r.Center == nil || r.sample == nil {
		return
	}
	r.Repeats = n
	r.after = transform.Rotate(r.sample, r.AngleDeg*float64(n), m.img)
}

// ResizePatch changes the comparison window size, resamples the patch at the
// committed center or axis, and re-renders with the current parameters. The
// size is clamped to a range derived from the image dimensions. No-op until a
// center or axis has been supplied; readiness is untouched.
func (m *Machine) ResizePatch(size int) {
	if !m.usable() {
		return
	}
	size = m.ClampPatchSize(size)
	switch st := m.state.(type) {
	case *Rotation:
		if st.Center == nil {
			return
		}
		s, ok := m.take(*st.Center, size)
		if !ok {
			return
		}
		st.patchSize = size
		st.sample = s
		st.before = s.Buffer
		st.after = transform.Rotate(s, st.AngleDeg*float64(st.Repeats), m.img)
	case *Mirror:
		if st.Axis == nil {
			return
		}
		s, ok := m.take(st.Axis.Midpoint(), size)
		if !ok {
			return
		}
		st.patchSize = size
		st.sample = s
		st.before = s.Buffer
		st.after = transform.Reflect(s, *st.Axis, m.img)
	case *Glide:
		if st.Axis == nil {
			return
		}
		s, ok := m.take(st.Axis.Midpoint(), size)
		if !ok {
			return
		}
		st.patchSize = size
		st.sample = s
		st.before = s.Buffer
		st.after = transform.Glide(s, *st.Axis, st.slidePx, m.img)
	}
}

// PatchSizeBounds returns the legal patch-side range for the current image:
// at least max(40, 20% of the smaller dimension), at most max(80, the
// smaller dimension).
func (m *Machine) PatchSizeBounds() (lo, hi int) {
	minDim := min(m.imgW, m.imgH)
	lo = max(40, int(math.Round(0.2*float64(minDim))))
	hi = max(80, minDim)
	return lo, hi
}

// ClampPatchSize clamps a requested patch side into PatchSizeBounds.
func (m *Machine) ClampPatchSize(size int) int {
	lo, hi := m.PatchSizeBounds()
	return min(max(size, lo), hi)
}

func (m *Machine) take(focus geom.Point, size int) (*patch.Sample, bool) {
	return patch.Take(m.img, focus, size)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
