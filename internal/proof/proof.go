// Package proof holds the state of one in-progress geometric proof.
//
// A proof is the user's assertion that a symmetry holds at a location: a
// rotation center, a mirror axis, or a glide axis plus slide distance. The
// state for the three variants is modeled as an explicit sum type (State with
// one concrete struct per variant) so that which fields are meaningful, and
// which operations are legal, is encoded in the type rather than checked
// dynamically.
//
// All mutation goes through Machine. Operations invalid for the current
// variant are silent no-ops: the presentation layer is responsible for not
// offering controls that do not apply, and the core absorbs stray calls
// rather than surfacing errors.
package proof

import (
	"image"

	"tessella/internal/geom"
	"tessella/internal/patch"
)

// Kind identifies a proof variant.
type Kind int

const (
	// KindNone means the current decision needs no geometric proof.
	KindNone Kind = iota
	// KindRotation proves an n-fold rotation about a user-placed center.
	KindRotation
	// KindMirror proves a reflection across a user-drawn axis.
	KindMirror
	// KindGlide proves a glide reflection: reflect across the axis, then
	// slide along it.
	KindGlide
)

// String returns the tree-file spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindRotation:
		return "rotation"
	case KindMirror:
		return "mirror"
	case KindGlide:
		return "glide"
	default:
		return "none"
	}
}

// ParseKind maps a tree-file proof name to a Kind. Unknown names map to
// KindNone.
func ParseKind(s string) Kind {
	switch s {
	case "rotation":
		return KindRotation
	case "mirror":
		return KindMirror
	case "glide":
		return KindGlide
	default:
		return KindNone
	}
}

// Defaults for freshly initialized variants.
const (
	DefaultAngleDeg      = 180
	DefaultRepeats       = 1
	DefaultGlideFraction = 0.5
)

// State is the tagged union over proof variants. Concrete types are *None,
// *Rotation, *Mirror, and *Glide; nothing outside this package implements it.
type State interface {
	Kind() Kind

	// Ready reports whether the proof can back a confirmed answer. None is
	// ready immediately; the other variants become ready after their first
	// committed transform computation and stay ready until reset.
	Ready() bool

	// Before and After are the last computed comparison buffers, nil until
	// the first computation.
	Before() *image.RGBA
	After() *image.RGBA

	// PatchSize is the current requested patch side in pixels.
	PatchSize() int

	// Sample is the last extracted patch, nil until the first computation.
	Sample() *patch.Sample

	sealed()
}

// common carries the fields every variant shares.
type common struct {
	ready     bool
	before    *image.RGBA
	after     *image.RGBA
	patchSize int
	sample    *patch.Sample
}

func (c *common) Ready() bool           { return c.ready }
func (c *common) Before() *image.RGBA   { return c.before }
func (c *common) After() *image.RGBA    { return c.after }
func (c *common) PatchSize() int        { return c.patchSize }
func (c *common) Sample() *patch.Sample { return c.sample }
func (c *common) sealed()               {}

// None is the variant for decisions that need no geometric proof.
type None struct {
	common
}

func (*None) Kind() Kind { return KindNone }

// Rotation is the in-progress state of a rotation proof.
type Rotation struct {
	common

	// Center is the user-placed rotation center, nil until supplied.
	Center *geom.Point

	// AngleDeg is the base symmetry angle in degrees.
	AngleDeg float64

	// Repeats composes the rotation: the rendered angle is AngleDeg*Repeats.
	Repeats int
}

func (*Rotation) Kind() Kind { return KindRotation }

// Mirror is the in-progress state of a mirror proof.
type Mirror struct {
	common

	// Axis is the user-drawn mirror line, nil until supplied.
	Axis *geom.Line
}

func (*Mirror) Kind() Kind { return KindMirror }

// Glide is the in-progress state of a glide-reflection proof.
type Glide struct {
	common

	// Axis is the user-drawn glide line, nil until supplied.
	Axis *geom.Line

	// Distance is the slide expressed as a fraction in [0, 1]. The pixel
	// slide it denotes depends on which control last set it; see slidePx.
	Distance float64

	// slidePx is the canonical slide in pixels. Drawing the axis directly
	// scales Distance by the patch half-size; the slider scales it by the
	// larger image dimension. Recomputations (patch resize) reuse this
	// value so the two reference lengths never mix retroactively.
	slidePx float64
}

func (*Glide) Kind() Kind { return KindGlide }
