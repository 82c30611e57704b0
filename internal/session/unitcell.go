package session

import "tessella/internal/geom"

// UnitCell is the user-adjustable parallelogram overlay marking one repeating
// tile of the pattern. Corners are stored normalized to [0, 1] in both axes
// and clamped on every edit; the overlay is independent of proof state.
type UnitCell struct {
	A, B, C, D geom.Point
}

// DefaultUnitCell returns a centered square covering the middle third of the
// image.
func DefaultUnitCell() UnitCell {
	return UnitCell{
		A: geom.Pt(0.35, 0.35),
		B: geom.Pt(0.65, 0.35),
		C: geom.Pt(0.65, 0.65),
		D: geom.Pt(0.35, 0.65),
	}
}

// Corners returns the four corners in order A, B, C, D.
func (c UnitCell) Corners() [4]geom.Point {
	return [4]geom.Point{c.A, c.B, c.C, c.D}
}

// UnitCell returns the current overlay state.
func (s *Session) UnitCell() UnitCell { return s.cell }

// SetUnitCellCorner moves one corner (0..3 for A..D), clamping both
// coordinates into [0, 1].
func (s *Session) SetUnitCellCorner(i int, p geom.Point) {
	p.X = clampUnit(p.X)
	p.Y = clampUnit(p.Y)
	switch i {
	case 0:
		s.cell.A = p
	case 1:
		s.cell.B = p
	case 2:
		s.cell.C = p
	case 3:
		s.cell.D = p
	}
}

// ShowUnitCell reports whether the active question requests the unit-cell
// guides.
func (s *Session) ShowUnitCell() bool {
	q := s.Question()
	return q != nil && q.UnitCellGuides
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
