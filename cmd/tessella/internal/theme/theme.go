// Package theme wraps the material theme with tessella's palette and
// metrics.
package theme

import (
	"image/color"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the system colors.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Panel      color.NRGBA
	Primary    color.NRGBA
	Accent     color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Border     color.NRGBA
	Success    color.NRGBA
	Error      color.NRGBA

	// Overlay colors for the image canvas.
	RotationMark color.NRGBA
	MirrorAxis   color.NRGBA
	GlideAxis    color.NRGBA
	PatchFrame   color.NRGBA
	UnitCell     color.NRGBA
}

// Config defines the system metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	FontTitle    unit.Sp
	FontBody     unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with system-specific styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// New creates the application theme.
func New(mtheme *material.Theme) *Theme {
	t := &Theme{
		Theme: mtheme,
		Palette: Palette{
			Background: rgb(0x1b1d23),
			Surface:    rgb(0x23262e),
			Panel:      rgb(0x2a2e38),
			Primary:    rgb(0x7aa2f7),
			Accent:     rgb(0xbb9af7),
			Text:       rgb(0xd5d8e0),
			TextMuted:  rgb(0x8a8f9e),
			Border:     rgb(0x3b4048),
			Success:    rgb(0x9ece6a),
			Error:      rgb(0xf7768e),

			RotationMark: rgb(0xf7768e),
			MirrorAxis:   rgb(0x7aa2f7),
			GlideAxis:    rgb(0xbb9af7),
			PatchFrame:   rgb(0xe0af68),
			UnitCell:     rgb(0x9ece6a),
		},
		Config: Config{
			CornerRadius: 6,
			Spacing:      8,
			Padding:      16,
			FontTitle:    20,
			FontBody:     14,
			FontCaption:  12,
		},
	}

	t.Theme.Palette.Bg = t.Palette.Background
	t.Theme.Palette.Fg = t.Palette.Text
	t.Theme.Palette.ContrastBg = t.Palette.Primary
	t.Theme.Palette.ContrastFg = t.Palette.Background
	return t
}

func rgb(c uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 0xff,
	}
}
