// Package raster loads pattern images into RGBA pixel buffers.
//
// The rest of the system treats a loaded raster as read-only: the patch
// sampler and the transform engine only ever copy or resample from it.
package raster

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"

	// Registered decoders for the supported pattern-image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Raster is a decoded pattern image plus its provenance.
type Raster struct {
	// Pix holds the decoded pixels, normalized to RGBA.
	Pix *image.RGBA

	// Path is the file the raster was loaded from, if any.
	Path string

	// Hash is the SHA-256 of the encoded file bytes, used to fingerprint
	// the image in saved classification records.
	Hash [32]byte
}

// Width returns the pixel width, or 0 for a nil raster.
func (r *Raster) Width() int {
	if r == nil || r.Pix == nil {
		return 0
	}
	return r.Pix.Bounds().Dx()
}

// Height returns the pixel height, or 0 for a nil raster.
func (r *Raster) Height() int {
	if r == nil || r.Pix == nil {
		return 0
	}
	return r.Pix.Bounds().Dy()
}

// Usable reports whether the raster has nonzero dimensions.
func (r *Raster) Usable() bool {
	return r.Width() > 0 && r.Height() > 0
}

// Load reads and decodes the image at path.
func Load(path string) (*Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	r, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	r.Path = path
	r.Hash = sha256.Sum256(data)
	return r, nil
}

// Decode decodes PNG, JPEG, or GIF data into a Raster.
func Decode(rd io.Reader) (*Raster, error) {
	src, _, err := image.Decode(rd)
	if err != nil {
		return nil, err
	}
	return &Raster{Pix: ToRGBA(src)}, nil
}

// ToRGBA normalizes an image to *image.RGBA with its origin at (0, 0),
// copying if the source is any other format.
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
