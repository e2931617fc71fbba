// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"fmt"
	"image"
	"io"
	"math/rand/v2"
)

// Neutral is the chroma value of a colorless sample.
const Neutral = 0x80

// FrameSize returns the serialized size of a w×h 4:2:0 frame.
func FrameSize(w, h int) int {
	return w*h + 2*(w*h/4)
}

// Canvas is a planar 4:2:0 image: a full-resolution luma plane followed by
// two chroma planes at half resolution in both axes.
//
// The three planes share one backing array laid out as Y, Cb, Cr, so
// serializing a canvas is a single write of [Canvas.Bytes].
//
// A Canvas is not safe for concurrent use. In a pipeline it is owned by
// whichever role holds the permit for its slot.
type Canvas struct {
	Y, Cb, Cr Plane
	buf       []byte
}

// NewCanvas allocates a w×h canvas with black luma and neutral chroma.
// Width and height must be positive and even.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 || w%2 != 0 || h%2 != 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d must have positive even dimensions", ErrInvalidGeometry, w, h)
	}
	luma, chroma := w*h, (w/2)*(h/2)
	buf := make([]byte, luma+2*chroma)
	c := &Canvas{
		Y:   newPlane(buf[:luma], w, h),
		Cb:  newPlane(buf[luma:luma+chroma], w/2, h/2),
		Cr:  newPlane(buf[luma+chroma:], w/2, h/2),
		buf: buf,
	}
	for i := luma; i < len(buf); i++ {
		buf[i] = Neutral
	}
	return c, nil
}

// NewBackground returns a canvas with uniformly random luma and neutral
// chroma: grey noise.
func NewBackground(w, h int, rng *rand.Rand) (*Canvas, error) {
	c, err := NewCanvas(w, h)
	if err != nil {
		return nil, err
	}
	pix := c.Y.Pix
	for i := 0; i+8 <= len(pix); i += 8 {
		v := rng.Uint64()
		for j := range 8 {
			pix[i+j] = byte(v >> (8 * j))
		}
	}
	for i := len(pix) &^ 7; i < len(pix); i++ {
		pix[i] = byte(rng.Uint32())
	}
	return c, nil
}

// Width returns the luma width in pixels.
func (c *Canvas) Width() int { return c.Y.Width }

// Height returns the luma height in pixels.
func (c *Canvas) Height() int { return c.Y.Height }

// Save copies the luma under r into patch, row by row.
// patch must hold r.Area() bytes. Chroma is not saved: Restore always
// resets it to Neutral.
func (c *Canvas) Save(r Rect, patch []byte) {
	c.Y.CopyOut(r, patch)
}

// Draw fills r with color. Luma covers r exactly; chroma covers r.Half().
func (c *Canvas) Draw(r Rect, color Color) {
	c.Y.Fill(r, color.Y)
	h := r.Half()
	c.Cb.Fill(h, color.Cb)
	c.Cr.Fill(h, color.Cr)
}

// Restore writes patch back under r and resets the chroma footprint to
// Neutral. Chroma detail is never reconstructed.
func (c *Canvas) Restore(r Rect, patch []byte) {
	c.Y.CopyIn(r, patch)
	h := r.Half()
	c.Cb.Fill(h, Neutral)
	c.Cr.Fill(h, Neutral)
}

// Bytes returns the serialized frame: luma, Cb, then Cr, with no
// separators. The slice aliases the canvas.
func (c *Canvas) Bytes() []byte {
	return c.buf
}

// WriteTo writes the serialized frame to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.buf)
	return int64(n), err
}

// CopyFrom overwrites c with src. Both must have the same dimensions.
func (c *Canvas) CopyFrom(src *Canvas) error {
	if src.Width() != c.Width() || src.Height() != c.Height() {
		return fmt.Errorf("%w: copy %dx%d into %dx%d", ErrInvalidGeometry, src.Width(), src.Height(), c.Width(), c.Height())
	}
	copy(c.buf, src.buf)
	return nil
}

// Clone returns a deep copy of c.
func (c *Canvas) Clone() *Canvas {
	d, _ := NewCanvas(c.Width(), c.Height())
	copy(d.buf, c.buf)
	return d
}

// Image returns a zero-copy [image.YCbCr] view of c.
// Writes through the view are visible on the canvas.
func (c *Canvas) Image() *image.YCbCr {
	return &image.YCbCr{
		Y:              c.Y.Pix,
		Cb:             c.Cb.Pix,
		Cr:             c.Cr.Pix,
		YStride:        c.Y.Width,
		CStride:        c.Cb.Width,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, c.Width(), c.Height()),
	}
}
