// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import "fmt"

// Plane is one single-channel 8-bit image stored row-major without padding.
//
// All region math for the compositing routines goes through Plane, so a
// footprint that would leave the plane panics instead of corrupting a
// neighbouring plane of the same canvas.
type Plane struct {
	Pix    []byte
	Width  int
	Height int
}

func newPlane(pix []byte, w, h int) Plane {
	return Plane{Pix: pix[:w*h:w*h], Width: w, Height: h}
}

// Get returns the sample at (x, y).
func (p *Plane) Get(x, y int) byte {
	return p.Pix[p.offset(x, y)]
}

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v byte) {
	p.Pix[p.offset(x, y)] = v
}

// Fill stores v into every sample of r.
func (p *Plane) Fill(r Rect, v byte) {
	p.check(r)
	for y := r.Y; y < r.Y+r.H; y++ {
		row := p.Pix[y*p.Width+r.X : y*p.Width+r.X+r.W]
		for i := range row {
			row[i] = v
		}
	}
}

// CopyOut copies the samples of r into dst row by row and returns the
// number of bytes written. dst must hold r.Area() bytes.
func (p *Plane) CopyOut(r Rect, dst []byte) int {
	p.check(r)
	if len(dst) < r.Area() {
		panic("bounce: patch buffer too small")
	}
	n := 0
	for y := r.Y; y < r.Y+r.H; y++ {
		n += copy(dst[n:n+r.W], p.Pix[y*p.Width+r.X:])
	}
	return n
}

// CopyIn is the inverse of CopyOut.
func (p *Plane) CopyIn(r Rect, src []byte) int {
	p.check(r)
	if len(src) < r.Area() {
		panic("bounce: patch buffer too small")
	}
	n := 0
	for y := r.Y; y < r.Y+r.H; y++ {
		n += copy(p.Pix[y*p.Width+r.X:y*p.Width+r.X+r.W], src[n:])
	}
	return n
}

func (p *Plane) offset(x, y int) int {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		panic(fmt.Sprintf("bounce: sample (%d,%d) outside %dx%d plane", x, y, p.Width, p.Height))
	}
	return y*p.Width + x
}

func (p *Plane) check(r Rect) {
	if !r.In(p.Width, p.Height) {
		panic(fmt.Sprintf("bounce: region %v outside %dx%d plane", r, p.Width, p.Height))
	}
}
