// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"fmt"
	"math/rand/v2"
)

// MinStep is the smallest step StepFor will pick.
const MinStep = 15

// Rect is an axis-aligned pixel rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y int
	W, H int
}

// Area returns the number of pixels covered by r.
func (r Rect) Area() int {
	return r.W * r.H
}

// Half returns the footprint of r on a 4:2:0 chroma plane.
// Both corners are halved with truncation toward zero.
func (r Rect) Half() Rect {
	x0, y0 := r.X/2, r.Y/2
	x1, y1 := (r.X+r.W)/2, (r.Y+r.H)/2
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// In reports whether r lies entirely inside a w×h plane.
func (r Rect) In(w, h int) bool {
	return r.X >= 0 && r.Y >= 0 && r.W >= 0 && r.H >= 0 &&
		r.X+r.W <= w && r.Y+r.H <= h
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}

// Color is a Y'CbCr triple.
type Color struct {
	Y, Cb, Cr uint8
}

// RandomColor samples a color with every component uniform in [0, 255].
func RandomColor(rng *rand.Rand) Color {
	v := rng.Uint32()
	return Color{Y: uint8(v), Cb: uint8(v >> 8), Cr: uint8(v >> 16)}
}

// Direction is a diagonal motion phase. DX and DY are each +1 or -1.
type Direction struct {
	DX, DY int
}

// The four motion phases.
var (
	DownRight = Direction{DX: 1, DY: 1}
	DownLeft  = Direction{DX: -1, DY: 1}
	UpRight   = Direction{DX: 1, DY: -1}
	UpLeft    = Direction{DX: -1, DY: -1}
)

func (d Direction) String() string {
	v, h := "down", "right"
	if d.DY < 0 {
		v = "up"
	}
	if d.DX < 0 {
		h = "left"
	}
	return v + "-" + h
}

// Bounds is the range of valid top-left positions, [0, MaxX] × [0, MaxY].
type Bounds struct {
	MaxX, MaxY int
}

// BoundsFor returns the positions at which a w×h square fits a
// screenW×screenH frame.
func BoundsFor(screenW, screenH, w, h int) Bounds {
	return Bounds{MaxX: screenW - w, MaxY: screenH - h}
}

// Contains reports whether (x, y) is a valid top-left position.
func (b Bounds) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x <= b.MaxX && y <= b.MaxY
}

// NextDirection reflects dir off the walls of b.
//
// Each axis is flipped independently when one more step along it from
// (x, y) would leave b; flipping both axes at once is a corner reflection.
// On geometries whose travel is a multiple of step this is the same as
// flipping at the wall itself.
func NextDirection(x, y int, dir Direction, step int, b Bounds) Direction {
	if nx := x + dir.DX*step; nx < 0 || nx > b.MaxX {
		dir.DX = -dir.DX
	}
	if ny := y + dir.DY*step; ny < 0 || ny > b.MaxY {
		dir.DY = -dir.DY
	}
	return dir
}

// StepFor returns the smallest step >= least that divides travel, so a
// vertical sweep lands exactly on both walls.
//
// travel itself is returned when no smaller divisor exists or when
// travel < least; least is returned when travel is not positive.
func StepFor(travel, least int) int {
	if least < 1 {
		least = 1
	}
	if travel <= 0 {
		return least
	}
	for s := least; s < travel; s++ {
		if travel%s == 0 {
			return s
		}
	}
	return travel
}
