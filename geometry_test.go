// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce_test

import (
	"math/rand/v2"
	"testing"

	"code.hybscloud.com/bounce"
)

// =============================================================================
// Reflection
// =============================================================================

var reference = bounce.BoundsFor(1920, 1080, 120, 120)

func TestNextDirectionRightWall(t *testing.T) {
	// One pixel past the last position from which a full step still fits.
	x := 1920 - 120 - 15 + 1
	got := bounce.NextDirection(x, 500, bounce.DownRight, 15, reference)
	if got != bounce.DownLeft {
		t.Fatalf("NextDirection(%d): got %v, want %v", x, got, bounce.DownLeft)
	}
}

func TestNextDirectionNoWall(t *testing.T) {
	for _, dir := range []bounce.Direction{bounce.DownRight, bounce.DownLeft, bounce.UpRight, bounce.UpLeft} {
		if got := bounce.NextDirection(900, 480, dir, 15, reference); got != dir {
			t.Fatalf("NextDirection(%v) in the open: got %v", dir, got)
		}
	}
}

func TestNextDirectionWalls(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		dir  bounce.Direction
		want bounce.Direction
	}{
		{"bottom", 600, 960, bounce.DownRight, bounce.UpRight},
		{"top", 600, 0, bounce.UpLeft, bounce.DownLeft},
		{"left", 0, 300, bounce.UpLeft, bounce.UpRight},
		{"left inside step", 5, 300, bounce.DownLeft, bounce.DownRight},
		{"right exact", 1800, 300, bounce.UpRight, bounce.UpLeft},
		{"corner bottom-right", 1800, 960, bounce.DownRight, bounce.UpLeft},
		{"corner top-left", 0, 0, bounce.UpLeft, bounce.DownRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bounce.NextDirection(tt.x, tt.y, tt.dir, 15, reference)
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	want := map[bounce.Direction]string{
		bounce.DownRight: "down-right",
		bounce.DownLeft:  "down-left",
		bounce.UpRight:   "up-right",
		bounce.UpLeft:    "up-left",
	}
	for d, s := range want {
		if d.String() != s {
			t.Fatalf("String: got %q, want %q", d.String(), s)
		}
	}
}

// =============================================================================
// Step selection
// =============================================================================

func TestStepFor(t *testing.T) {
	tests := []struct {
		travel, least, want int
	}{
		{960, 15, 15}, // reference: 1080 - 120
		{140, 15, 20},
		{17, 15, 17}, // prime: only travel itself divides
		{10, 15, 10}, // shorter than the minimum
		{0, 15, 15},
		{-4, 15, 15},
		{12, 0, 1},
	}
	for _, tt := range tests {
		if got := bounce.StepFor(tt.travel, tt.least); got != tt.want {
			t.Fatalf("StepFor(%d, %d): got %d, want %d", tt.travel, tt.least, got, tt.want)
		}
	}
}

// =============================================================================
// Rectangles
// =============================================================================

func TestRectHalf(t *testing.T) {
	tests := []struct {
		r, want bounce.Rect
	}{
		{bounce.Rect{X: 0, Y: 0, W: 60, H: 60}, bounce.Rect{X: 0, Y: 0, W: 30, H: 30}},
		{bounce.Rect{X: 1, Y: 3, W: 120, H: 120}, bounce.Rect{X: 0, Y: 1, W: 60, H: 60}},
		{bounce.Rect{X: 3, Y: 0, W: 5, H: 5}, bounce.Rect{X: 1, Y: 0, W: 3, H: 2}},
		{bounce.Rect{X: 1800, Y: 960, W: 120, H: 120}, bounce.Rect{X: 900, Y: 480, W: 60, H: 60}},
	}
	for _, tt := range tests {
		if got := tt.r.Half(); got != tt.want {
			t.Fatalf("%v.Half(): got %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestRectIn(t *testing.T) {
	if !(bounce.Rect{X: 140, Y: 140, W: 60, H: 60}).In(200, 200) {
		t.Fatalf("rect touching the far corner must fit")
	}
	if (bounce.Rect{X: 141, Y: 0, W: 60, H: 60}).In(200, 200) {
		t.Fatalf("rect crossing the right edge must not fit")
	}
	if (bounce.Rect{X: -1, Y: 0, W: 1, H: 1}).In(200, 200) {
		t.Fatalf("rect left of the plane must not fit")
	}
}

func TestRandomColorVaries(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[bounce.Color]bool)
	for range 64 {
		seen[bounce.RandomColor(rng)] = true
	}
	if len(seen) < 60 {
		t.Fatalf("distinct colors: got %d of 64", len(seen))
	}
}
