// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

// Reference parameters.
const (
	DefaultSquare = 120
	DefaultSlots  = 10
	DefaultFrames = 2000
	DefaultRate   = 30
)

// Options configures pipeline creation.
type Options struct {
	// Geometry
	width, height int
	squareW       int
	squareH       int
	step          int // 0 selects StepFor(height-squareH, MinStep)

	// Flow control
	slots   int
	frames  uint64 // shared budget, 0 = unbounded
	reserve bool   // capacity-1 permits

	// Stream
	rate int

	seed       uint64
	seeded     bool
	background *Canvas
	logger     *slog.Logger
	onFrame    FrameFunc
}

// Builder creates pipelines with fluent configuration.
//
// Defaults are the reference parameters: a 120×120 square, 10 slots,
// capacity-1 permits, 2000 frames at 30 fps, and a step derived from the
// vertical travel.
//
// Example:
//
//	p, err := bounce.New(1920, 1080).
//	    Slots(10).
//	    Frames(2000).
//	    Build(w)
//	if err != nil {
//	    return err
//	}
//	err = p.Run(ctx)
type Builder struct {
	opts Options
}

// New creates a pipeline builder for a width×height frame.
func New(width, height int) *Builder {
	return &Builder{opts: Options{
		width:   width,
		height:  height,
		squareW: DefaultSquare,
		squareH: DefaultSquare,
		slots:   DefaultSlots,
		frames:  DefaultFrames,
		reserve: true,
		rate:    DefaultRate,
	}}
}

// Square sets the square size in pixels.
func (b *Builder) Square(w, h int) *Builder {
	b.opts.squareW, b.opts.squareH = w, h
	return b
}

// Step sets the distance the square moves per frame along each axis.
// Zero restores the derived default.
func (b *Builder) Step(step int) *Builder {
	b.opts.step = step
	return b
}

// Slots sets the pool capacity.
func (b *Builder) Slots(n int) *Builder {
	b.opts.slots = n
	return b
}

// Frames sets the frame budget shared by producer and consumer.
// Zero means run until the context is canceled.
func (b *Builder) Frames(n uint64) *Builder {
	b.opts.frames = n
	return b
}

// ReserveSlot selects the permit policy. With reserve set (the default)
// the gate hands out capacity-1 permits; otherwise capacity.
func (b *Builder) ReserveSlot(reserve bool) *Builder {
	b.opts.reserve = reserve
	return b
}

// Rate sets the frame rate written to the stream header.
func (b *Builder) Rate(fps int) *Builder {
	b.opts.rate = fps
	return b
}

// Seed fixes the random source for the background and square colors.
func (b *Builder) Seed(seed uint64) *Builder {
	b.opts.seed, b.opts.seeded = seed, true
	return b
}

// Background replaces the random background. The canvas is copied into
// every slot and is not retained.
func (b *Builder) Background(c *Canvas) *Builder {
	b.opts.background = c
	return b
}

// Logger sets the structured logger. Defaults to slog.Default().
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.opts.logger = l
	return b
}

// OnFrame registers a consumer-side frame observer.
func (b *Builder) OnFrame(fn FrameFunc) *Builder {
	b.opts.onFrame = fn
	return b
}

// Build validates the configuration and allocates every slot.
//
// All allocation happens here, before any goroutine starts; Build fails
// with ErrInvalidGeometry when the configuration cannot be drawn.
func (b *Builder) Build(w io.Writer) (*Pipeline, error) {
	opts := b.opts
	if opts.step == 0 {
		opts.step = StepFor(opts.height-opts.squareH, MinStep)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !opts.seeded {
		opts.seed = rand.Uint64()
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	return newPipeline(w, opts)
}

func (o *Options) validate() error {
	switch {
	case o.width <= 0 || o.height <= 0 || o.width%2 != 0 || o.height%2 != 0:
		return fmt.Errorf("%w: frame %dx%d must have positive even dimensions", ErrInvalidGeometry, o.width, o.height)
	case o.squareW <= 0 || o.squareH <= 0 || o.squareW > o.width || o.squareH > o.height:
		return fmt.Errorf("%w: %dx%d square does not fit %dx%d frame", ErrInvalidGeometry, o.squareW, o.squareH, o.width, o.height)
	case o.step <= 0:
		return fmt.Errorf("%w: step %d, must be > 0", ErrInvalidGeometry, o.step)
	case o.slots < 2:
		return fmt.Errorf("%w: %d slots, must be >= 2", ErrInvalidGeometry, o.slots)
	case o.rate <= 0:
		return fmt.Errorf("%w: rate %d, must be > 0", ErrInvalidGeometry, o.rate)
	case o.background != nil && (o.background.Width() != o.width || o.background.Height() != o.height):
		return fmt.Errorf("%w: background %dx%d, frame %dx%d", ErrInvalidGeometry,
			o.background.Width(), o.background.Height(), o.width, o.height)
	}
	return nil
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
