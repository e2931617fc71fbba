// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"code.hybscloud.com/atomix"
)

// MotionController is the producer role. It moves the square along one
// diagonal at a time, drawing a frame into the next free slot at every
// position, and reflects off the frame walls between runs.
//
// A run is one uninterrupted diagonal sweep. Every frame of a run shares
// one color; a new color is sampled when the next run starts.
//
// The square's live position and color belong to the producer goroutine
// alone. The consumer reads the copy recorded in each slot.
type MotionController struct {
	pool   *SlotPool
	cursor *ProducerCursor
	gate   ProducerGate
	rng    *rand.Rand
	logger *slog.Logger

	bounds Bounds
	square Rect
	step   int
	dir    Direction
	color  Color
	run    int
	frames uint64 // budget, 0 = unbounded

	drawn atomix.Uint64
}

// MotionConfig configures a [MotionController].
type MotionConfig struct {
	Step   int        // pixels per frame on each axis; must be > 0
	Frames uint64     // frame budget; 0 = unbounded
	Rand   *rand.Rand // color source; required
	Logger *slog.Logger
}

// NewMotionController creates a producer that starts at the top-left
// corner moving down-right.
func NewMotionController(pool *SlotPool, cursor *ProducerCursor, gate ProducerGate, cfg MotionConfig) *MotionController {
	if cfg.Step <= 0 {
		panic("bounce: step must be > 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bg := pool.Slot(0).Canvas
	return &MotionController{
		pool:   pool,
		cursor: cursor,
		gate:   gate,
		rng:    cfg.Rand,
		logger: logger,
		bounds: BoundsFor(bg.Width(), bg.Height(), pool.square.W, pool.square.H),
		square: pool.square,
		step:   cfg.Step,
		dir:    DownRight,
		frames: cfg.Frames,
	}
}

// Run draws frames until the budget is spent, the square escapes above
// the frame, the gate is closed, or ctx is canceled.
//
// Returns nil when stopped by the budget, the escape or ErrClosed, and
// ctx.Err() on cancellation.
func (m *MotionController) Run(ctx context.Context) error {
	for !m.spent() && m.square.Y >= -m.square.H {
		if err := m.sweep(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		m.dir = NextDirection(m.square.X, m.square.Y, m.dir, m.step, m.bounds)
	}
	return nil
}

// sweep draws one run along m.dir, then steps back onto the last valid
// position.
func (m *MotionController) sweep(ctx context.Context) error {
	m.color = RandomColor(m.rng)
	m.run++
	m.logger.Debug("square run",
		"run", m.run,
		"direction", m.dir.String(),
		"x", m.square.X,
		"y", m.square.Y,
		"color", m.color,
	)

	dx, dy := m.dir.DX*m.step, m.dir.DY*m.step
	for m.bounds.Contains(m.square.X, m.square.Y) {
		if m.spent() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.emit(); err != nil {
			return err
		}
		m.square.X += dx
		m.square.Y += dy
	}
	m.square.X -= dx
	m.square.Y -= dy
	return nil
}

// emit draws the current square into the next producer slot.
func (m *MotionController) emit() error {
	i := m.cursor.NextForProducer()
	if err := m.gate.AcquireProducerPermit(); err != nil {
		return err
	}
	m.pool.Slot(i).draw(FrameInfo{
		Seq:   m.drawn.Load(),
		Slot:  i,
		Run:   m.run,
		Rect:  m.square,
		Color: m.color,
	})
	m.gate.ReleaseToConsumer(i)
	m.drawn.Add(1)
	return nil
}

func (m *MotionController) spent() bool {
	return m.frames != 0 && m.drawn.Load() >= m.frames
}

// Drawn returns the number of frames published so far.
// Safe to call from any goroutine.
func (m *MotionController) Drawn() uint64 {
	return m.drawn.Load()
}

// Square returns the square's current footprint. Producer goroutine only.
func (m *MotionController) Square() Rect {
	return m.square
}

// Direction returns the active motion phase. Producer goroutine only.
func (m *MotionController) Direction() Direction {
	return m.dir
}
