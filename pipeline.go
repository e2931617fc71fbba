// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs one [MotionController] and one [FrameSink] over a shared
// [SlotPool] and [FlowGate], writing a YUV4MPEG2 stream.
//
// Lifecycle: Build → Run (once) → Stats.
type Pipeline struct {
	id     uuid.UUID
	opts   Options
	out    *bufio.Writer
	pool   *SlotPool
	gate   *FlowGate
	motion *MotionController
	sink   *FrameSink
	logger *slog.Logger
}

func newPipeline(w io.Writer, opts Options) (*Pipeline, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil writer", ErrSinkUnavailable)
	}
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	bg := opts.background
	if bg == nil {
		var err error
		if bg, err = NewBackground(opts.width, opts.height, rng); err != nil {
			return nil, err
		}
	}
	pool, err := NewSlotPool(opts.slots, bg, opts.squareW, opts.squareH)
	if err != nil {
		return nil, err
	}
	producer, consumer := pool.Cursors()
	gate := NewFlowGate(opts.slots, opts.reserve)

	id := uuid.New()
	logger := opts.logger.With("stream", id.String())
	out := bufio.NewWriterSize(w, FrameSize(opts.width, opts.height)+len(frameMarker)+1)

	sink := NewFrameSink(out, pool, consumer, gate, opts.frames)
	if opts.onFrame != nil {
		sink.OnFrame(opts.onFrame)
	}
	return &Pipeline{
		id:   id,
		opts: opts,
		out:  out,
		pool: pool,
		gate: gate,
		motion: NewMotionController(pool, producer, gate, MotionConfig{
			Step:   opts.step,
			Frames: opts.frames,
			Rand:   rng,
			Logger: logger,
		}),
		sink:   sink,
		logger: logger,
	}, nil
}

// ID returns the stream identifier used in log records.
func (p *Pipeline) ID() string {
	return p.id.String()
}

// Header returns the stream header Run writes.
func (p *Pipeline) Header() Y4MHeader {
	return Y4MHeader{Width: p.opts.width, Height: p.opts.height, Rate: p.opts.rate}
}

// Step returns the per-frame step in pixels.
func (p *Pipeline) Step() int {
	return p.opts.step
}

// Seed returns the seed of the random source, for reproducing a run.
func (p *Pipeline) Seed() uint64 {
	return p.opts.seed
}

// Run writes the stream header and then runs the producer and consumer
// goroutines until the frame budget is served.
//
// The producer closes the gate when it stops, so the consumer drains
// whatever is left and returns even if the producer stopped early. A
// consumer failure or ctx cancellation closes the gate as well, which
// wakes a producer blocked on a full pool.
//
// Run must be called at most once.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("pipeline starting",
		"width", p.opts.width,
		"height", p.opts.height,
		"square", fmt.Sprintf("%dx%d", p.opts.squareW, p.opts.squareH),
		"step", p.opts.step,
		"slots", p.pool.Cap(),
		"permits", p.gate.Permits(),
		"frames", p.opts.frames,
		"seed", p.opts.seed,
	)

	if err := WriteHeader(p.out, p.Header()); err != nil {
		return fmt.Errorf("bounce: write header: %w", err)
	}

	stop := context.AfterFunc(ctx, p.gate.Close)
	defer stop()

	var wg sync.WaitGroup
	var produceErr, consumeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer p.gate.Close()
		produceErr = p.motion.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		consumeErr = p.sink.Run(ctx)
		if consumeErr != nil {
			p.gate.Close()
		}
	}()
	wg.Wait()

	flushErr := p.out.Flush()
	if flushErr != nil {
		flushErr = fmt.Errorf("bounce: flush: %w", flushErr)
	}
	ctxErr := ctx.Err()
	if ctxErr != nil {
		if errors.Is(produceErr, ctxErr) {
			produceErr = nil
		}
		if errors.Is(consumeErr, ctxErr) {
			consumeErr = nil
		}
	}
	err := errors.Join(ctxErr, produceErr, consumeErr, flushErr)

	stats := p.Stats()
	attrs := []any{
		"drawn", stats.Drawn,
		"served", stats.Served,
		"elapsed", time.Since(start),
	}
	if err != nil {
		p.logger.Error("pipeline stopped", append(attrs, "error", err)...)
	} else {
		p.logger.Info("pipeline finished", attrs...)
	}
	return err
}

// Stats is a snapshot of pipeline progress.
type Stats struct {
	Drawn  uint64 // frames published by the producer
	Served uint64 // frames written by the consumer
	Gate   GateCounts
}

// Stats returns current progress. Safe to call from any goroutine.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Drawn:  p.motion.Drawn(),
		Served: p.sink.Served(),
		Gate:   p.gate.Counts(),
	}
}
