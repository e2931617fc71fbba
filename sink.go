// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"context"
	"errors"
	"fmt"
	"io"

	"code.hybscloud.com/atomix"
)

// FrameSink is the consumer role. It drains filled slots in order, writes
// each one to the output stream, puts the slot's background back and
// returns the slot to the producer.
type FrameSink struct {
	w       io.Writer
	pool    *SlotPool
	cursor  *ConsumerCursor
	gate    ConsumerGate
	frames  uint64 // budget, 0 = unbounded
	onFrame FrameFunc

	served atomix.Uint64
}

// NewFrameSink creates a consumer writing framed 4:2:0 pictures to w.
// frames is the budget shared with the producer; 0 means unbounded.
func NewFrameSink(w io.Writer, pool *SlotPool, cursor *ConsumerCursor, gate ConsumerGate, frames uint64) *FrameSink {
	return &FrameSink{
		w:      w,
		pool:   pool,
		cursor: cursor,
		gate:   gate,
		frames: frames,
	}
}

// OnFrame registers fn to observe each frame before its slot is restored.
// Must be called before Run.
func (s *FrameSink) OnFrame(fn FrameFunc) {
	s.onFrame = fn
}

// Run serves frames until the budget is spent, the gate is closed and
// drained, or ctx is canceled.
//
// Returns nil on budget or ErrClosed, ctx.Err() on cancellation, and the
// wrapped write error if the output fails.
func (s *FrameSink) Run(ctx context.Context) error {
	for s.frames == 0 || s.served.Load() < s.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		slot, err := s.gate.AcquireConsumerPermit()
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.serve(slot); err != nil {
			return err
		}
	}
	return nil
}

// serve writes the slot published by the gate. The gate and the consumer
// cursor advance in lockstep, so they always agree on the slot.
func (s *FrameSink) serve(published int) error {
	i := s.cursor.NextForConsumer()
	if i != published {
		panic(fmt.Sprintf("bounce: slot order violated: gate published %d, cursor at %d", published, i))
	}
	slot := s.pool.Slot(i)
	if err := WriteFrame(s.w, slot.Canvas); err != nil {
		return fmt.Errorf("bounce: write frame %d: %w", slot.info.Seq, err)
	}
	if s.onFrame != nil {
		s.onFrame(slot.info, slot.Canvas)
	}
	slot.restore()
	s.gate.ReleaseToProducer()
	s.served.Add(1)
	return nil
}

// Served returns the number of frames written so far.
// Safe to call from any goroutine.
func (s *FrameSink) Served() uint64 {
	return s.served.Load()
}
