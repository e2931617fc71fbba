// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import "fmt"

// Slot is one reusable frame buffer in a [SlotPool].
//
// Besides its canvas a slot remembers where the square was last drawn into
// it and keeps the luma that was under the square, so the consumer can
// restore the background without looking at the producer's live state.
type Slot struct {
	Canvas *Canvas

	overlay []byte    // luma saved from under info.Rect
	info    FrameInfo // last frame drawn into this slot
}

// Info returns the frame last drawn into the slot.
func (s *Slot) Info() FrameInfo {
	return s.info
}

// draw saves the background under info.Rect and paints the square.
func (s *Slot) draw(info FrameInfo) {
	s.info = info
	s.Canvas.Save(info.Rect, s.overlay)
	s.Canvas.Draw(info.Rect, info.Color)
}

// restore undoes the last draw.
func (s *Slot) restore() {
	s.Canvas.Restore(s.info.Rect, s.overlay)
}

// SlotPool is a fixed ring of slots shared by one producer and one
// consumer.
//
// Each role walks the ring through its own cursor. The cursors are handed
// out once by [SlotPool.Cursors]; since exactly one goroutine advances each
// of them, no locking is needed. A second producer or consumer would race
// on its cursor.
//
// Memory: capacity full frames plus capacity square-sized overlays
type SlotPool struct {
	slots  []Slot
	square Rect
	split  bool
}

// NewSlotPool allocates capacity slots, each a copy of background, with an
// overlay buffer sized for a w×h square.
//
// Returns ErrInvalidGeometry if capacity < 2 or the square does not fit.
func NewSlotPool(capacity int, background *Canvas, w, h int) (*SlotPool, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("%w: pool capacity %d, must be >= 2", ErrInvalidGeometry, capacity)
	}
	if w <= 0 || h <= 0 || w > background.Width() || h > background.Height() {
		return nil, fmt.Errorf("%w: %dx%d square on %dx%d canvas", ErrInvalidGeometry, w, h, background.Width(), background.Height())
	}
	p := &SlotPool{
		slots:  make([]Slot, capacity),
		square: Rect{W: w, H: h},
	}
	for i := range p.slots {
		p.slots[i] = Slot{
			Canvas:  background.Clone(),
			overlay: make([]byte, w*h),
			info:    FrameInfo{Slot: i, Rect: p.square},
		}
	}
	return p, nil
}

// Cap returns the number of slots.
func (p *SlotPool) Cap() int {
	return len(p.slots)
}

// Slot returns slot i.
func (p *SlotPool) Slot(i int) *Slot {
	return &p.slots[i]
}

// Cursors returns the producer and consumer cursors. Both start at slot 0.
// Panics if called more than once.
func (p *SlotPool) Cursors() (*ProducerCursor, *ConsumerCursor) {
	if p.split {
		panic("bounce: slot pool cursors already taken")
	}
	p.split = true
	return &ProducerCursor{cursor{pool: p}}, &ConsumerCursor{cursor{pool: p}}
}

type cursor struct {
	pool *SlotPool
	next int
}

// advance returns the current index and moves to the next one, wrapping
// at the pool capacity. It never blocks.
func (c *cursor) advance() int {
	i := c.next
	c.next++
	if c.next == len(c.pool.slots) {
		c.next = 0
	}
	return i
}

// ProducerCursor is the producer's position in a [SlotPool].
type ProducerCursor struct {
	cursor
}

// NextForProducer returns the next slot index to draw into.
func (c *ProducerCursor) NextForProducer() int {
	return c.advance()
}

// ConsumerCursor is the consumer's position in a [SlotPool].
type ConsumerCursor struct {
	cursor
}

// NextForConsumer returns the next slot index to serialize.
func (c *ConsumerCursor) NextForConsumer() int {
	return c.advance()
}
