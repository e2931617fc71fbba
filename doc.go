// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bounce synthesizes a raw 4:2:0 video of a solid square bouncing
// inside a fixed frame and writes it as a YUV4MPEG2 stream.
//
// The package is a two-stage pipeline over a bounded pool of frame
// buffers:
//
//	MotionController ──► FlowGate ──► FrameSink ──► io.Writer
//	  (producer)        (permits)     (consumer)
//	        ▲                              │
//	        └──────── free slots ◄─────────┘
//
// The producer draws the square into the next free slot. The consumer
// writes the slot out, puts the background back under the square and
// returns the slot. Every slot starts as the same background, so only the
// square's footprint ever changes.
//
// # Quick Start
//
//	p, err := bounce.New(1920, 1080).Build(w)
//	if err != nil {
//	    return err
//	}
//	if err := p.Run(ctx); err != nil {
//	    return err
//	}
//
// Configure the geometry and flow control with the builder:
//
//	p, err := bounce.New(640, 360).
//	    Square(40, 40).
//	    Step(16).
//	    Slots(4).
//	    Frames(300).
//	    Seed(1).
//	    Build(w)
//
// # Canvas
//
// A [Canvas] holds a luma plane and two chroma planes at half resolution
// in both axes, stored back to back so a frame serializes with one write.
// Compositing is three operations on a square footprint:
//
//	c.Save(r, patch)    // copy the luma under r
//	c.Draw(r, color)    // fill luma r and chroma r.Half()
//	c.Restore(r, patch) // put the luma back, chroma to Neutral
//
// Chroma under the square is never saved; Restore resets it to [Neutral].
// Backgrounds therefore carry their detail in luma only.
//
// # Flow Control
//
// A [FlowGate] is a Lamport ring of slot indices with two-phase operations
// on each side. It behaves as a pair of counting semaphores:
//
//	g.AcquireProducerPermit() // wait for free > 0
//	g.ReleaseToConsumer(i)    // filled++
//	g.AcquireConsumerPermit() // wait for filled > 0
//	g.ReleaseToProducer()     // free++
//
// A slot between acquire and release is in flight and belongs to exactly
// one role; free + filled + in flight always equals the permit count.
// The gate hands out capacity-1 permits by default, leaving one slot
// unclaimed; [Builder.ReserveSlot] with false uses every slot.
//
// Blocking acquires spin briefly and then back off with [iox.Backoff].
// Non-blocking variants return [ErrWouldBlock].
//
// # Motion
//
// The square moves one step per frame along one of four diagonals. When a
// step would leave the frame the run ends, the square steps back onto the
// last valid position and [NextDirection] flips the offending axes. Each
// run gets a new random color.
//
// # Stopping
//
// Producer and consumer share one frame budget. The producer closes the
// gate when it stops; the consumer drains what was already filled and
// then stops too. Canceling the context passed to [Pipeline.Run] closes
// the gate, waking either role.
//
// # Thread Safety
//
// The design supports exactly one producer goroutine and one consumer
// goroutine. Cursors and gate sides are not safe for a second goroutine
// on the same side; extending to several producers or consumers needs a
// multi-producer or multi-consumer queue in place of the gate and cursors.
//
// # Race Detection
//
// Slot pixels are handed between goroutines through acquire-release
// atomics in [code.hybscloud.com/atomix], which Go's race detector does
// not observe. Concurrent tests are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package bounce
