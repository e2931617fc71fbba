// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

// Gate is the combined producer-consumer permit interface.
//
// A permit is the right to touch one slot. The producer side acquires a
// permit before drawing into a slot and hands it to the consumer once the
// frame is complete; the consumer side acquires that permit before reading
// the slot and hands it back after the slot's background is restored.
//
// Example:
//
//	g := bounce.NewFlowGate(10, true) // 9 permits
//
//	// Producer
//	if err := g.AcquireProducerPermit(); err != nil {
//	    return err // ErrClosed
//	}
//	draw(slot)
//	g.ReleaseToConsumer(slot)
//
//	// Consumer
//	slot, err := g.AcquireConsumerPermit()
//	if err != nil {
//	    return err // ErrClosed, queue drained
//	}
//	serialize(slot)
//	g.ReleaseToProducer()
type Gate interface {
	ProducerGate
	ConsumerGate
	Permits() int
}

// ProducerGate is the producer half of a [Gate].
//
// Exactly one goroutine may use a ProducerGate.
type ProducerGate interface {
	// AcquireProducerPermit blocks until a slot is free.
	// Returns ErrClosed if the gate was closed.
	AcquireProducerPermit() error

	// ReleaseToConsumer publishes the fully drawn slot.
	// Panics if no producer permit is held.
	ReleaseToConsumer(slot int)
}

// ConsumerGate is the consumer half of a [Gate].
//
// Exactly one goroutine may use a ConsumerGate.
type ConsumerGate interface {
	// AcquireConsumerPermit blocks until a filled slot is available and
	// returns the slot index the producer published.
	// Returns ErrClosed once the gate is closed and drained.
	AcquireConsumerPermit() (int, error)

	// ReleaseToProducer returns the slot held by the consumer.
	// Panics if no consumer permit is held.
	ReleaseToProducer()
}

// FrameInfo describes one frame as it crosses the gate.
type FrameInfo struct {
	Seq   uint64 // 0-based frame number in drawing order
	Slot  int    // pool index the frame was drawn into
	Run   int    // diagonal run the frame belongs to
	Rect  Rect   // square footprint
	Color Color  // square color
}

// FrameFunc observes a frame on the consumer side.
//
// It runs after the frame is serialized and before the slot is restored,
// so the canvas still shows the square. The canvas must not be retained.
type FrameFunc func(info FrameInfo, c *Canvas)
