// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// spinLimit is how many pause rounds a blocking acquire spends before
// falling back to iox.Backoff.
const spinLimit = 64

// FlowGate is a bounded single-producer single-consumer hand-off of slot
// indices. It plays the role of a pair of counting semaphores, "free" and
// "filled", whose sum never exceeds the number of permits.
//
// Based on Lamport's ring buffer with cached index optimization, split into
// two phases on each side: a permit is acquired first and only released
// after the slot has been written (producer) or read and restored
// (consumer). Between the phases the slot is in flight and belongs to
// exactly one role.
//
//	free     = permits - (tail - head) - producer in flight
//	filled   = (tail - head) - consumer in flight
//	in flight = producer in flight + consumer in flight
//
// Indices are published with release stores and observed with acquire
// loads, so everything written to a slot before ReleaseToConsumer is
// visible to the consumer after AcquireConsumerPermit, and the same holds
// in the other direction for ReleaseToProducer.
type FlowGate struct {
	_          pad
	head       atomix.Uint64 // Consumer releases here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	reading    atomix.Bool
	_          pad
	tail       atomix.Uint64 // Producer publishes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	writing    atomix.Bool
	_          pad
	closed     atomix.Bool
	_          pad
	buffer     []int
	mask       uint64
	permits    uint64
}

var _ Gate = (*FlowGate)(nil)

// NewFlowGate creates a gate for a pool of capacity slots.
//
// With reserve set the gate hands out capacity-1 permits, leaving one
// slot that the producer can never claim while all others are filled;
// without it every slot can be in use at once.
//
// Panics if capacity < 2.
func NewFlowGate(capacity int, reserve bool) *FlowGate {
	if capacity < 2 {
		panic("bounce: capacity must be >= 2")
	}
	permits := uint64(capacity)
	if reserve {
		permits--
	}
	n := uint64(roundToPow2(int(permits)))
	return &FlowGate{
		buffer:  make([]int, n),
		mask:    n - 1,
		permits: permits,
	}
}

// Permits returns the number of permits the gate was created with.
func (g *FlowGate) Permits() int {
	return int(g.permits)
}

// TryAcquireProducerPermit takes a free permit without blocking.
// Returns ErrWouldBlock if none is free and ErrClosed after Close.
// Panics if the producer already holds a permit.
func (g *FlowGate) TryAcquireProducerPermit() error {
	if g.writing.LoadAcquire() {
		panic("bounce: producer permit already held")
	}
	if g.closed.LoadAcquire() {
		return ErrClosed
	}
	tail := g.tail.LoadRelaxed()
	if tail-g.cachedHead >= g.permits {
		g.cachedHead = g.head.LoadAcquire()
		if tail-g.cachedHead >= g.permits {
			return ErrWouldBlock
		}
	}
	g.writing.StoreRelease(true)
	return nil
}

// AcquireProducerPermit blocks until a permit is free.
// Returns ErrClosed if the gate is closed before or while waiting.
func (g *FlowGate) AcquireProducerPermit() error {
	return g.wait(g.TryAcquireProducerPermit)
}

// ReleaseToConsumer publishes slot as filled. Call strictly after the
// frame in slot is fully drawn.
// Panics if the producer holds no permit.
func (g *FlowGate) ReleaseToConsumer(slot int) {
	if !g.writing.LoadAcquire() {
		panic("bounce: ReleaseToConsumer without producer permit")
	}
	tail := g.tail.LoadRelaxed()
	g.buffer[tail&g.mask] = slot
	g.writing.StoreRelease(false)
	g.tail.StoreRelease(tail + 1)
}

// TryAcquireConsumerPermit takes a filled permit without blocking and
// returns the slot the producer published with it.
// Returns ErrWouldBlock if nothing is filled and ErrClosed once the gate
// is closed and drained.
// Panics if the consumer already holds a permit.
func (g *FlowGate) TryAcquireConsumerPermit() (int, error) {
	if g.reading.LoadAcquire() {
		panic("bounce: consumer permit already held")
	}
	head := g.head.LoadRelaxed()
	if head >= g.cachedTail {
		g.cachedTail = g.tail.LoadAcquire()
		if head >= g.cachedTail {
			if !g.closed.LoadAcquire() {
				return -1, ErrWouldBlock
			}
			// The producer may have published between the two loads.
			g.cachedTail = g.tail.LoadAcquire()
			if head >= g.cachedTail {
				return -1, ErrClosed
			}
		}
	}
	g.reading.StoreRelease(true)
	return g.buffer[head&g.mask], nil
}

// AcquireConsumerPermit blocks until a slot is filled and returns its index.
// Returns ErrClosed once the gate is closed and every filled slot has been
// consumed.
func (g *FlowGate) AcquireConsumerPermit() (int, error) {
	var slot int
	err := g.wait(func() error {
		var err error
		slot, err = g.TryAcquireConsumerPermit()
		return err
	})
	return slot, err
}

// ReleaseToProducer returns the consumer's slot to the free pool. Call
// strictly after the slot has been serialized and restored.
// Panics if the consumer holds no permit.
func (g *FlowGate) ReleaseToProducer() {
	if !g.reading.LoadAcquire() {
		panic("bounce: ReleaseToProducer without consumer permit")
	}
	head := g.head.LoadRelaxed()
	g.reading.StoreRelease(false)
	g.head.StoreRelease(head + 1)
}

// Close is the done signal. After Close the producer can no longer acquire
// permits and the consumer receives ErrClosed once it has drained every
// slot already filled. Blocked acquires wake up.
//
// Close is idempotent and safe to call from any goroutine.
func (g *FlowGate) Close() {
	g.closed.StoreRelease(true)
}

// Closed reports whether Close has been called.
func (g *FlowGate) Closed() bool {
	return g.closed.LoadAcquire()
}

// GateCounts is a snapshot of the semaphore view of a [FlowGate].
type GateCounts struct {
	Free     int
	Filled   int
	InFlight int
}

// Counts returns the current free/filled/in-flight split.
//
// Called concurrently with both roles the snapshot may be momentarily
// inconsistent; from either role, or with the pipeline idle, the three
// values always sum to Permits.
func (g *FlowGate) Counts() GateCounts {
	head := g.head.LoadAcquire()
	tail := g.tail.LoadAcquire()
	published := int(tail - head)
	var c GateCounts
	if g.writing.LoadAcquire() {
		c.InFlight++
		c.Free--
	}
	if g.reading.LoadAcquire() {
		c.InFlight++
		c.Filled--
	}
	c.Free += int(g.permits) - published
	c.Filled += published
	return c
}

// wait retries try until it stops returning ErrWouldBlock: first with CPU
// pauses, then with adaptive backoff.
func (g *FlowGate) wait(try func() error) error {
	sw := spin.Wait{}
	for range spinLimit {
		err := try()
		if !IsWouldBlock(err) {
			return err
		}
		sw.Once()
	}
	backoff := iox.Backoff{}
	for {
		err := try()
		if !IsWouldBlock(err) {
			return err
		}
		backoff.Wait()
	}
}
