// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a permit is not available right now.
//
// For TryAcquireProducerPermit: every free slot is filled or being read
// For TryAcquireConsumerPermit: no filled slot is waiting
//
// ErrWouldBlock is a control flow signal, not a failure. The blocking
// Acquire variants retry on it with [iox.Backoff].
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed is returned by gate operations after [FlowGate.Close].
//
// The producer stops drawing when it sees ErrClosed. The consumer only
// sees it once every published frame has been drained.
var ErrClosed = errors.New("bounce: gate closed")

// ErrInvalidGeometry reports a screen/square/step combination that would
// let a pixel operation leave its plane.
var ErrInvalidGeometry = errors.New("bounce: invalid geometry")

// ErrSinkUnavailable reports that the output sink could not be opened.
// It is fatal at startup: no frame is drawn without a sink.
var ErrSinkUnavailable = errors.New("bounce: sink unavailable")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
