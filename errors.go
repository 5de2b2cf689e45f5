// errors.go defines public error types for the projection package.

package projection

import (
	"errors"
	"fmt"
)

// Error categories. Every failure returned by this package wraps exactly one
// of these, so callers can classify with errors.Is without matching the
// specific condition.
var (
	// ErrBadArgument indicates malformed or inconsistent caller input.
	ErrBadArgument = errors.New("projection: bad argument")

	// ErrUnimplemented indicates a mapping family other than 253.
	ErrUnimplemented = errors.New("projection: unimplemented")

	// ErrAllocation indicates the encoder state could not be sized or placed.
	ErrAllocation = errors.New("projection: allocation failed")
)

// Specific error conditions.
var (
	// ErrInvalidChannels indicates an invalid ambisonics channel count.
	// Valid counts are (order+1)^2 or (order+1)^2 + 2 for orders 0-14.
	ErrInvalidChannels = fmt.Errorf("%w: invalid ambisonics channel count", ErrBadArgument)

	// ErrUnsupportedMappingFamily indicates a mapping family other than 253.
	// Only the projection ambisonics convention is defined for this layer.
	ErrUnsupportedMappingFamily = fmt.Errorf("%w: mapping family must be 253", ErrUnimplemented)

	// ErrUnsupportedOrder indicates a channel count that validates but has no
	// precomputed projection matrix. Matrices exist for orders 1-3 only.
	ErrUnsupportedOrder = fmt.Errorf("%w: no precomputed matrix for ambisonics order", ErrBadArgument)

	// ErrMatrixTopologyMismatch indicates a matrix whose dimensions cannot
	// cover the stream topology derived from the channel count.
	ErrMatrixTopologyMismatch = fmt.Errorf("%w: matrix dimensions do not cover stream topology", ErrBadArgument)

	// ErrInvalidFrameSize indicates the PCM input length doesn't match
	// frameSize * channels.
	ErrInvalidFrameSize = fmt.Errorf("%w: pcm length does not match frame size", ErrBadArgument)

	// ErrNilCtlValue indicates a control request with a missing output slot.
	ErrNilCtlValue = fmt.Errorf("%w: control request output is nil", ErrBadArgument)

	// ErrInvalidMatrixSize indicates a demixing matrix destination whose
	// length differs from (streams+coupled) * channels * 2 bytes.
	ErrInvalidMatrixSize = fmt.Errorf("%w: demixing matrix destination size mismatch", ErrBadArgument)

	// ErrNilCoreFactory indicates no elementary stream codec was supplied.
	ErrNilCoreFactory = fmt.Errorf("%w: core encoder factory is required", ErrBadArgument)

	// ErrEncoderClosed indicates use of an encoder after Close.
	ErrEncoderClosed = errors.New("projection: encoder is closed")
)
