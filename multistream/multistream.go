// Package multistream implements the generic multistream encoder embedded by
// the projection layer. Input channels are routed to coupled (stereo) and
// uncoupled (mono) elementary streams through a mapping table, each stream is
// encoded by its own core encoder, and the stream packets are combined with
// self-delimiting framing per RFC 6716 Appendix B.
//
// The perceptual coding itself is out of scope here: every elementary stream
// is encoded by a CoreEncoder supplied through a CoreFactory, so the same
// stream plumbing serves any codec core.
//
// Reference: RFC 6716 Appendix B, RFC 7845 Section 5.1.1,
// libopus opus_multistream_encoder.c
package multistream

import (
	"errors"
	"fmt"
)

// Errors for multistream encoding.
var (
	// ErrInvalidSampleRate indicates an unsupported sample rate.
	// Valid sample rates are: 8000, 12000, 16000, 24000, 48000.
	ErrInvalidSampleRate = errors.New("multistream: invalid sample rate (must be 8000, 12000, 16000, 24000, or 48000)")

	// ErrInvalidChannels indicates an unsupported channel count (must be 1-255).
	ErrInvalidChannels = errors.New("multistream: invalid channels (must be 1-255)")

	// ErrInvalidStreams indicates an invalid stream count (must be 1-255).
	ErrInvalidStreams = errors.New("multistream: invalid stream count (must be 1-255)")

	// ErrInvalidCoupledStreams indicates an invalid coupled stream count.
	ErrInvalidCoupledStreams = errors.New("multistream: invalid coupled streams (must be 0 to streams)")

	// ErrTooManyChannels indicates streams + coupled streams exceeding 255.
	ErrTooManyChannels = errors.New("multistream: streams + coupled streams exceed 255")

	// ErrInvalidMapping indicates an invalid channel mapping table.
	ErrInvalidMapping = errors.New("multistream: invalid mapping table")

	// ErrInvalidLayout indicates a coupled stream missing its left or right channel.
	ErrInvalidLayout = errors.New("multistream: invalid layout - coupled stream missing left or right channel")

	// ErrInvalidInput indicates input samples with incorrect length.
	ErrInvalidInput = errors.New("multistream: invalid input length")

	// ErrBufferTooSmall indicates an output buffer too small for the packet.
	ErrBufferTooSmall = errors.New("multistream: output buffer too small")

	// ErrPacketTooLarge is returned when a non-final stream packet exceeds
	// the 1275-byte limit of the self-delimiting framing.
	ErrPacketTooLarge = errors.New("multistream: stream packet too large for self-delimiting framing")

	// ErrWorkspaceTooSmall indicates a workspace smaller than EncoderSize.
	ErrWorkspaceTooSmall = errors.New("multistream: workspace too small")

	// ErrNilCoreFactory indicates a missing core encoder factory.
	ErrNilCoreFactory = errors.New("multistream: core encoder factory is nil")

	// ErrUnknownRequest indicates a control request this encoder doesn't handle.
	ErrUnknownRequest = errors.New("multistream: unknown control request")

	// ErrNilCtlValue indicates a control request with a missing output slot.
	ErrNilCtlValue = errors.New("multistream: control request output is nil")
)

// Application hints the core encoders for optimization.
type Application int

const (
	// ApplicationVoIP optimizes for speech transmission with low latency.
	ApplicationVoIP Application = iota

	// ApplicationAudio optimizes for music and high-quality audio.
	ApplicationAudio

	// ApplicationLowDelay minimizes algorithmic delay.
	ApplicationLowDelay
)

// CoreEncoder encodes one elementary stream. Implementations encode one
// frame of interleaved PCM per call into the provided output buffer and
// return the number of bytes written.
type CoreEncoder interface {
	// Encode encodes one frame of interleaved 16-bit PCM.
	Encode(pcm []int16, frameSize int, out []byte) (int, error)

	// EncodeFloat encodes one frame of interleaved float32 PCM.
	EncodeFloat(pcm []float32, frameSize int, out []byte) (int, error)

	// SetBitrate sets the stream's target bitrate in bits per second.
	SetBitrate(bitsPerSecond int)

	// Reset clears codec state for a new stream.
	Reset()
}

// CoreFactory creates the core encoder for one elementary stream.
// channels is 2 for coupled streams and 1 for uncoupled streams.
type CoreFactory func(sampleRate, channels int, application Application) (CoreEncoder, error)

// maxStreamPacketBytes is the per-stream packet assembly capacity:
// 3 full-size Opus frames plus framing overhead.
//
// Reference: libopus opus_multistream_encoder.c MS_FRAME_TMP
const maxStreamPacketBytes = 3*1275 + 7

// EncoderSize returns the workspace bytes an encoder with the given stream
// topology requires, or 0 if the topology is invalid. The workspace holds
// the per-stream packet assembly regions.
func EncoderSize(streams, coupledStreams int) int {
	if streams < 1 || streams > 255 || coupledStreams < 0 || coupledStreams > streams ||
		streams+coupledStreams > 255 {
		return 0
	}
	return streams * maxStreamPacketBytes
}

func validSampleRate(rate int) bool {
	switch rate {
	case 8000, 12000, 16000, 24000, 48000:
		return true
	default:
		return false
	}
}

// streamChannels returns the number of channels carried by a stream.
// Coupled streams (index < coupledStreams) carry 2, uncoupled streams 1.
func streamChannels(streamIdx, coupledStreams int) int {
	if streamIdx < coupledStreams {
		return 2
	}
	return 1
}

// resolveMapping interprets a mapping table entry: values 0 to 2*M-1 address
// coupled streams (even=left, odd=right), 2*M to N+M-1 address uncoupled
// streams, 255 marks a silent channel (returned as -1, -1).
func resolveMapping(mappingIdx byte, coupledStreams int) (streamIdx, chanInStream int) {
	idx := int(mappingIdx)
	if idx == 255 {
		return -1, -1
	}
	if idx < 2*coupledStreams {
		return idx / 2, idx % 2
	}
	return coupledStreams + (idx - 2*coupledStreams), 0
}

// validateLayout verifies that every coupled stream has both its left and
// right channel mapped. Mono streams need no validation.
func validateLayout(mapping []byte, coupledStreams int) error {
	leftMapped := make([]bool, coupledStreams)
	rightMapped := make([]bool, coupledStreams)

	for _, m := range mapping {
		if m == 255 {
			continue
		}
		idx := int(m)
		if idx < 2*coupledStreams {
			if idx%2 == 0 {
				leftMapped[idx/2] = true
			} else {
				rightMapped[idx/2] = true
			}
		}
	}

	for i := 0; i < coupledStreams; i++ {
		if !leftMapped[i] || !rightMapped[i] {
			return fmt.Errorf("%w: coupled stream %d", ErrInvalidLayout, i)
		}
	}
	return nil
}
