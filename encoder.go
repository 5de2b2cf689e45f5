// encoder.go implements the projection Encoder lifecycle: creation,
// the int16 and float32 encode pipelines, and Close.

package projection

import (
	"fmt"

	"github.com/thesyncim/go-projection/matrix"
	"github.com/thesyncim/go-projection/multistream"
)

// Application hints the core encoders for optimization.
type Application = multistream.Application

// Application hint values, re-exported for convenience.
const (
	ApplicationVoIP     = multistream.ApplicationVoIP
	ApplicationAudio    = multistream.ApplicationAudio
	ApplicationLowDelay = multistream.ApplicationLowDelay
)

// Encoder encodes ambisonic PCM through a projection mixing matrix into a
// multistream encoder. All state lives in one contiguous arena; see the
// package documentation for the layout.
//
// An Encoder is NOT safe for concurrent use. Encode allocates its scratch
// per call, so distinct Encoder instances never share mutable state.
type Encoder struct {
	arena []byte
	ms    *multistream.Encoder

	sampleRate     int
	channels       int
	streams        int
	coupledStreams int
	orderPlusOne   int
}

// NewEncoder creates a projection encoder for the given ambisonic channel
// count. mappingFamily must be MappingFamilyAmbisonics (253); any other
// family fails with ErrUnsupportedMappingFamily. newCore supplies the
// elementary stream codec for the embedded multistream encoder.
//
// On success the encoder's stream topology is available through Streams and
// CoupledStreams: streams = ceil(channels/2), coupled = floor(channels/2).
func NewEncoder(sampleRate, channels, mappingFamily int, application Application, newCore multistream.CoreFactory) (*Encoder, error) {
	if mappingFamily != MappingFamilyAmbisonics {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedMappingFamily, mappingFamily)
	}
	if newCore == nil {
		return nil, ErrNilCoreFactory
	}

	streams, coupledStreams, orderPlusOne, err := streamsFromChannels(channels, mappingFamily)
	if err != nil {
		return nil, err
	}

	// Select precomputed matrices by channel count. The lookup is total: a
	// channel count can validate (orders up to 14) while no table exists
	// for it.
	mixingTable, ok := mixingTableForChannels(channels)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedOrder, orderPlusOne-1)
	}
	demixingTable, ok := demixingTableForChannels(channels)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedOrder, orderPlusOne-1)
	}

	size := encoderSize(channels, mappingFamily)
	if size == 0 {
		return nil, fmt.Errorf("%w: encoder state sizing failed", ErrAllocation)
	}

	e := &Encoder{
		arena:          make([]byte, size),
		sampleRate:     sampleRate,
		channels:       channels,
		streams:        streams,
		coupledStreams: coupledStreams,
		orderPlusOne:   orderPlusOne,
	}

	// Record the actual matrix byte sizes (table shapes, not the reserved
	// worst-case capacity), then place the matrices at the offsets those
	// sizes imply.
	e.recordSizes(
		matrix.Size(mixingTable.rows, mixingTable.cols),
		matrix.Size(demixingTable.rows, demixingTable.cols),
	)
	if err := matrix.Init(e.mixingBlob(), mixingTable.rows, mixingTable.cols, mixingTable.gain, mixingTable.data); err != nil {
		return nil, err
	}
	if err := matrix.Init(e.demixingBlob(), demixingTable.rows, demixingTable.cols, demixingTable.gain, demixingTable.data); err != nil {
		return nil, err
	}

	// Ensure the matrices are large enough for the desired coding scheme.
	// This guards against a table whose shape doesn't match the topology
	// derived from the channel count.
	mixing, err := matrix.At(e.mixingBlob())
	if err != nil {
		return nil, err
	}
	demixing, err := matrix.At(e.demixingBlob())
	if err != nil {
		return nil, err
	}
	if streams+coupledStreams > mixing.Rows || channels > mixing.Cols ||
		channels > demixing.Rows || streams+coupledStreams > demixing.Cols {
		return nil, ErrMatrixTopologyMismatch
	}

	// Trivial mapping: each input channel pairs with a matrix column.
	mapping := make([]byte, channels)
	for i := range mapping {
		mapping[i] = byte(i)
	}

	ms, err := multistream.Init(e.workspace(), sampleRate, channels, streams, coupledStreams, mapping, application, newCore)
	if err != nil {
		return nil, err
	}
	e.ms = ms
	return e, nil
}

// Channels returns the number of input channels.
func (e *Encoder) Channels() int { return e.channels }

// Streams returns the number of elementary streams.
func (e *Encoder) Streams() int { return e.streams }

// CoupledStreams returns the number of coupled (stereo) streams.
func (e *Encoder) CoupledStreams() int { return e.coupledStreams }

// SampleRate returns the input sample rate in Hz.
func (e *Encoder) SampleRate() int { return e.sampleRate }

// Order returns the ambisonics order the encoder was created for.
func (e *Encoder) Order() int { return e.orderPlusOne - 1 }

// Encode encodes one frame of interleaved 16-bit ambisonic PCM into out and
// returns the number of bytes written. The input length must equal
// frameSize * channels; out receives the multistream packet.
func (e *Encoder) Encode(pcm []int16, frameSize int, out []byte) (int, error) {
	if e.arena == nil {
		return 0, ErrEncoderClosed
	}
	if frameSize <= 0 || len(pcm) != frameSize*e.channels {
		return 0, fmt.Errorf("%w: got %d samples, expected %d", ErrInvalidFrameSize, len(pcm), frameSize*e.channels)
	}

	mixing, err := matrix.At(e.mixingBlob())
	if err != nil {
		return 0, err
	}

	streamChannels := e.streams + e.coupledStreams
	buf := make([]int16, streamChannels*frameSize)
	if err := mixing.MultiplyInt16(pcm, e.channels, buf, streamChannels, frameSize); err != nil {
		return 0, err
	}
	return e.ms.Encode(buf, frameSize, out)
}

// EncodeFloat encodes one frame of interleaved float32 ambisonic PCM into
// out and returns the number of bytes written.
func (e *Encoder) EncodeFloat(pcm []float32, frameSize int, out []byte) (int, error) {
	if e.arena == nil {
		return 0, ErrEncoderClosed
	}
	if frameSize <= 0 || len(pcm) != frameSize*e.channels {
		return 0, fmt.Errorf("%w: got %d samples, expected %d", ErrInvalidFrameSize, len(pcm), frameSize*e.channels)
	}

	mixing, err := matrix.At(e.mixingBlob())
	if err != nil {
		return 0, err
	}

	streamChannels := e.streams + e.coupledStreams
	buf := make([]float32, streamChannels*frameSize)
	if err := mixing.MultiplyFloat32(pcm, e.channels, buf, streamChannels, frameSize); err != nil {
		return 0, err
	}
	return e.ms.EncodeFloat(buf, frameSize, out)
}

// Close releases the encoder's arena in one operation. Any operation on the
// encoder afterwards fails with ErrEncoderClosed. Close is idempotent only
// in the sense that a second call also reports ErrEncoderClosed.
func (e *Encoder) Close() error {
	if e.arena == nil {
		return ErrEncoderClosed
	}
	e.arena = nil
	e.ms = nil
	return nil
}
