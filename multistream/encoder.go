// encoder.go contains the Encoder struct, stream routing and packet
// assembly for multistream encoding.

package multistream

import "fmt"

// Encoder encodes multi-channel PCM into multistream packets. The encoder
// keeps its per-stream packet assembly regions inside a caller-provided
// workspace so the projection layer can embed it in a single arena.
//
// An Encoder is NOT safe for concurrent use.
type Encoder struct {
	sampleRate     int
	channels       int
	streams        int
	coupledStreams int

	// mapping routes input channel i to the stream channel mapping[i].
	mapping []byte

	// cores holds one core encoder per stream. The first coupledStreams
	// cores are stereo, the remainder mono.
	cores []CoreEncoder

	// workspace holds streams contiguous packet assembly regions of
	// maxStreamPacketBytes each.
	workspace []byte

	// bitrate is the total target bitrate, split evenly across streams.
	bitrate int

	application Application
}

// Init creates an encoder inside the given workspace. The workspace must be
// at least EncoderSize(streams, coupledStreams) bytes; a shorter workspace
// fails with ErrWorkspaceTooSmall. The mapping table must have exactly
// channels entries, each addressing a stream channel or 255 for silence.
func Init(workspace []byte, sampleRate, channels, streams, coupledStreams int,
	mapping []byte, application Application, newCore CoreFactory) (*Encoder, error) {

	if !validSampleRate(sampleRate) {
		return nil, ErrInvalidSampleRate
	}
	if channels < 1 || channels > 255 {
		return nil, ErrInvalidChannels
	}
	if streams < 1 || streams > 255 {
		return nil, ErrInvalidStreams
	}
	if coupledStreams < 0 || coupledStreams > streams {
		return nil, ErrInvalidCoupledStreams
	}
	if streams+coupledStreams > 255 {
		return nil, ErrTooManyChannels
	}
	if len(mapping) != channels {
		return nil, ErrInvalidMapping
	}
	maxMappingValue := streams + coupledStreams
	for i, m := range mapping {
		if m != 255 && int(m) >= maxMappingValue {
			return nil, fmt.Errorf("%w: mapping[%d]=%d exceeds maximum %d", ErrInvalidMapping, i, m, maxMappingValue-1)
		}
	}
	if err := validateLayout(mapping, coupledStreams); err != nil {
		return nil, err
	}
	if newCore == nil {
		return nil, ErrNilCoreFactory
	}
	if len(workspace) < EncoderSize(streams, coupledStreams) {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrWorkspaceTooSmall, len(workspace), EncoderSize(streams, coupledStreams))
	}

	cores := make([]CoreEncoder, streams)
	for i := 0; i < streams; i++ {
		core, err := newCore(sampleRate, streamChannels(i, coupledStreams), application)
		if err != nil {
			return nil, fmt.Errorf("stream %d core: %w", i, err)
		}
		cores[i] = core
	}

	mappingCopy := make([]byte, len(mapping))
	copy(mappingCopy, mapping)

	return &Encoder{
		sampleRate:     sampleRate,
		channels:       channels,
		streams:        streams,
		coupledStreams: coupledStreams,
		mapping:        mappingCopy,
		cores:          cores,
		workspace:      workspace,
		application:    application,
	}, nil
}

// Channels returns the total number of input channels.
func (e *Encoder) Channels() int { return e.channels }

// Streams returns the total number of elementary streams.
func (e *Encoder) Streams() int { return e.streams }

// CoupledStreams returns the number of coupled (stereo) streams.
func (e *Encoder) CoupledStreams() int { return e.coupledStreams }

// SampleRate returns the input sample rate in Hz.
func (e *Encoder) SampleRate() int { return e.sampleRate }

// streamRegion returns the packet assembly region for one stream,
// recomputed from the workspace base on every call.
func (e *Encoder) streamRegion(streamIdx int) []byte {
	off := streamIdx * maxStreamPacketBytes
	return e.workspace[off : off+maxStreamPacketBytes]
}

// routeInt16 routes interleaved input samples to per-stream buffers.
// Stereo stream buffers are interleaved left/right.
func routeInt16(in []int16, mapping []byte, coupledStreams, frameSize, channels, streams int) [][]int16 {
	buffers := make([][]int16, streams)
	for i := range buffers {
		buffers[i] = make([]int16, frameSize*streamChannels(i, coupledStreams))
	}
	for ch := 0; ch < channels; ch++ {
		streamIdx, chanInStream := resolveMapping(mapping[ch], coupledStreams)
		if streamIdx < 0 || streamIdx >= streams {
			continue
		}
		width := streamChannels(streamIdx, coupledStreams)
		dst := buffers[streamIdx]
		for s := 0; s < frameSize; s++ {
			dst[s*width+chanInStream] = in[s*channels+ch]
		}
	}
	return buffers
}

// routeFloat32 is the float32 form of routeInt16.
func routeFloat32(in []float32, mapping []byte, coupledStreams, frameSize, channels, streams int) [][]float32 {
	buffers := make([][]float32, streams)
	for i := range buffers {
		buffers[i] = make([]float32, frameSize*streamChannels(i, coupledStreams))
	}
	for ch := 0; ch < channels; ch++ {
		streamIdx, chanInStream := resolveMapping(mapping[ch], coupledStreams)
		if streamIdx < 0 || streamIdx >= streams {
			continue
		}
		width := streamChannels(streamIdx, coupledStreams)
		dst := buffers[streamIdx]
		for s := 0; s < frameSize; s++ {
			dst[s*width+chanInStream] = in[s*channels+ch]
		}
	}
	return buffers
}

// writeSelfDelimitedLength writes a self-delimiting packet length.
// Per RFC 6716 Section 3.2.1: lengths below 252 take one byte, larger
// lengths two bytes where length = 4*secondByte + firstByte.
func writeSelfDelimitedLength(dst []byte, length int) int {
	if length < 252 {
		dst[0] = byte(length)
		return 1
	}
	firstByte := 252 + (length % 4)
	secondByte := (length - firstByte) / 4
	dst[0] = byte(firstByte)
	dst[1] = byte(secondByte)
	return 2
}

// selfDelimitedLengthBytes returns the encoded size of a length field.
func selfDelimitedLengthBytes(length int) int {
	if length < 252 {
		return 1
	}
	return 2
}

// maxSelfDelimitedBytes is the largest packet length the two-byte
// self-delimiting encoding can carry: 4*255 + 255.
const maxSelfDelimitedBytes = 1275

// assemblePacket combines stream packets into out. The first N-1 packets are
// prefixed with self-delimiting lengths; the last consumes the remaining
// bytes (standard framing). Returns the total bytes written.
func assemblePacket(out []byte, streamPackets [][]byte) (int, error) {
	total := 0
	for i, packet := range streamPackets {
		if i < len(streamPackets)-1 {
			if len(packet) > maxSelfDelimitedBytes {
				return 0, fmt.Errorf("%w: stream %d produced %d bytes", ErrPacketTooLarge, i, len(packet))
			}
			total += selfDelimitedLengthBytes(len(packet))
		}
		total += len(packet)
	}
	if total > len(out) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, total, len(out))
	}

	offset := 0
	for i := 0; i < len(streamPackets)-1; i++ {
		offset += writeSelfDelimitedLength(out[offset:], len(streamPackets[i]))
		offset += copy(out[offset:], streamPackets[i])
	}
	offset += copy(out[offset:], streamPackets[len(streamPackets)-1])
	return offset, nil
}

// Encode encodes one frame of interleaved 16-bit PCM into out and returns
// the number of bytes written. The input length must equal
// frameSize * channels.
func (e *Encoder) Encode(pcm []int16, frameSize int, out []byte) (int, error) {
	if frameSize <= 0 || len(pcm) != frameSize*e.channels {
		return 0, fmt.Errorf("%w: got %d samples, expected %d (frameSize=%d, channels=%d)",
			ErrInvalidInput, len(pcm), frameSize*e.channels, frameSize, e.channels)
	}

	buffers := routeInt16(pcm, e.mapping, e.coupledStreams, frameSize, e.channels, e.streams)

	streamPackets := make([][]byte, e.streams)
	for i := 0; i < e.streams; i++ {
		region := e.streamRegion(i)
		n, err := e.cores[i].Encode(buffers[i], frameSize, region)
		if err != nil {
			return 0, fmt.Errorf("stream %d encode failed: %w", i, err)
		}
		streamPackets[i] = region[:n]
	}

	return assemblePacket(out, streamPackets)
}

// EncodeFloat encodes one frame of interleaved float32 PCM into out and
// returns the number of bytes written.
func (e *Encoder) EncodeFloat(pcm []float32, frameSize int, out []byte) (int, error) {
	if frameSize <= 0 || len(pcm) != frameSize*e.channels {
		return 0, fmt.Errorf("%w: got %d samples, expected %d (frameSize=%d, channels=%d)",
			ErrInvalidInput, len(pcm), frameSize*e.channels, frameSize, e.channels)
	}

	buffers := routeFloat32(pcm, e.mapping, e.coupledStreams, frameSize, e.channels, e.streams)

	streamPackets := make([][]byte, e.streams)
	for i := 0; i < e.streams; i++ {
		region := e.streamRegion(i)
		n, err := e.cores[i].EncodeFloat(buffers[i], frameSize, region)
		if err != nil {
			return 0, fmt.Errorf("stream %d encode failed: %w", i, err)
		}
		streamPackets[i] = region[:n]
	}

	return assemblePacket(out, streamPackets)
}
