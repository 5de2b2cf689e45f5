// Package pcmcore provides a passthrough core encoder that stores each
// frame as little-endian 16-bit PCM. It performs no compression; it exists
// so the projection and multistream plumbing can be exercised and inspected
// without a perceptual codec behind it. Used by cmd/projdump and tests.
package pcmcore

import (
	"encoding/binary"
	"errors"

	"github.com/thesyncim/go-projection/multistream"
)

var (
	// ErrInvalidChannels indicates a channel count other than 1 or 2.
	ErrInvalidChannels = errors.New("pcmcore: channels must be 1 or 2")

	// ErrFrameTooLarge indicates a frame exceeding the output buffer.
	// Raw 16-bit storage grows linearly with the frame, and the
	// self-delimiting framing above caps stream packets at 1275 bytes, so
	// keep frames at or below 5 ms (240 samples at 48 kHz) for stereo
	// streams.
	ErrFrameTooLarge = errors.New("pcmcore: frame exceeds packet budget")
)

// Encoder is a passthrough CoreEncoder.
type Encoder struct {
	channels int
}

// Factory creates passthrough cores; it satisfies multistream.CoreFactory.
func Factory(_, channels int, _ multistream.Application) (multistream.CoreEncoder, error) {
	if channels < 1 || channels > 2 {
		return nil, ErrInvalidChannels
	}
	return &Encoder{channels: channels}, nil
}

// Encode stores the frame as interleaved little-endian int16 samples.
func (e *Encoder) Encode(pcm []int16, frameSize int, out []byte) (int, error) {
	need := frameSize * e.channels * 2
	if need > len(out) {
		return 0, ErrFrameTooLarge
	}
	for i, s := range pcm[:frameSize*e.channels] {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return need, nil
}

// EncodeFloat converts samples to int16 with clamping, then stores them
// like Encode.
func (e *Encoder) EncodeFloat(pcm []float32, frameSize int, out []byte) (int, error) {
	need := frameSize * e.channels * 2
	if need > len(out) {
		return 0, ErrFrameTooLarge
	}
	for i, s := range pcm[:frameSize*e.channels] {
		scaled := s * 32768.0
		if scaled > 32767.0 {
			scaled = 32767.0
		} else if scaled < -32768.0 {
			scaled = -32768.0
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(scaled)))
	}
	return need, nil
}

// SetBitrate is a no-op; raw storage has no rate control.
func (e *Encoder) SetBitrate(int) {}

// Reset is a no-op; the passthrough core is stateless.
func (e *Encoder) Reset() {}
