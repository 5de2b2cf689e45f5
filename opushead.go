// opushead.go builds the RFC 8486 identification header for a projection
// stream, embedding the demixing matrix obtained through the control
// interface so decoders can reconstruct the ambisonic channels.

package projection

import "encoding/binary"

// opusHeadMappingFamily is the channel mapping family written on the wire.
// RFC 8486 carries projection streams as family 3 with an embedded demixing
// matrix; 253 is only the API-level family of this layer.
const opusHeadMappingFamily = 3

// OpusHead returns the OpusHead identification header for this encoder's
// stream: magic, version 1, channel count, pre-skip, input sample rate,
// output gain (Q7.8 dB), mapping family 3, stream counts, and the
// serialized demixing matrix.
//
// Reference: RFC 8486 Section 3.1, RFC 7845 Section 5.1
func (e *Encoder) OpusHead(preSkip, outputGain int) ([]byte, error) {
	if e.arena == nil {
		return nil, ErrEncoderClosed
	}

	var matrixSize int
	if err := e.Ctl(DemixingMatrixSize{Value: &matrixSize}); err != nil {
		return nil, err
	}
	demixing := make([]byte, matrixSize)
	if err := e.Ctl(DemixingMatrix{Dest: demixing}); err != nil {
		return nil, err
	}

	head := make([]byte, 21+matrixSize)
	copy(head[0:8], "OpusHead")
	head[8] = 1
	head[9] = byte(e.channels)
	binary.LittleEndian.PutUint16(head[10:12], uint16(preSkip))
	binary.LittleEndian.PutUint32(head[12:16], uint32(e.sampleRate))
	binary.LittleEndian.PutUint16(head[16:18], uint16(int16(outputGain)))
	head[18] = opusHeadMappingFamily
	head[19] = byte(e.streams)
	head[20] = byte(e.coupledStreams)
	copy(head[21:], demixing)
	return head, nil
}
