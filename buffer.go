// buffer.go adapts go-audio PCM buffers to the encode pipeline.

package projection

import (
	"fmt"

	"github.com/go-audio/audio"
)

// EncodeBuffer encodes one frame held in a go-audio IntBuffer. The buffer's
// format must agree with the encoder's channel count and sample rate, and
// its data length must be a whole number of frames. Samples are rescaled to
// 16 bits from the buffer's source bit depth (16 assumed when unset).
func (e *Encoder) EncodeBuffer(buf *audio.IntBuffer, out []byte) (int, error) {
	if e.arena == nil {
		return 0, ErrEncoderClosed
	}
	if buf == nil || buf.Format == nil {
		return 0, fmt.Errorf("%w: nil buffer", ErrBadArgument)
	}
	if buf.Format.NumChannels != e.channels {
		return 0, fmt.Errorf("%w: buffer has %d channels, encoder %d", ErrBadArgument, buf.Format.NumChannels, e.channels)
	}
	if buf.Format.SampleRate != e.sampleRate {
		return 0, fmt.Errorf("%w: buffer sample rate %d, encoder %d", ErrBadArgument, buf.Format.SampleRate, e.sampleRate)
	}
	if len(buf.Data) == 0 || len(buf.Data)%e.channels != 0 {
		return 0, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidFrameSize, len(buf.Data), e.channels)
	}

	shift := 0
	if buf.SourceBitDepth != 0 {
		shift = buf.SourceBitDepth - 16
	}

	pcm := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if shift > 0 {
			v >>= uint(shift)
		} else if shift < 0 {
			v <<= uint(-shift)
		}
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[i] = int16(v)
	}

	return e.Encode(pcm, len(buf.Data)/e.channels, out)
}
