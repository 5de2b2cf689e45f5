// ctl.go implements the projection encoder's control interface: a closed
// set of typed requests for demixing matrix introspection, with every other
// request forwarded verbatim to the embedded multistream encoder.

package projection

import (
	"fmt"

	"github.com/thesyncim/go-projection/matrix"
)

// DemixingMatrixSize reads the size in bytes of the demixing matrix as
// serialized by DemixingMatrix: channels * (streams+coupled) * 2.
type DemixingMatrixSize struct {
	Value *int
}

// DemixingMatrixGain reads the demixing matrix's shared gain exponent.
type DemixingMatrixGain struct {
	Value *int
}

// DemixingMatrix serializes the demixing matrix into Dest. Dest's length
// must exactly equal the size reported by DemixingMatrixSize.
//
// The wire layout is named from the decoder's perspective: the decoder's
// inputs are the encoded streams, its outputs the reconstructed ambisonic
// channels. Entries are row-major over [inputStreams][outputChannels], each
// a signed 16-bit fixed-point value in little-endian byte order.
type DemixingMatrix struct {
	Dest []byte
}

// Ctl applies a control request. The three demixing matrix requests are
// handled locally; any other request type is forwarded to the embedded
// multistream encoder and its result returned unmodified.
func (e *Encoder) Ctl(request any) error {
	if e.arena == nil {
		return ErrEncoderClosed
	}

	switch r := request.(type) {
	case DemixingMatrixSize:
		if r.Value == nil {
			return ErrNilCtlValue
		}
		*r.Value = e.channels * (e.streams + e.coupledStreams) * 2

	case DemixingMatrixGain:
		if r.Value == nil {
			return ErrNilCtlValue
		}
		demixing, err := matrix.At(e.demixingBlob())
		if err != nil {
			return err
		}
		*r.Value = demixing.Gain

	case DemixingMatrix:
		if r.Dest == nil {
			return ErrNilCtlValue
		}
		inputStreams := e.streams + e.coupledStreams
		outputChannels := e.channels
		want := inputStreams * outputChannels * 2
		if len(r.Dest) != want {
			return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidMatrixSize, len(r.Dest), want)
		}
		demixing, err := matrix.At(e.demixingBlob())
		if err != nil {
			return err
		}
		// Low byte first, then the next-significant byte, independent of
		// host byte order.
		i := 0
		for s := 0; s < inputStreams; s++ {
			for c := 0; c < outputChannels; c++ {
				coef := demixing.Coefficient(c, s)
				r.Dest[2*i] = byte(coef)
				r.Dest[2*i+1] = byte(coef >> 8)
				i++
			}
		}

	default:
		return e.ms.Ctl(request)
	}
	return nil
}
