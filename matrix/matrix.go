// Package matrix implements the fixed-point mapping matrices used by the
// projection encoder. A matrix lives inside a caller-owned byte blob as a
// small header followed by row-major signed 16-bit coefficients in
// little-endian byte order, so the coefficient region can be handed to
// decoders verbatim regardless of host byte order.
//
// A matrix transforms interleaved PCM: each time slice of the input vector
// is multiplied by the coefficient matrix to produce one time slice of the
// output vector. The shared gain exponent scales all coefficients uniformly.
//
// Reference: libopus mapping_matrix.c
package matrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Blob header: rows uint16, cols uint16, gain int16, reserved uint16.
const headerLen = 8

const maxDim = 255

var (
	// ErrInvalidShape indicates a row or column count outside 1-255.
	ErrInvalidShape = errors.New("matrix: invalid matrix shape")

	// ErrShapeMismatch indicates a coefficient count that doesn't equal rows*cols.
	ErrShapeMismatch = errors.New("matrix: coefficient count does not match shape")

	// ErrBlobTooSmall indicates a blob shorter than the matrix it should hold.
	ErrBlobTooSmall = errors.New("matrix: blob too small")

	// ErrDimensionRange indicates multiply dimensions exceeding the matrix shape.
	ErrDimensionRange = errors.New("matrix: multiply dimensions exceed matrix shape")

	// ErrBufferSize indicates an input or output buffer shorter than
	// channels * frameCount samples.
	ErrBufferSize = errors.New("matrix: buffer too small for frame count")
)

// Size returns the number of bytes a rows x cols matrix occupies in a blob,
// or 0 if the shape is invalid.
func Size(rows, cols int) int {
	if rows < 1 || rows > maxDim || cols < 1 || cols > maxDim {
		return 0
	}
	return headerLen + rows*cols*2
}

// Init writes a matrix into blob in place. The coefficients are stored
// row-major in little-endian byte order; gain is the shared Q15 exponent
// applied uniformly during multiplication.
func Init(blob []byte, rows, cols, gain int, coeffs []int16) error {
	size := Size(rows, cols)
	if size == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	// Gain is folded into the Q15 shift of the fixed-point multiply, so it
	// must leave at least one rounding bit.
	if gain < -15 || gain > 14 {
		return fmt.Errorf("%w: gain %d", ErrInvalidShape, gain)
	}
	if len(coeffs) != rows*cols {
		return fmt.Errorf("%w: %d coefficients for %dx%d", ErrShapeMismatch, len(coeffs), rows, cols)
	}
	if len(blob) < size {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBlobTooSmall, len(blob), rows, cols)
	}

	binary.LittleEndian.PutUint16(blob[0:2], uint16(rows))
	binary.LittleEndian.PutUint16(blob[2:4], uint16(cols))
	binary.LittleEndian.PutUint16(blob[4:6], uint16(int16(gain)))
	binary.LittleEndian.PutUint16(blob[6:8], 0)
	for i, c := range coeffs {
		binary.LittleEndian.PutUint16(blob[headerLen+2*i:], uint16(c))
	}
	return nil
}

// View is a read-only view of a matrix stored in a blob. It aliases the
// blob's memory and must be recomputed, not retained, across operations
// that may move the backing arena.
type View struct {
	Rows int
	Cols int
	Gain int

	coeffs []byte
}

// At parses the matrix stored at the beginning of blob.
func At(blob []byte) (View, error) {
	if len(blob) < headerLen {
		return View{}, ErrBlobTooSmall
	}
	rows := int(binary.LittleEndian.Uint16(blob[0:2]))
	cols := int(binary.LittleEndian.Uint16(blob[2:4]))
	gain := int(int16(binary.LittleEndian.Uint16(blob[4:6])))
	size := Size(rows, cols)
	if size == 0 {
		return View{}, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	if len(blob) < size {
		return View{}, fmt.Errorf("%w: %d bytes for %dx%d", ErrBlobTooSmall, len(blob), rows, cols)
	}
	return View{
		Rows:   rows,
		Cols:   cols,
		Gain:   gain,
		coeffs: blob[headerLen:size],
	}, nil
}

// Coefficient returns the Q15 coefficient at (row, col).
func (v View) Coefficient(row, col int) int16 {
	return int16(binary.LittleEndian.Uint16(v.coeffs[2*(row*v.Cols+col):]))
}

// RawCoefficients returns the coefficient region as stored: rows*cols
// little-endian int16 values, row-major. The slice aliases the blob.
func (v View) RawCoefficients() []byte {
	return v.coeffs
}

// Coefficients returns a decoded copy of all coefficients, row-major.
func (v View) Coefficients() []int16 {
	out := make([]int16, v.Rows*v.Cols)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(v.coeffs[2*i:]))
	}
	return out
}

func (v View) checkMultiply(inLen, inChannels, outLen, outRows, frameCount int) error {
	if inChannels < 1 || inChannels > v.Cols || outRows < 1 || outRows > v.Rows {
		return fmt.Errorf("%w: %d in, %d out for %dx%d", ErrDimensionRange, inChannels, outRows, v.Rows, v.Cols)
	}
	if frameCount < 0 || inLen < inChannels*frameCount || outLen < outRows*frameCount {
		return ErrBufferSize
	}
	return nil
}

// MultiplyInt16 transforms frameCount time slices of interleaved 16-bit PCM.
// Input slices hold inChannels samples, output slices hold outRows samples.
// Each output sample is the Q15 dot product of a matrix row with the input
// slice, rounded, with the shared gain exponent folded into the shift.
func (v View) MultiplyInt16(in []int16, inChannels int, out []int16, outRows, frameCount int) error {
	if err := v.checkMultiply(len(in), inChannels, len(out), outRows, frameCount); err != nil {
		return err
	}

	shift := uint(15 - v.Gain)
	rounding := int32(1) << (shift - 1)
	for i := 0; i < outRows; i++ {
		row := v.coeffs[2*i*v.Cols:]
		for j := 0; j < frameCount; j++ {
			slice := in[j*inChannels:]
			var sum int32
			for k := 0; k < inChannels; k++ {
				coef := int32(int16(binary.LittleEndian.Uint16(row[2*k:])))
				sum += coef * int32(slice[k])
			}
			out[j*outRows+i] = int16((sum + rounding) >> shift)
		}
	}
	return nil
}

// MultiplyFloat32 is the floating-point form of MultiplyInt16. Coefficients
// are rescaled to floating units consistently with the gain exponent:
// scale = 2^gain / 32768.
func (v View) MultiplyFloat32(in []float32, inChannels int, out []float32, outRows, frameCount int) error {
	if err := v.checkMultiply(len(in), inChannels, len(out), outRows, frameCount); err != nil {
		return err
	}

	scale := float32(math.Ldexp(1.0/32768.0, v.Gain))
	for i := 0; i < outRows; i++ {
		row := v.coeffs[2*i*v.Cols:]
		for j := 0; j < frameCount; j++ {
			slice := in[j*inChannels:]
			var sum float32
			for k := 0; k < inChannels; k++ {
				coef := int16(binary.LittleEndian.Uint16(row[2*k:]))
				sum += float32(coef) * slice[k]
			}
			out[j*outRows+i] = sum * scale
		}
	}
	return nil
}
