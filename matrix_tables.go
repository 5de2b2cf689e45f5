// matrix_tables.go holds the precomputed projection matrices, selected by
// channel count. Each matrix pairs adjacent channels into stereo sum and
// difference streams with Q15 coefficients of 1/sqrt(2) (23170); an odd
// trailing channel passes through at unity (32767). The transform is its own
// transpose and inverse, so mixing and demixing share coefficient data and a
// mix/demix round trip reproduces the input within Q15 rounding.
//
// The matrices are sized to the channel count, not the order: the two
// second-order layouts place the unpaired mono stream differently (9
// channels end on one, 11 channels on another), so a single order-sized
// pairing matrix cannot keep the trailing channel at unity for both. Tables
// exist for the first, second and third order channel counts only; the
// lookup is total and any other validated count is rejected explicitly with
// ErrUnsupportedOrder rather than falling through to an uninitialized
// matrix.

package projection

// Q15 projection coefficients.
const (
	coefHalfSqrt2 = 23170 // 1/sqrt(2)
	coefUnity     = 32767
)

// matrixTable describes one precomputed projection matrix.
type matrixTable struct {
	rows int
	cols int
	gain int
	data []int16
}

// pairwiseProjection builds the channels x channels stereo pairing matrix:
// 2x2 sum/difference butterflies down the diagonal, and a unity row for an
// odd trailing channel.
func pairwiseProjection(channels int) matrixTable {
	data := make([]int16, channels*channels)
	for pair := 0; pair < channels/2; pair++ {
		r := 2 * pair
		data[r*channels+r] = coefHalfSqrt2
		data[r*channels+r+1] = coefHalfSqrt2
		data[(r+1)*channels+r] = coefHalfSqrt2
		data[(r+1)*channels+r+1] = -coefHalfSqrt2
	}
	if channels%2 == 1 {
		last := channels - 1
		data[last*channels+last] = coefUnity
	}
	return matrixTable{rows: channels, cols: channels, gain: 0, data: data}
}

var (
	projection4  = pairwiseProjection(4)
	projection6  = pairwiseProjection(6)
	projection9  = pairwiseProjection(9)
	projection11 = pairwiseProjection(11)
	projection16 = pairwiseProjection(16)
	projection18 = pairwiseProjection(18)
)

// mixingTableForChannels returns the mixing matrix table for a channel
// count, or ok=false when no table exists for it.
func mixingTableForChannels(channels int) (matrixTable, bool) {
	switch channels {
	case 4:
		return projection4, true
	case 6:
		return projection6, true
	case 9:
		return projection9, true
	case 11:
		return projection11, true
	case 16:
		return projection16, true
	case 18:
		return projection18, true
	}
	return matrixTable{}, false
}

// demixingTableForChannels returns the demixing matrix table for a channel
// count. The pairing transform is symmetric, so it shares data with the
// mixing table; rows and columns swap roles (channels out, streams in).
func demixingTableForChannels(channels int) (matrixTable, bool) {
	return mixingTableForChannels(channels)
}
