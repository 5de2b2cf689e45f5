package projection

import (
	"testing"

	"github.com/thesyncim/go-projection/matrix"
)

func TestMatrixTableLookup(t *testing.T) {
	for _, channels := range []int{4, 6, 9, 11, 16, 18} {
		tbl, ok := mixingTableForChannels(channels)
		if !ok {
			t.Fatalf("mixingTableForChannels(%d): no table", channels)
		}
		if tbl.rows != channels || tbl.cols != channels {
			t.Errorf("channels %d: shape %dx%d, want %dx%d", channels, tbl.rows, tbl.cols, channels, channels)
		}
		if tbl.gain != 0 {
			t.Errorf("channels %d: gain %d, want 0", channels, tbl.gain)
		}
		if len(tbl.data) != channels*channels {
			t.Errorf("channels %d: %d coefficients, want %d", channels, len(tbl.data), channels*channels)
		}

		demix, ok := demixingTableForChannels(channels)
		if !ok {
			t.Fatalf("demixingTableForChannels(%d): no table", channels)
		}
		if demix.rows != tbl.rows || demix.cols != tbl.cols {
			t.Errorf("channels %d: demixing shape %dx%d differs from mixing %dx%d",
				channels, demix.rows, demix.cols, tbl.rows, tbl.cols)
		}
	}
}

func TestMatrixTableLookupUnsupported(t *testing.T) {
	for _, channels := range []int{0, 1, 2, 3, 25, 27, 226, 227} {
		if _, ok := mixingTableForChannels(channels); ok {
			t.Errorf("mixingTableForChannels(%d): unexpected table", channels)
		}
		if _, ok := demixingTableForChannels(channels); ok {
			t.Errorf("demixingTableForChannels(%d): unexpected table", channels)
		}
	}
}

// Every table is 2x2 sum/difference butterflies down the diagonal, with an
// odd channel count ending on a unity passthrough row.
func TestPairwiseProjectionStructure(t *testing.T) {
	for _, channels := range []int{4, 6, 9, 11, 16, 18} {
		tbl, _ := mixingTableForChannels(channels)
		at := func(r, c int) int16 { return tbl.data[r*channels+c] }

		for pair := 0; pair < channels/2; pair++ {
			r := 2 * pair
			if at(r, r) != 23170 || at(r, r+1) != 23170 || at(r+1, r) != 23170 || at(r+1, r+1) != -23170 {
				t.Errorf("channels %d: pair %d is (%d %d / %d %d), want butterfly",
					channels, pair, at(r, r), at(r, r+1), at(r+1, r), at(r+1, r+1))
			}
		}
		if channels%2 == 1 {
			last := channels - 1
			if at(last, last) != 32767 {
				t.Errorf("channels %d: trailing channel coefficient %d, want unity 32767", channels, at(last, last))
			}
			for c := 0; c < last; c++ {
				if at(last, c) != 0 || at(c, last) != 0 {
					t.Errorf("channels %d: trailing row/column not isolated at %d", channels, c)
				}
			}
		}
	}
}

// The pairing transform is its own inverse, so mixing followed by demixing
// must reproduce the input within fixed-point rounding for every supported
// channel count, exercising exactly the topology-sized multiply the encode
// path uses.
func TestMatrixTableRoundTrip(t *testing.T) {
	for _, channels := range []int{4, 6, 9, 11, 16, 18} {
		tbl, ok := mixingTableForChannels(channels)
		if !ok {
			t.Fatalf("mixingTableForChannels(%d): no table", channels)
		}

		blob := make([]byte, matrix.Size(tbl.rows, tbl.cols))
		if err := matrix.Init(blob, tbl.rows, tbl.cols, tbl.gain, tbl.data); err != nil {
			t.Fatalf("channels %d: Init: %v", channels, err)
		}
		m, err := matrix.At(blob)
		if err != nil {
			t.Fatalf("channels %d: At: %v", channels, err)
		}

		in := make([]int16, channels)
		for i := range in {
			in[i] = int16((i + 1) * 997)
			if i%2 == 1 {
				in[i] = -in[i]
			}
		}

		mid := make([]int16, channels)
		out := make([]int16, channels)
		if err := m.MultiplyInt16(in, channels, mid, channels, 1); err != nil {
			t.Fatalf("channels %d: mix: %v", channels, err)
		}
		if err := m.MultiplyInt16(mid, channels, out, channels, 1); err != nil {
			t.Fatalf("channels %d: demix: %v", channels, err)
		}

		for i := range in {
			diff := int(out[i]) - int(in[i])
			if diff < -3 || diff > 3 {
				t.Errorf("channels %d: channel %d: round trip %d -> %d", channels, i, in[i], out[i])
			}
		}
	}
}
