package projection

import (
	"testing"

	"github.com/thesyncim/go-projection/matrix"
	"github.com/thesyncim/go-projection/multistream"
)

func TestAlign(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 0}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {80, 80}, {81, 88},
	}
	for _, tc := range cases {
		if got := align(tc.n); got != tc.want {
			t.Errorf("align(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestEncoderSizeInvalid(t *testing.T) {
	cases := []struct {
		name              string
		channels, family  int
	}{
		{"bad channel count", 7, MappingFamilyAmbisonics},
		{"zero channels", 0, MappingFamilyAmbisonics},
		{"wrong family", 4, 1},
		{"wrong family 255", 4, 255},
	}
	for _, tc := range cases {
		if got := encoderSize(tc.channels, tc.family); got != 0 {
			t.Errorf("%s: encoderSize(%d, %d) = %d, want 0", tc.name, tc.channels, tc.family, got)
		}
	}
}

func TestEncoderSizeCoversSubObjects(t *testing.T) {
	cases := []struct {
		channels, matrixRows, streams, coupled int
	}{
		{4, 6, 2, 2},
		{9, 11, 5, 4},
		{18, 18, 9, 9},
	}
	for _, tc := range cases {
		size := encoderSize(tc.channels, MappingFamilyAmbisonics)
		if size == 0 {
			t.Fatalf("channels %d: encoderSize failed", tc.channels)
		}
		want := align(arenaHeaderLen) +
			2*align(matrix.Size(tc.matrixRows, tc.matrixRows)) +
			align(multistream.EncoderSize(tc.streams, tc.coupled))
		if size < want {
			t.Errorf("channels %d: size %d below %d", tc.channels, size, want)
		}
		if size%arenaAlign != 0 {
			t.Errorf("channels %d: size %d not %d-byte aligned", tc.channels, size, arenaAlign)
		}
	}
}

// The arena regions must be derivable from the recorded header sizes alone
// and cover both matrices plus the multistream workspace without overlap.
func TestArenaRegions(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	mixingBytes, demixingBytes := enc.recordedSizes()
	wantMatrix := matrix.Size(4, 4)
	if mixingBytes != wantMatrix || demixingBytes != wantMatrix {
		t.Fatalf("recorded sizes (%d, %d), want (%d, %d)", mixingBytes, demixingBytes, wantMatrix, wantMatrix)
	}

	if got := len(enc.mixingBlob()); got != mixingBytes {
		t.Errorf("mixing blob %d bytes, want %d", got, mixingBytes)
	}
	if got := len(enc.demixingBlob()); got != demixingBytes {
		t.Errorf("demixing blob %d bytes, want %d", got, demixingBytes)
	}
	if got, want := len(enc.workspace()), multistream.EncoderSize(2, 2); got < want {
		t.Errorf("workspace %d bytes, want at least %d", got, want)
	}

	used := align(arenaHeaderLen) + align(mixingBytes) + align(demixingBytes) + multistream.EncoderSize(2, 2)
	if used > len(enc.arena) {
		t.Errorf("regions need %d bytes, arena has %d", used, len(enc.arena))
	}

	// Both blobs parse as matrices of the expected shape.
	for _, blob := range [][]byte{enc.mixingBlob(), enc.demixingBlob()} {
		m, err := matrix.At(blob)
		if err != nil {
			t.Fatalf("At: %v", err)
		}
		if m.Rows != 4 || m.Cols != 4 || m.Gain != 0 {
			t.Errorf("matrix %dx%d gain %d, want 4x4 gain 0", m.Rows, m.Cols, m.Gain)
		}
	}
}
