package projection

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/thesyncim/go-projection/multistream"
)

func TestCtlDemixingMatrixSize(t *testing.T) {
	cases := []struct {
		channels, want int
	}{
		{4, 32},   // 4 channels x 4 stream channels x 2 bytes
		{6, 72},   // 6 channels x 6 stream channels
		{9, 162},  // 9 channels x 9 stream channels
		{16, 512}, // 16 channels x 16 stream channels
	}
	for _, tc := range cases {
		enc := newTestEncoder(t, tc.channels)
		var size int
		if err := enc.Ctl(DemixingMatrixSize{Value: &size}); err != nil {
			t.Errorf("channels %d: Ctl: %v", tc.channels, err)
		} else if size != tc.want {
			t.Errorf("channels %d: matrix size %d, want %d", tc.channels, size, tc.want)
		}
		enc.Close()
	}
}

func TestCtlDemixingMatrixGain(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	var gain int
	if err := enc.Ctl(DemixingMatrixGain{Value: &gain}); err != nil {
		t.Fatalf("Ctl: %v", err)
	}
	if gain != 0 {
		t.Errorf("gain = %d, want 0", gain)
	}
}

func TestCtlDemixingMatrix(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	dest := make([]byte, 32)
	if err := enc.Ctl(DemixingMatrix{Dest: dest}); err != nil {
		t.Fatalf("Ctl: %v", err)
	}

	// Row-major over [stream][channel], each entry the decoder-side
	// coefficient taking stream s to channel c. The 4-channel demixing
	// matrix is the two-pair butterfly.
	want := []int16{
		23170, 23170, 0, 0,
		23170, -23170, 0, 0,
		0, 0, 23170, 23170,
		0, 0, 23170, -23170,
	}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(dest[2*i:]))
		if got != w {
			t.Errorf("entry %d (stream %d, channel %d) = %d, want %d", i, i/4, i%4, got, w)
		}
	}
}

func TestCtlDemixingMatrixSizeMismatch(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	for _, size := range []int{31, 33, 64} {
		err := enc.Ctl(DemixingMatrix{Dest: make([]byte, size)})
		if !errors.Is(err, ErrInvalidMatrixSize) {
			t.Errorf("size %d: error %v, want ErrInvalidMatrixSize", size, err)
		}
	}
}

func TestCtlNilValues(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	if err := enc.Ctl(DemixingMatrixSize{}); !errors.Is(err, ErrNilCtlValue) {
		t.Errorf("DemixingMatrixSize: error %v, want ErrNilCtlValue", err)
	}
	if err := enc.Ctl(DemixingMatrixGain{}); !errors.Is(err, ErrNilCtlValue) {
		t.Errorf("DemixingMatrixGain: error %v, want ErrNilCtlValue", err)
	}
	if err := enc.Ctl(DemixingMatrix{}); !errors.Is(err, ErrNilCtlValue) {
		t.Errorf("DemixingMatrix: error %v, want ErrNilCtlValue", err)
	}
}

func TestCtlForwardsToMultistream(t *testing.T) {
	enc := newTestEncoder(t, 4)
	defer enc.Close()

	if err := enc.Ctl(multistream.CtlSetBitrate{Bitrate: 128000}); err != nil {
		t.Fatalf("CtlSetBitrate: %v", err)
	}
	var bitrate int
	if err := enc.Ctl(multistream.CtlBitrate{Value: &bitrate}); err != nil {
		t.Fatalf("CtlBitrate: %v", err)
	}
	if bitrate != 128000 {
		t.Errorf("bitrate = %d, want 128000", bitrate)
	}

	type bogusRequest struct{}
	if err := enc.Ctl(bogusRequest{}); !errors.Is(err, multistream.ErrUnknownRequest) {
		t.Errorf("unknown request: error %v, want multistream.ErrUnknownRequest", err)
	}
}
