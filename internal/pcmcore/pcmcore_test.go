package pcmcore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/thesyncim/go-projection/multistream"
)

func TestFactoryChannels(t *testing.T) {
	for _, channels := range []int{1, 2} {
		if _, err := Factory(48000, channels, multistream.ApplicationAudio); err != nil {
			t.Errorf("Factory(%d channels): %v", channels, err)
		}
	}
	for _, channels := range []int{0, 3, -1} {
		if _, err := Factory(48000, channels, multistream.ApplicationAudio); !errors.Is(err, ErrInvalidChannels) {
			t.Errorf("Factory(%d channels): expected ErrInvalidChannels", channels)
		}
	}
}

func TestEncodePassthrough(t *testing.T) {
	core, err := Factory(48000, 2, multistream.ApplicationAudio)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}

	out := make([]byte, 16)
	n, err := core.Encode([]int16{1, -1, 256, -256}, 2, out)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{1, 0, 0xFF, 0xFF, 0, 1, 0, 0xFF}
	if n != len(want) || !bytes.Equal(out[:n], want) {
		t.Errorf("Encode wrote % x, want % x", out[:n], want)
	}
}

func TestEncodeFloatClamps(t *testing.T) {
	core, err := Factory(48000, 1, multistream.ApplicationAudio)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}

	out := make([]byte, 8)
	n, err := core.EncodeFloat([]float32{0.5, 2.0, -2.0}, 3, out)
	if err != nil {
		t.Fatalf("EncodeFloat: %v", err)
	}

	// 16384, clamped +32767, clamped -32768.
	want := []byte{0x00, 0x40, 0xFF, 0x7F, 0x00, 0x80}
	if n != len(want) || !bytes.Equal(out[:n], want) {
		t.Errorf("EncodeFloat wrote % x, want % x", out[:n], want)
	}
}

func TestEncodeFrameTooLarge(t *testing.T) {
	core, err := Factory(48000, 2, multistream.ApplicationAudio)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}

	out := make([]byte, 8)
	if _, err := core.Encode(make([]int16, 10), 5, out); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Encode: error %v, want ErrFrameTooLarge", err)
	}
	if _, err := core.EncodeFloat(make([]float32, 10), 5, out); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("EncodeFloat: error %v, want ErrFrameTooLarge", err)
	}
}
