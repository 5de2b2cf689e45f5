// projdump reads a multi-channel ambisonic WAV file, runs it through the
// projection encoder with a raw PCM core, and reports the stream layout,
// matrix metadata and per-frame packet sizes. It is a diagnostic tool for
// inspecting the projection layer, not a production encoder.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	projection "github.com/thesyncim/go-projection"
	"github.com/thesyncim/go-projection/internal/pcmcore"
)

func main() {
	in := flag.String("in", "", "input WAV file (ambisonic channel order)")
	frameSize := flag.Int("frame", 240, "frame size in samples per channel")
	maxFrames := flag.Int("frames", 0, "maximum frames to encode (0 = all)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		log.Fatalf("%s: not a valid WAV file", *in)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	format := buf.Format
	enc, err := projection.NewEncoder(format.SampleRate, format.NumChannels,
		projection.MappingFamilyAmbisonics, projection.ApplicationAudio, pcmcore.Factory)
	if err != nil {
		log.Fatalf("encoder: %v", err)
	}
	defer enc.Close()

	var gain, matrixSize int
	if err := enc.Ctl(projection.DemixingMatrixGain{Value: &gain}); err != nil {
		log.Fatalf("ctl: %v", err)
	}
	if err := enc.Ctl(projection.DemixingMatrixSize{Value: &matrixSize}); err != nil {
		log.Fatalf("ctl: %v", err)
	}

	fmt.Printf("channels:        %d (order %d)\n", enc.Channels(), enc.Order())
	fmt.Printf("streams:         %d (%d coupled)\n", enc.Streams(), enc.CoupledStreams())
	fmt.Printf("demixing matrix: %d bytes, gain exponent %d\n", matrixSize, gain)

	samplesPerFrame := *frameSize * format.NumChannels
	out := make([]byte, 64*1024)
	frames, totalBytes := 0, 0
	for off := 0; off+samplesPerFrame <= len(buf.Data); off += samplesPerFrame {
		frame := &audio.IntBuffer{
			Format:         format,
			Data:           buf.Data[off : off+samplesPerFrame],
			SourceBitDepth: buf.SourceBitDepth,
		}
		n, err := enc.EncodeBuffer(frame, out)
		if err != nil {
			log.Fatalf("frame %d: %v", frames, err)
		}
		frames++
		totalBytes += n
		if *maxFrames > 0 && frames >= *maxFrames {
			break
		}
	}

	fmt.Printf("frames:          %d x %d samples\n", frames, *frameSize)
	fmt.Printf("packet bytes:    %d total", totalBytes)
	if frames > 0 {
		fmt.Printf(" (%d avg)", totalBytes/frames)
	}
	fmt.Println()
}
