// layout.go computes the single-arena layout of the projection encoder
// state: a small header recording the actual matrix byte sizes, the mixing
// matrix blob, the demixing matrix blob, and the embedded multistream
// encoder workspace. Sub-object views are recomputed from the arena base
// and the recorded sizes on every access; no derived offset is cached.

package projection

import (
	"encoding/binary"

	"github.com/thesyncim/go-projection/matrix"
	"github.com/thesyncim/go-projection/multistream"
)

// arenaAlign is the alignment every sub-object offset is rounded up to.
const arenaAlign = 8

// arenaHeaderLen holds two recorded uint32 byte sizes: mixing matrix,
// demixing matrix.
const arenaHeaderLen = 8

func align(n int) int {
	return (n + arenaAlign - 1) &^ (arenaAlign - 1)
}

// encoderSize returns the total arena byte size for a channel count and
// mapping family, or 0 on any failure (invalid topology, matrix sizing or
// multistream sizing). Matrix capacity is reserved for the worst case of the
// resolved order: (order+1)^2 + 2 rows and columns, covering the maximum
// non-diegetic extension regardless of the actual table shape.
func encoderSize(channels, mappingFamily int) int {
	streams, coupledStreams, orderPlusOne, err := streamsFromChannels(channels, mappingFamily)
	if err != nil {
		return 0
	}

	matrixRows := orderPlusOne*orderPlusOne + 2
	matrixSize := matrix.Size(matrixRows, matrixRows)
	if matrixSize == 0 {
		return 0
	}
	workspaceSize := multistream.EncoderSize(streams, coupledStreams)
	if workspaceSize == 0 {
		return 0
	}
	return align(arenaHeaderLen) + align(matrixSize) + align(matrixSize) + align(workspaceSize)
}

// recordSizes writes the actual matrix byte sizes into the arena header.
func (e *Encoder) recordSizes(mixingBytes, demixingBytes int) {
	binary.LittleEndian.PutUint32(e.arena[0:4], uint32(mixingBytes))
	binary.LittleEndian.PutUint32(e.arena[4:8], uint32(demixingBytes))
}

// recordedSizes reads the actual matrix byte sizes back from the header.
func (e *Encoder) recordedSizes() (mixingBytes, demixingBytes int) {
	return int(binary.LittleEndian.Uint32(e.arena[0:4])),
		int(binary.LittleEndian.Uint32(e.arena[4:8]))
}

// mixingBlob returns the mixing matrix region of the arena.
func (e *Encoder) mixingBlob() []byte {
	mixingBytes, _ := e.recordedSizes()
	off := align(arenaHeaderLen)
	return e.arena[off : off+mixingBytes]
}

// demixingBlob returns the demixing matrix region of the arena.
func (e *Encoder) demixingBlob() []byte {
	mixingBytes, demixingBytes := e.recordedSizes()
	off := align(arenaHeaderLen) + align(mixingBytes)
	return e.arena[off : off+demixingBytes]
}

// workspace returns the embedded multistream encoder's region of the arena.
func (e *Encoder) workspace() []byte {
	mixingBytes, demixingBytes := e.recordedSizes()
	off := align(arenaHeaderLen) + align(mixingBytes) + align(demixingBytes)
	return e.arena[off:]
}
