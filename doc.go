// Package projection implements the ambisonics projection encoder layer
// (channel mapping family 253) used on top of a multistream audio encoder.
//
// Ambisonics encodes spatial audio as spherical harmonic coefficients. The
// channel count for order k is (k+1)^2, optionally followed by 2 non-diegetic
// (head-locked stereo) channels. The projection layer transforms those
// channels through a fixed-point mixing matrix into pairs of stereo streams
// before the multistream encoder sees them, and exposes the inverse
// (demixing) matrix to decoders through the control interface.
//
// The layer itself performs no perceptual coding: the elementary stream
// codec is supplied through multistream.CoreFactory and treated as an
// opaque collaborator.
//
// # Encoder state
//
// An Encoder owns a single contiguous arena holding a small size header,
// the mixing matrix blob, the demixing matrix blob, and the workspace of
// the embedded multistream encoder. Sub-object views are recomputed from
// the recorded header sizes on every access; nothing caches a derived
// offset.
//
// An Encoder instance is NOT safe for concurrent use. Separate instances
// are fully independent and may be used from separate goroutines.
//
// Reference: RFC 8486, libopus opus_projection_encoder.c
package projection
