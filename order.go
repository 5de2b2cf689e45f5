// order.go derives the ambisonic order and stream topology from a channel
// count. Mirrors libopus opus_projection_encoder.c channel validation.

package projection

import "fmt"

// MappingFamilyAmbisonics is the channel mapping family implemented by this
// package: projection-based ambisonics with maximum stereo coupling.
const MappingFamilyAmbisonics = 253

// isqrt32 computes floor(sqrt(n)) for n > 0, and 0 for n <= 0, using the
// binary search from http://www.azillionmonkeys.com/qed/sqroot.html.
//
// Reference: libopus celt/mathops.c:isqrt32
func isqrt32(n int) int {
	if n <= 0 {
		return 0
	}

	val := uint32(n)
	g := uint32(0)

	bshift := 0
	for temp := val; temp > 1; temp >>= 1 {
		bshift++
	}
	bshift >>= 1

	b := uint32(1) << bshift

	for bshift >= 0 {
		t := ((g << 1) + b) << bshift
		if t <= val {
			g += b
			val -= t
		}
		b >>= 1
		bshift--
	}

	return int(g)
}

// orderPlusOneFromChannels validates an ambisonics channel count and returns
// order+1. Allowed counts are (1+n)^2 + 2j for n = 0..14 and j = 0 or 1.
func orderPlusOneFromChannels(channels int) (int, error) {
	orderPlusOne := isqrt32(channels)
	acnChannels := orderPlusOne * orderPlusOne
	nondiegetic := channels - acnChannels

	if orderPlusOne < 1 || orderPlusOne > 15 || (nondiegetic != 0 && nondiegetic != 2) {
		return 0, fmt.Errorf("%w: %d channels", ErrInvalidChannels, channels)
	}
	return orderPlusOne, nil
}

// streamsFromChannels derives the stream topology for a channel count.
// Family 253 pairs channels into stereo streams: streams = ceil(channels/2),
// coupled = floor(channels/2). Any other family fails validation here; the
// encoder constructor reports that case as ErrUnsupportedMappingFamily
// instead, so callers can tell the two apart.
func streamsFromChannels(channels, mappingFamily int) (streams, coupledStreams, orderPlusOne int, err error) {
	if mappingFamily != MappingFamilyAmbisonics {
		return 0, 0, 0, fmt.Errorf("%w: mapping family %d", ErrBadArgument, mappingFamily)
	}
	orderPlusOne, err = orderPlusOneFromChannels(channels)
	if err != nil {
		return 0, 0, 0, err
	}
	return (channels + 1) / 2, channels / 2, orderPlusOne, nil
}

// Order returns the ambisonics order and non-diegetic channel count derived
// from a channel count.
func Order(channels int) (order, nondiegetic int, err error) {
	orderPlusOne, err := orderPlusOneFromChannels(channels)
	if err != nil {
		return 0, 0, err
	}
	return orderPlusOne - 1, channels - orderPlusOne*orderPlusOne, nil
}

// ValidChannelCount reports whether channels is a legal ambisonics channel
// count: 1, 3, 4, 6, 9, 11, 16, 18, 25, 27, ..., 225, 227.
func ValidChannelCount(channels int) bool {
	_, err := orderPlusOneFromChannels(channels)
	return err == nil
}

// ChannelCount returns the channel count for an ambisonics order with an
// optional non-diegetic stereo pair, or 0 if the order is out of range.
func ChannelCount(order int, withNondiegetic bool) int {
	if order < 0 || order > 14 {
		return 0
	}
	channels := (order + 1) * (order + 1)
	if withNondiegetic {
		channels += 2
	}
	return channels
}
