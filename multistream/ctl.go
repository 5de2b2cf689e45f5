// ctl.go implements the typed control request dispatcher. Requests this
// encoder doesn't recognize fail with ErrUnknownRequest so a layer above can
// add its own requests and forward the rest here.

package multistream

// CtlSetBitrate sets the total target bitrate in bits per second. The rate
// is split evenly across streams, matching the libopus ambisonics policy.
type CtlSetBitrate struct {
	Bitrate int
}

// CtlBitrate reads the total target bitrate back into Value.
type CtlBitrate struct {
	Value *int
}

// CtlReset clears all stream codec state for a new stream.
type CtlReset struct{}

// Ctl applies a control request. Unknown request types fail with
// ErrUnknownRequest.
func (e *Encoder) Ctl(request any) error {
	switch r := request.(type) {
	case CtlSetBitrate:
		e.bitrate = r.Bitrate
		per := r.Bitrate / e.streams
		if per < 500 {
			per = 500
		}
		for _, core := range e.cores {
			core.SetBitrate(per)
		}
	case CtlBitrate:
		if r.Value == nil {
			return ErrNilCtlValue
		}
		*r.Value = e.bitrate
	case CtlReset:
		for _, core := range e.cores {
			core.Reset()
		}
	default:
		return ErrUnknownRequest
	}
	return nil
}
