package sensor

// Frame layout: marker byte followed by four ASCII digits.
const (
	FrameMarker = 'R'
	FrameSize   = 5
)

// Framer reassembles distance frames from a byte stream. Bytes that cannot
// start a valid frame are dropped one at a time until the stream resyncs.
type Framer struct {
	buf []byte
}

// Feed appends received bytes.
func (f *Framer) Feed(b []byte) {
	f.buf = append(f.buf, b...)
}

// Next returns the next complete reading, or false when no full frame is buffered.
func (f *Framer) Next() (int, bool) {
	defer f.compact()
	for len(f.buf) > 0 {
		if f.buf[0] != FrameMarker {
			f.buf = f.buf[1:]
			continue
		}
		if len(f.buf) < FrameSize {
			return 0, false
		}
		mm, ok := parseDigits(f.buf[1:FrameSize])
		if !ok {
			f.buf = f.buf[1:]
			continue
		}
		f.buf = f.buf[FrameSize:]
		return mm, true
	}
	return 0, false
}

// Buffered returns the number of bytes waiting for a complete frame.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

func (f *Framer) compact() {
	if len(f.buf) == 0 {
		f.buf = nil
		return
	}
	if cap(f.buf) > 4*FrameSize && len(f.buf) < cap(f.buf)/2 {
		f.buf = append([]byte(nil), f.buf...)
	}
}

func parseDigits(b []byte) (int, bool) {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
