package remote

// FakeReader is a test double that returns scripted codes, one per call.
// Once exhausted it returns None.
type FakeReader struct {
	Codes []Code

	index int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeReader creates a FakeReader with the given codes.
func NewFakeReader(codes ...Code) *FakeReader {
	return &FakeReader{Codes: codes}
}

// Next returns the next scripted code.
func (f *FakeReader) Next() Code {
	if f.index >= len(f.Codes) {
		return None
	}
	c := f.Codes[f.index]
	f.index++
	return c
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
