package sensor

// FakeReader is a test double that returns scripted distances.
type FakeReader struct {
	// Samples contains scripted distances in millimeters.
	// Each call to Distance() consumes the next sample.
	Samples []int

	index int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []int) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Distance returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly; 0 if none.
func (f *FakeReader) Distance() int {
	if len(f.Samples) == 0 {
		return 0
	}
	d := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return d
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
