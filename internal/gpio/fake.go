package gpio

// FakePin is a test double that records the levels it was driven to.
type FakePin struct {
	// Levels contains every value passed to Set, in order.
	Levels []bool

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set()
	SetError error
}

// NewFakePin creates a FakePin.
func NewFakePin() *FakePin {
	return &FakePin{}
}

// Set records the level.
func (f *FakePin) Set(high bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels = append(f.Levels, high)
	return nil
}

// High reports the last level set; false if never set.
func (f *FakePin) High() bool {
	return len(f.Levels) > 0 && f.Levels[len(f.Levels)-1]
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}
