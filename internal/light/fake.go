package light

// Write is a single recorded Output.Set call.
type Write struct {
	Shelf int
	Color int
	Value uint8
}

// FakeOutput records channel writes for test assertions.
type FakeOutput struct {
	// Writes contains every Set call in order.
	Writes []Write

	// Flushes counts Flush calls.
	Flushes int

	// FlushError, if set, will be returned by Flush.
	FlushError error

	values map[[2]int]uint8
}

// NewFakeOutput creates a FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{values: make(map[[2]int]uint8)}
}

// Set records the write.
func (f *FakeOutput) Set(shelf, color int, value uint8) {
	f.Writes = append(f.Writes, Write{Shelf: shelf, Color: color, Value: value})
	f.values[[2]int{shelf, color}] = value
}

// Flush counts the flush.
func (f *FakeOutput) Flush() error {
	f.Flushes++
	return f.FlushError
}

// Value returns the last value written to (shelf, color).
func (f *FakeOutput) Value(shelf, color int) uint8 {
	return f.values[[2]int{shelf, color}]
}

// Reset clears recorded writes.
func (f *FakeOutput) Reset() {
	f.Writes = nil
	f.Flushes = 0
	f.FlushError = nil
}
