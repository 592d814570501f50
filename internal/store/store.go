// Package store persists the manual color selection across restarts.
// The real implementation keeps the four bytes in a small file, standing in
// for the EEPROM the selection used to live in.
package store

import "errors"

// ErrNoState is returned by Load when nothing valid has been saved.
var ErrNoState = errors.New("store: no saved color state")

// Size is the encoded length of a State.
const Size = 4

// State is the manual color selection: the selected channel and the color.
type State struct {
	Select uint8 // 0-2: R, G, B
	Colors [3]uint8
}

// Valid reports whether the selection index names a channel.
func (s State) Valid() bool {
	return s.Select <= 2
}

// Bytes encodes the state as [select, r, g, b].
func (s State) Bytes() []byte {
	return []byte{s.Select, s.Colors[0], s.Colors[1], s.Colors[2]}
}

// Decode parses [select, r, g, b]. It returns ErrNoState for short input or an
// out-of-range selection index.
func Decode(b []byte) (State, error) {
	if len(b) < Size {
		return State{}, ErrNoState
	}
	s := State{Select: b[0], Colors: [3]uint8{b[1], b[2], b[3]}}
	if !s.Valid() {
		return State{}, ErrNoState
	}
	return s, nil
}

// Store loads and saves the color state.
type Store interface {
	// Load returns the saved state, or ErrNoState if none is valid.
	Load() (State, error)

	// Save persists the state.
	Save(State) error
}
