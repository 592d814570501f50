// Package remote receives single-byte codes from the IR remote receiver.
package remote

// Code is a single remote button press. Zero means no press.
type Code byte

// Remote codes as sent by the receiver.
const (
	None   Code = 0
	Power  Code = 'P'
	A      Code = 'A'
	B      Code = 'B'
	C      Code = 'C'
	Up     Code = 'u'
	Down   Code = 'd'
	Left   Code = 'l'
	Right  Code = 'r'
	Select Code = 's'
)

// Known reports whether c is a button on the remote.
func (c Code) Known() bool {
	switch c {
	case Power, A, B, C, Up, Down, Left, Right, Select:
		return true
	}
	return false
}

func (c Code) String() string {
	switch c {
	case None:
		return "NONE"
	case Power:
		return "POWER"
	case A, B, C:
		return string(rune(c))
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Select:
		return "SELECT"
	}
	return "UNKNOWN"
}

// Reader yields remote codes.
type Reader interface {
	// Next returns the next received code, or None if nothing arrived.
	Next() Code

	// Close releases the link.
	Close() error
}

// Link defaults.
const (
	DefaultDevice = "/dev/ttyAMA1"
	DefaultBaud   = 115200
)
