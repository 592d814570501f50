package store

// MemStore is an in-memory Store for tests. It round-trips through the same
// byte encoding as FileStore.
type MemStore struct {
	// Data holds the raw saved bytes; nil means nothing saved.
	Data []byte

	// Saves counts Save calls.
	Saves int

	// LoadError and SaveError, if set, are returned by Load and Save.
	LoadError error
	SaveError error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load decodes the saved bytes.
func (m *MemStore) Load() (State, error) {
	if m.LoadError != nil {
		return State{}, m.LoadError
	}
	return Decode(m.Data)
}

// Save records the encoded state.
func (m *MemStore) Save(s State) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Saves++
	m.Data = s.Bytes()
	return nil
}
