package store

// MockStore is a test double for Store
type MockStore struct {
	StoreName string
	Entries   map[string]*Entry

	// Function mocks - set these to customize behavior
	GetFunc func(fingerprint string) (*Entry, bool)
	PutFunc func(entry *Entry) error

	// Call tracking - check these to verify interactions
	GetCalls   []string
	PutCalls   []*Entry
	CloseCalls int
}

// NewMockStore creates a new MockStore with default in-memory behavior
func NewMockStore(name string) *MockStore {
	return &MockStore{
		StoreName: name,
		Entries:   make(map[string]*Entry),
		GetCalls:  make([]string, 0),
		PutCalls:  make([]*Entry, 0),
	}
}

// Name returns the configured store name
func (m *MockStore) Name() string {
	return m.StoreName
}

// Get records the call and invokes the mock function if set
func (m *MockStore) Get(fingerprint string) (*Entry, bool) {
	m.GetCalls = append(m.GetCalls, fingerprint)
	if m.GetFunc != nil {
		return m.GetFunc(fingerprint)
	}
	e, ok := m.Entries[fingerprint]
	return e, ok
}

// Put records the call and invokes the mock function if set
func (m *MockStore) Put(entry *Entry) error {
	m.PutCalls = append(m.PutCalls, entry)
	if m.PutFunc != nil {
		return m.PutFunc(entry)
	}
	if _, ok := m.Entries[entry.Fingerprint]; !ok {
		m.Entries[entry.Fingerprint] = entry
	}
	return nil
}

// List returns all in-memory entries
func (m *MockStore) List() []*Entry {
	entries := make([]*Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, e)
	}
	return entries
}

// Close records the call
func (m *MockStore) Close() error {
	m.CloseCalls++
	return nil
}
