package binding

// MockService is a test double for ConfigService
type MockService struct {
	SitesList []*Site

	// Function mocks - set these to customize behavior
	SitesFunc  func() ([]*Site, error)
	CommitFunc func(site *Site) error

	// Call tracking - check these to verify interactions
	SitesCalls  int
	CommitCalls []string
}

// NewMockService creates a new MockService serving the given sites
func NewMockService(sites ...*Site) *MockService {
	return &MockService{
		SitesList:   sites,
		CommitCalls: make([]string, 0),
	}
}

// Sites records the call and invokes the mock function if set
func (m *MockService) Sites() ([]*Site, error) {
	m.SitesCalls++
	if m.SitesFunc != nil {
		return m.SitesFunc()
	}
	return m.SitesList, nil
}

// Commit records the call and invokes the mock function if set
func (m *MockService) Commit(site *Site) error {
	m.CommitCalls = append(m.CommitCalls, site.Name)
	if m.CommitFunc != nil {
		return m.CommitFunc(site)
	}
	return nil
}
