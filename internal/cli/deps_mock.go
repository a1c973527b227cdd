package cli

import (
	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/config"
	"github.com/ksyq12/certbind/internal/credential"
	"github.com/ksyq12/certbind/internal/store"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockConfigLoader) Load() (*config.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockCertLoader is a test double for CertLoader
type MockCertLoader struct {
	Cert      *credential.Certificate
	Err       error
	LoadCalls []string
}

func (m *MockCertLoader) Load(path, password string) (*credential.Certificate, error) {
	m.LoadCalls = append(m.LoadCalls, path)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Cert, nil
}

// MockStoreOpener is a test double for StoreOpener
type MockStoreOpener struct {
	Store     *store.MockStore
	Err       error
	OpenCalls int
}

func (m *MockStoreOpener) Open(path, name string) (store.Store, error) {
	m.OpenCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Store == nil {
		m.Store = store.NewMockStore(name)
	}
	return m.Store, nil
}

// MockServiceFactory is a test double for ServiceFactory
type MockServiceFactory struct {
	Service *binding.MockService
}

func (m *MockServiceFactory) Create(path string) binding.ConfigService {
	if m.Service == nil {
		m.Service = binding.NewMockService()
	}
	return m.Service
}

// MockDepsBuilder builds Dependencies with mock implementations
type MockDepsBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a builder with default mocks
func NewMockDeps() *MockDepsBuilder {
	return &MockDepsBuilder{
		deps: &Dependencies{
			ConfigLoader:   &MockConfigLoader{},
			CertLoader:     &MockCertLoader{},
			StoreOpener:    &MockStoreOpener{},
			ServiceFactory: &MockServiceFactory{},
		},
	}
}

// WithConfig sets the config returned by the mock loader
func (b *MockDepsBuilder) WithConfig(cfg *config.Config) *MockDepsBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithCert sets the certificate returned by the mock loader
func (b *MockDepsBuilder) WithCert(cert *credential.Certificate) *MockDepsBuilder {
	b.deps.CertLoader = &MockCertLoader{Cert: cert}
	return b
}

// WithStore sets the mock store handed out by the opener
func (b *MockDepsBuilder) WithStore(s *store.MockStore) *MockDepsBuilder {
	b.deps.StoreOpener = &MockStoreOpener{Store: s}
	return b
}

// WithService sets the mock configuration service
func (b *MockDepsBuilder) WithService(svc *binding.MockService) *MockDepsBuilder {
	b.deps.ServiceFactory = &MockServiceFactory{Service: svc}
	return b
}

// Build returns the assembled Dependencies
func (b *MockDepsBuilder) Build() *Dependencies {
	return b.deps
}
