package cli

import (
	"github.com/ksyq12/certbind/internal/binding"
	"github.com/ksyq12/certbind/internal/config"
	"github.com/ksyq12/certbind/internal/credential"
	"github.com/ksyq12/certbind/internal/store"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader   ConfigLoader
	CertLoader     CertLoader
	StoreOpener    StoreOpener
	ServiceFactory ServiceFactory
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// CertLoader loads a certificate from disk
type CertLoader interface {
	Load(path, password string) (*credential.Certificate, error)
}

// StoreOpener opens the credential store
type StoreOpener interface {
	Open(path, name string) (store.Store, error)
}

// ServiceFactory creates the server-configuration service
type ServiceFactory interface {
	Create(path string) binding.ConfigService
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:   &realConfigLoader{},
	CertLoader:     &realCertLoader{},
	StoreOpener:    &realStoreOpener{},
	ServiceFactory: &realServiceFactory{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to the underlying packages

type realConfigLoader struct{}

func (r *realConfigLoader) Load() (*config.Config, error) {
	return config.Load()
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realCertLoader struct{}

func (r *realCertLoader) Load(path, password string) (*credential.Certificate, error) {
	return credential.Load(path, password)
}

type realStoreOpener struct{}

func (r *realStoreOpener) Open(path, name string) (store.Store, error) {
	return store.Open(path, name)
}

type realServiceFactory struct{}

func (r *realServiceFactory) Create(path string) binding.ConfigService {
	return binding.NewFileService(path)
}
