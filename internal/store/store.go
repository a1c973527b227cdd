// Package store provides the fingerprint-keyed credential store and the
// idempotent certificate installer.
//
// The store is append-only from the engine's point of view: certificates
// are inserted once and never replaced or removed, and multiple stored
// certificates with overlapping identities are expected. The file-backed
// implementation persists every insert immediately, so a handle can be
// released at any point without losing installed credentials.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/certbind/internal/credential"
	errs "github.com/ksyq12/certbind/internal/errors"
	"github.com/ksyq12/certbind/internal/identity"
	"github.com/ksyq12/certbind/internal/logger"
)

// Entry is one installed certificate.
type Entry struct {
	Fingerprint string    `yaml:"fingerprint" json:"fingerprint"`
	Label       string    `yaml:"label" json:"label"`
	NotAfter    time.Time `yaml:"not_after" json:"not_after"`
	PEM         string    `yaml:"pem" json:"pem,omitempty"`
}

// Store is a keyed collection of installed certificates. Implementations
// are not safe for concurrent use; the engine runs single-threaded.
type Store interface {
	// Name returns the canonical store name bindings reference.
	Name() string

	// Get looks up an entry by fingerprint.
	Get(fingerprint string) (*Entry, bool)

	// Put inserts an entry. Inserting an existing fingerprint is not an
	// error; the original entry is kept.
	Put(entry *Entry) error

	// List returns all entries sorted by label.
	List() []*Entry

	// Close releases the store handle. Get and Put fail afterwards.
	Close() error
}

// Install registers a certificate in the store, keyed by fingerprint, with
// a display label derived from its identity set. Installing a certificate
// that is already present is a no-op reported via alreadyPresent.
func Install(s Store, cert *credential.Certificate, ids identity.Set) (alreadyPresent bool, err error) {
	if _, ok := s.Get(cert.Fingerprint); ok {
		logger.Debug("Certificate %s already installed", cert.Fingerprint)
		return true, nil
	}

	entry := &Entry{
		Fingerprint: cert.Fingerprint,
		Label:       ids.Label(cert.Subject(), cert.NotAfter()),
		NotAfter:    cert.NotAfter(),
		PEM:         cert.PEM(),
	}
	if err := s.Put(entry); err != nil {
		return false, errs.Store("cannot install certificate", err)
	}
	logger.Info("Installed certificate %s (%s)", cert.Fingerprint, entry.Label)
	return false, nil
}

// fileStore persists entries to a YAML file.
type fileStore struct {
	name    string
	path    string
	entries map[string]*Entry
	closed  bool
}

// storeFile is the on-disk layout.
type storeFile struct {
	Name         string            `yaml:"name"`
	Certificates map[string]*Entry `yaml:"certificates"`
}

// Open loads (or initializes) a file-backed store. The returned handle
// must be released with Close on every path.
func Open(path, name string) (Store, error) {
	s := &fileStore{
		name:    name,
		path:    path,
		entries: make(map[string]*Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errs.Store("cannot read credential store", err)
	}

	var f storeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errs.Store("cannot parse credential store", err)
	}
	if f.Certificates != nil {
		s.entries = f.Certificates
	}
	logger.Debug("Opened credential store %s (%d certificates)", path, len(s.entries))

	return s, nil
}

func (s *fileStore) Name() string {
	return s.name
}

func (s *fileStore) Get(fingerprint string) (*Entry, bool) {
	if s.closed {
		return nil, false
	}
	e, ok := s.entries[fingerprint]
	return e, ok
}

func (s *fileStore) Put(entry *Entry) error {
	if s.closed {
		return errs.ErrStoreClosed
	}
	if _, ok := s.entries[entry.Fingerprint]; ok {
		return nil
	}
	s.entries[entry.Fingerprint] = entry
	return s.save()
}

func (s *fileStore) List() []*Entry {
	entries := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries
}

func (s *fileStore) Close() error {
	s.closed = true
	return nil
}

func (s *fileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := yaml.Marshal(&storeFile{Name: s.name, Certificates: s.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}
