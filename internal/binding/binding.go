// Package binding models the web server's sites and their listener
// bindings, and reconciles secure bindings against a newly installed
// certificate.
//
// The configuration backend is abstracted behind ConfigService and passed
// explicitly; the engine never opens an implicit connection of its own.
// Only two binding fields are ever written: the bound certificate
// fingerprint and the store reference. Host identity and protocol are
// read-only inputs to the reconciliation decision.
package binding

import "strings"

// Binding protocols. Only secure bindings are reconciliation candidates.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// Site is a named container owning an ordered sequence of bindings.
type Site struct {
	Name     string     `yaml:"name" json:"name"`
	Bindings []*Binding `yaml:"bindings" json:"bindings"`
}

// Binding is one listener endpoint of a site. An empty Host means the
// binding answers for any host name.
type Binding struct {
	Protocol        string `yaml:"protocol" json:"protocol"`
	IP              string `yaml:"ip,omitempty" json:"ip,omitempty"`
	Port            int    `yaml:"port,omitempty" json:"port,omitempty"`
	Host            string `yaml:"host,omitempty" json:"host,omitempty"`
	CertFingerprint string `yaml:"cert_fingerprint,omitempty" json:"cert_fingerprint,omitempty"`
	CertStore       string `yaml:"cert_store,omitempty" json:"cert_store,omitempty"`
}

// IsSecure reports whether the binding uses the secure protocol.
func (b *Binding) IsSecure() bool {
	return strings.EqualFold(b.Protocol, ProtocolHTTPS)
}

// ConfigService exposes the server's site configuration. Commit durably
// persists all pending mutations on one site's bindings; commits of
// different sites are independent.
type ConfigService interface {
	Sites() ([]*Site, error)
	Commit(site *Site) error
}
