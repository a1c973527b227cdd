// Package identity derives the set of domain identities a certificate is
// valid for and decides whether a host name falls under that set.
//
// Extraction reads the subjectAltName extension directly as DER rather than
// relying on pre-parsed fields, so entry kinds other than DNS names (IP
// addresses, email addresses, URIs) are skipped without error. Matching
// honors single-level wildcard prefixes: *.example.com covers example.com
// itself and any subdomain ending in .example.com, with the dot boundary
// enforced so evilexample.com never matches.
package identity

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"strings"
	"time"

	"github.com/ksyq12/certbind/internal/logger"
)

// oidSubjectAltName is the id-ce-subjectAltName extension identifier.
var oidSubjectAltName = asn1.ObjectIdentifier{2, 5, 29, 17}

// tagDNSName is the GeneralName context tag for dNSName entries.
const tagDNSName = 2

// Set is the deduplicated, order-preserving list of domain identities a
// certificate asserts coverage for. Deduplication is case-insensitive;
// the first occurrence's casing is kept.
type Set []string

// Extract derives the identity Set for a certificate: every DNS name from
// the subjectAltName extension in extension order, then the subject common
// name if it adds anything new. The result may be empty. Extraction never
// fails; entries that cannot be decoded are skipped.
func Extract(cert *x509.Certificate) Set {
	var ids Set
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if seen[key] {
			return
		}
		seen[key] = true
		ids = append(ids, name)
	}

	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(oidSubjectAltName) {
			continue
		}
		for _, name := range dnsNames(ext.Value) {
			add(name)
		}
	}

	add(cert.Subject.CommonName)

	return ids
}

// dnsNames decodes a subjectAltName extension value and returns its dNSName
// entries in order. Decoding is best-effort: a malformed outer sequence
// yields nothing, and decoding stops at the first undecodable entry.
func dnsNames(der []byte) []string {
	var seq asn1.RawValue
	if _, err := asn1.Unmarshal(der, &seq); err != nil {
		logger.Warn("Skipping unparseable subjectAltName extension: %v", err)
		return nil
	}
	if seq.Class != asn1.ClassUniversal || seq.Tag != asn1.TagSequence || !seq.IsCompound {
		logger.Warn("Skipping subjectAltName extension: not a GeneralNames sequence")
		return nil
	}

	var names []string
	rest := seq.Bytes
	for len(rest) > 0 {
		var v asn1.RawValue
		var err error
		rest, err = asn1.Unmarshal(rest, &v)
		if err != nil {
			logger.Warn("Stopping subjectAltName scan on undecodable entry: %v", err)
			break
		}
		// Only dNSName entries matter; IP, email and other kinds are skipped.
		if v.Class == asn1.ClassContextSpecific && v.Tag == tagDNSName && !v.IsCompound {
			names = append(names, string(v.Bytes))
		}
	}
	return names
}

// Matches reports whether host falls under any identity in the set.
// Comparison is case-insensitive. Entries starting with "*." match their
// root domain and any direct or nested subdomain of it; all other entries
// require exact equality. An empty set matches nothing.
func (s Set) Matches(host string) bool {
	host = strings.ToLower(host)
	for _, id := range s {
		id = strings.ToLower(id)
		if root, ok := strings.CutPrefix(id, "*."); ok {
			if host == root || strings.HasSuffix(host, "."+root) {
				return true
			}
			continue
		}
		if host == id {
			return true
		}
	}
	return false
}

// Label derives the human-readable store label for a certificate covering
// this set: the first identity, a [*N] marker when the set holds more than
// one entry, and the not-after date. An empty set falls back to the raw
// subject name. The label is informational only and never used for matching.
func (s Set) Label(fallback string, notAfter time.Time) string {
	name := fallback
	if len(s) > 0 {
		name = s[0]
	}
	if len(s) > 1 {
		name = fmt.Sprintf("%s [*%d]", name, len(s))
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", name, notAfter.Format("2006-01-02")))
}
