// Package credential loads TLS certificates from disk and wraps them with
// the fingerprint used to key the credential store and the server bindings.
package credential

import (
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"software.sslmate.com/src/go-pkcs12"

	errs "github.com/ksyq12/certbind/internal/errors"
	"github.com/ksyq12/certbind/internal/logger"
)

// Certificate is an immutable loaded credential. Fingerprint is the
// upper-case hex SHA-1 of the DER bytes, the thumbprint convention the
// binding store keys certificates by.
type Certificate struct {
	X509        *x509.Certificate
	Fingerprint string
}

// New wraps a parsed certificate with its fingerprint.
func New(cert *x509.Certificate) *Certificate {
	return &Certificate{
		X509:        cert,
		Fingerprint: Thumbprint(cert.Raw),
	}
}

// Thumbprint computes the upper-case hex SHA-1 fingerprint of DER bytes.
func Thumbprint(der []byte) string {
	sum := sha1.Sum(der)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Subject returns the certificate's subject common name.
func (c *Certificate) Subject() string {
	return c.X509.Subject.CommonName
}

// NotAfter returns the certificate's expiry timestamp.
func (c *Certificate) NotAfter() time.Time {
	return c.X509.NotAfter
}

// PEM returns the certificate encoded as a PEM CERTIFICATE block.
func (c *Certificate) PEM() string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.X509.Raw}))
}

// Load reads a certificate from path, dispatching on the file extension:
// .pfx and .p12 files are decoded as PKCS#12 bundles with the given
// password, anything else as PEM.
func Load(path, password string) (*Certificate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pfx", ".p12":
		return LoadPFX(path, password)
	default:
		return LoadPEM(path)
	}
}

// LoadPFX decodes a PKCS#12 bundle and returns its leaf certificate.
func LoadPFX(path, password string) (*Certificate, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	_, cert, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		if stderrors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, errs.ErrWrongPassword
		}
		return nil, errs.Parse("cannot decode PKCS#12 bundle", err)
	}
	logger.Debug("Decoded PKCS#12 bundle %s (%d chain certificates)", path, len(caCerts))

	return New(cert), nil
}

// LoadPEM reads the first CERTIFICATE block from a PEM file.
func LoadPEM(path string) (*Certificate, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	for block, rest := pem.Decode(data); block != nil; block, rest = pem.Decode(rest) {
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errs.Parse("cannot parse certificate", err)
		}
		return New(cert), nil
	}

	return nil, errs.Parse("no certificate found in "+path, nil)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrCertNotFound
		}
		return nil, errs.Load("cannot read certificate file", err)
	}
	return data, nil
}
