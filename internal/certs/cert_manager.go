package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoCertificate is returned when the PEM input holds no certificate block.
var ErrNoCertificate = errors.New("failed to parse certificate PEM")

// CertManager turns the configured TLS key and certificate into a server certificate.
// Each value is either PEM text or a path to a PEM file.
type CertManager struct {
	key  string
	cert string
	now  func() time.Time
}

// NewCertManager creates a CertManager for the given key and certificate values.
func NewCertManager(key, cert string) *CertManager {
	return &CertManager{key: key, cert: cert, now: time.Now}
}

// LoadKeyPair resolves both values and builds the key pair.
func (cm *CertManager) LoadKeyPair() (tls.Certificate, error) {
	certPEM, err := readPEM(cm.cert)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "failed to read tls certificate")
	}
	keyPEM, err := readPEM(cm.key)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "failed to read tls key")
	}
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "invalid tls key pair")
	}
	return pair, nil
}

// TLSConfig returns a server TLS configuration serving the loaded key pair.
func (cm *CertManager) TLSConfig() (*tls.Config, error) {
	pair, err := cm.LoadKeyPair()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pair},
	}, nil
}

// LeafCertificate parses the first certificate of the configured chain.
func (cm *CertManager) LeafCertificate() (*x509.Certificate, error) {
	data, err := readPEM(cm.cert)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrNoCertificate
	}
	return x509.ParseCertificate(block.Bytes)
}

// IsExpired checks if a certificate is expired.
func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now())
}

// ExpiresWithin reports whether the certificate expires in less than d.
func (cm *CertManager) ExpiresWithin(cert *x509.Certificate, d time.Duration) bool {
	return cert.NotAfter.Before(cm.now().Add(d))
}

func readPEM(value string) ([]byte, error) {
	if strings.Contains(value, "-----BEGIN") {
		// Values passed through environment variables often carry literal "\n".
		return []byte(strings.ReplaceAll(value, `\n`, "\n")), nil
	}
	return os.ReadFile(value)
}
