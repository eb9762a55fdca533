package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSigned(t *testing.T, notAfter time.Time) (keyPEM, certPEM string) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     notAfter,
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return keyPEM, certPEM
}

func TestLoadKeyPairFromPEMText(t *testing.T) {
	key, cert := selfSigned(t, time.Now().Add(24*time.Hour))

	cfg, err := NewCertManager(key, cert).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
}

func TestLoadKeyPairEscapedNewlines(t *testing.T) {
	key, cert := selfSigned(t, time.Now().Add(24*time.Hour))
	escape := func(s string) string { return strings.ReplaceAll(s, "\n", `\n`) }

	_, err := NewCertManager(escape(key), escape(cert)).LoadKeyPair()
	assert.NoError(t, err)
}

func TestLoadKeyPairFromFiles(t *testing.T) {
	key, cert := selfSigned(t, time.Now().Add(24*time.Hour))
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.pem")
	certPath := filepath.Join(dir, "cert.pem")
	require.NoError(t, os.WriteFile(keyPath, []byte(key), 0600))
	require.NoError(t, os.WriteFile(certPath, []byte(cert), 0600))

	_, err := NewCertManager(keyPath, certPath).LoadKeyPair()
	assert.NoError(t, err)

	_, err = NewCertManager(keyPath, filepath.Join(dir, "missing.pem")).LoadKeyPair()
	assert.Error(t, err)
}

func TestExpiry(t *testing.T) {
	key, cert := selfSigned(t, time.Now().Add(48*time.Hour))
	cm := NewCertManager(key, cert)

	leaf, err := cm.LeafCertificate()
	require.NoError(t, err)
	assert.False(t, cm.IsExpired(leaf))
	assert.True(t, cm.ExpiresWithin(leaf, 72*time.Hour))
	assert.False(t, cm.ExpiresWithin(leaf, time.Hour))

	cm.now = func() time.Time { return time.Now().Add(96 * time.Hour) }
	assert.True(t, cm.IsExpired(leaf))
}

func TestLeafCertificateRejectsGarbage(t *testing.T) {
	_, err := NewCertManager("", "-----BEGIN nothing").LeafCertificate()
	assert.ErrorIs(t, err, ErrNoCertificate)
}
