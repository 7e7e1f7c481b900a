package certs

import (
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_CreatesCertificate(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir, "caja.local", "192.168.1.20")

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	require.NotEmpty(t, cert.Certificate)

	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	assert.Contains(t, parsed.DNSNames, "localhost")
	assert.Contains(t, parsed.DNSNames, "caja.local")
	assert.NoError(t, parsed.VerifyHostname("192.168.1.20"))
	assert.Equal(t, []string{"Lubri"}, parsed.Subject.Organization)

	certFile, keyFile := m.Paths()
	info, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(certFile)
	assert.NoError(t, err)
}

func TestFileManager_ReusesValidCertificate(t *testing.T) {
	m := NewFileManager(t.TempDir())

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.Equal(t, first.Certificate[0], second.Certificate[0])
}

func TestFileManager_RegeneratesForNewHost(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileManager(dir).GetOrCreateCertificate()
	require.NoError(t, err)

	second, err := NewFileManager(dir, "taller.local").GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEqual(t, first.Certificate[0], second.Certificate[0])
}

func TestFileManager_RegeneratesNearExpiry(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(Validity - 24*time.Hour) }
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEqual(t, first.Certificate[0], second.Certificate[0])
}

func TestFileManager_ReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	certFile, keyFile := m.Paths()
	require.NoError(t, os.WriteFile(certFile, []byte("garbage"), 0o600))
	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0o600))

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
}
