package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_GeneratesCertificate(t *testing.T) {
	dir := t.TempDir() + "/nested"
	store := NewStore(dir)

	cert, err := store.Certificate()
	require.NoError(t, err)

	l := leaf(t, cert)
	assert.Equal(t, "findash", l.Subject.Organization[0])
	assert.Contains(t, l.DNSNames, "localhost")
	assert.Len(t, l.IPAddresses, 2)
	require.NoError(t, l.VerifyHostname("localhost"))
	require.NoError(t, l.VerifyHostname("127.0.0.1"))
	assert.True(t, l.NotAfter.After(time.Now().Add(364*24*time.Hour)))

	info, err := os.Stat(store.KeyFile())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_Certificate(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		setup     func(t *testing.T, dir string)
		name      string
		at        time.Time
		hosts     []string
		wantReuse bool
	}{
		{
			name:      "reuses valid certificate",
			at:        base.Add(30 * 24 * time.Hour),
			wantReuse: true,
		},
		{
			name: "regenerates near expiry",
			at:   base.Add(DefaultValidity - 24*time.Hour),
		},
		{
			name: "regenerates before validity starts",
			at:   base.Add(-time.Hour),
		},
		{
			name:  "regenerates for new host",
			at:    base.Add(time.Hour),
			hosts: []string{"localhost", "127.0.0.1", "::1", "findash.local"},
		},
		{
			name: "regenerates corrupt files",
			at:   base.Add(time.Hour),
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.WriteFile(NewStore(dir).CertFile(), []byte("garbage"), 0o600))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			first, err := NewStore(dir, WithClock(func() time.Time { return base })).Certificate()
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			opts := []Option{WithClock(func() time.Time { return tt.at })}
			if tt.hosts != nil {
				opts = append(opts, WithHosts(tt.hosts...))
			}
			second, err := NewStore(dir, opts...).Certificate()
			require.NoError(t, err)

			sameSerial := leaf(t, first).SerialNumber.Cmp(leaf(t, second).SerialNumber) == 0
			assert.Equal(t, tt.wantReuse, sameSerial)
			if tt.hosts != nil {
				assert.Contains(t, leaf(t, second).DNSNames, "findash.local")
			}
		})
	}
}

func TestTLSConfig(t *testing.T) {
	cert, err := NewStore(t.TempDir()).Certificate()
	require.NoError(t, err)

	cfg := TLSConfig(cert)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	require.Len(t, cfg.Certificates, 1)
}
