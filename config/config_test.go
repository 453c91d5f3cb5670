package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestLoadOverDefaults(t *testing.T) {
	config, err := Load(strings.NewReader(`
Meta:
  listen: ":9000"
  sitename: Example
Security:
  csrf-key: "` + testKey + `"
`))
	require.NoError(t, err)
	assert.Equal(t, ":9000", config.Meta.ListenAddr)
	assert.Equal(t, "Example", config.Meta.SiteName)
	assert.Equal(t, testKey, config.Sec.CSRFKey)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultListenAddrTLS, config.Meta.ListenAddrTLS)
	assert.Equal(t, "demosite", config.Sec.CookieName)
}

func TestLoadEmpty(t *testing.T) {
	config, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("Meta:\n  lisen: \":9000\"\n"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SITEURL", "")
	logger := zaptest.NewLogger(t)

	config := Default()
	err := Check(&config, logger)
	assert.EqualError(t, err, "config needs Security.csrf-key")

	config.Sec.CSRFKey = "short"
	assert.EqualError(t, Check(&config, logger), "Security.csrf-key must be 32 bytes, got 5")

	config.Sec.CSRFKey = testKey
	require.NoError(t, Check(&config, logger))

	config.Meta.SSLCert = "cert.pem"
	assert.Error(t, Check(&config, logger))

	config = Default()
	config.Sec.CSRFKey = testKey
	config.Meta.SiteURL = ""
	assert.EqualError(t, Check(&config, logger), "config needs Meta.siteurl")
}

func TestCheckDevModeGeneratesKey(t *testing.T) {
	config := Default()
	config.Meta.DevelopmentMode = true
	require.NoError(t, Check(&config, zaptest.NewLogger(t)))
	assert.Len(t, config.Sec.CSRFKey, 32)
}

func TestCheckCSRFOff(t *testing.T) {
	config, err := Load(strings.NewReader("Security:\n  csrf: false\n"))
	require.NoError(t, err)
	assert.False(t, config.Sec.CSRF)
	require.NoError(t, Check(&config, zaptest.NewLogger(t)))
	assert.Empty(t, config.Sec.CSRFKey)

	assert.True(t, Default().Sec.CSRF)
}

func TestCheckEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("SITEURL", "https://example.org")
	config := Default()
	config.Sec.CSRFKey = testKey
	require.NoError(t, Check(&config, zaptest.NewLogger(t)))
	assert.Equal(t, ":5000", config.Meta.ListenAddr)
	assert.Equal(t, "https://example.org", config.Meta.SiteURL)
}

func TestWriteFileThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	config := Default()
	config.Meta.SiteName = "Written"
	config.Sec.CSRFKey = testKey
	require.NoError(t, WriteFile(path, config))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "sitename: Written")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.ConfigFilePath)
	loaded.ConfigFilePath = ""
	assert.Equal(t, config, loaded)
}
