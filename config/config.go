package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr    = "127.0.0.1:8080"
	DefaultListenAddrTLS = "127.0.0.1:1443"

	// gorilla/csrf wants a 32 byte key
	csrfKeyLen = 32
)

type MetaConfig struct {
	Version         string `yaml:"-"`
	ListenAddr      string `yaml:"listen"`
	ListenAddrTLS   string `yaml:"listentls"`
	SSLCert         string `yaml:"sslcert,omitempty"`
	SSLKey          string `yaml:"sslkey,omitempty"`
	SiteName        string `yaml:"sitename"`
	SiteURL         string `yaml:"siteurl"`
	DevelopmentMode bool   `yaml:"devmode"`
	LogLevel        string `yaml:"loglevel"`
	CopyrightName   string `yaml:"copyright-name"`
}

type SecurityConfig struct {
	CSRF         bool   `yaml:"csrf"` // require a token on the contact routes
	CSRFKey      string `yaml:"csrf-key"`
	CookieName   string `yaml:"cookie-name"`
	Whitelist    string `yaml:"whitelist"`
	Blacklist    string `yaml:"blacklist"`
	AllMethods   bool   `yaml:"greylist-all-methods"` // blacklist GET and HEAD too
	ReverseProxy bool   `yaml:"reverse-proxy"`        // trust X-Forwarded-For and X-Real-IP
	MaxFormBytes int64  `yaml:"max-form-bytes"`
}

// Config is read once at startup and handed to the site as a value.
type Config struct {
	Meta           MetaConfig     `yaml:"Meta"`
	Sec            SecurityConfig `yaml:"Security"`
	ConfigFilePath string         `yaml:"-"` // empty if stdin
}

func Default() Config {
	return Config{
		Meta: MetaConfig{
			Version:       "demosite",
			ListenAddr:    DefaultListenAddr,
			ListenAddrTLS: DefaultListenAddrTLS,
			SiteName:      "Laminas Demo",
			SiteURL:       "http://localhost:8080",
			LogLevel:      "info",
			CopyrightName: "Laminas Project",
		},
		Sec: SecurityConfig{
			CSRF:         true,
			CookieName:   "demosite",
			MaxFormBytes: 64 << 10,
		},
	}
}

// Load decodes YAML (or JSON) from r over the defaults. An empty document
// yields the defaults.
func Load(r io.Reader) (Config, error) {
	config := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return config, nil
}

// LoadFile reads the config at path, or stdin if path is "-".
func LoadFile(path string) (Config, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()
	config, err := Load(f)
	if err != nil {
		return Config{}, err
	}
	config.ConfigFilePath = path
	return config, nil
}

// Check fills in what can be derived, applies $PORT and $SITEURL, and
// rejects a config the site cannot run with.
func Check(config *Config, logger *zap.Logger) error {
	if config.Meta.Version == "" {
		config.Meta.Version = "demosite"
	}
	if config.Meta.LogLevel == "" {
		config.Meta.LogLevel = "info"
	}
	if config.Sec.MaxFormBytes <= 0 {
		config.Sec.MaxFormBytes = Default().Sec.MaxFormBytes
	}

	// override if $PORT or $SITEURL are used (heroku, cloud run)
	if port := os.Getenv("PORT"); port != "" {
		logger.Info("overriding listen address with $PORT", zap.String("port", port))
		config.Meta.ListenAddr = ":" + port
	}
	if siteurl := os.Getenv("SITEURL"); siteurl != "" {
		logger.Info("overriding site url with $SITEURL", zap.String("siteurl", siteurl))
		config.Meta.SiteURL = siteurl
	}

	if config.Meta.ListenAddr == "" {
		return fmt.Errorf("config needs Meta.listen")
	}
	if config.Meta.SiteURL == "" {
		return fmt.Errorf("config needs Meta.siteurl")
	}
	if config.Sec.CookieName == "" {
		return fmt.Errorf("config needs Security.cookie-name")
	}
	if (config.Meta.SSLCert == "") != (config.Meta.SSLKey == "") {
		return fmt.Errorf("config needs both Meta.sslcert and Meta.sslkey, or neither")
	}

	if !config.Sec.CSRF {
		logger.Warn("CSRF protection is off (Security.csrf: false)")
		return nil
	}
	if config.Sec.CSRFKey == "" {
		if !config.Meta.DevelopmentMode {
			return fmt.Errorf("config needs Security.csrf-key")
		}
		key := securecookie.GenerateRandomKey(csrfKeyLen / 2)
		if key == nil {
			return fmt.Errorf("couldn't generate csrf key")
		}
		config.Sec.CSRFKey = hex.EncodeToString(key)
		logger.Warn("no Security.csrf-key set, using a random key (dev mode only)")
	}
	if n := len(config.Sec.CSRFKey); n != csrfKeyLen {
		return fmt.Errorf("Security.csrf-key must be %d bytes, got %d", csrfKeyLen, n)
	}
	return nil
}

// Encode writes config as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile atomically replaces path with config encoded as YAML.
func WriteFile(path string, config Config) error {
	buf := &bytes.Buffer{}
	if err := config.Encode(buf); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := atomic.WriteFile(path, buf); err != nil {
		return fmt.Errorf("error writing config %q: %w", path, err)
	}
	return nil
}
