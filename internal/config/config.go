// Package config loads the semaphore CLI configuration from an HCL file,
// .env files and SEMAPHORE_* environment variables.
package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"

	semaphore "github.com/tj-smith47/semaphore-go"
)

// Environment variables read by Load. They override values from the file.
const (
	EnvHost        = "SEMAPHORE_HOST"
	EnvAPIPath     = "SEMAPHORE_API_PATH"
	EnvUser        = "SEMAPHORE_USER"
	EnvPassword    = "SEMAPHORE_PASSWORD"
	EnvAPIToken    = "SEMAPHORE_API_TOKEN"
	EnvSessionFile = "SEMAPHORE_SESSION_FILE"
	EnvConfig      = "SEMAPHORE_CONFIG"
)

// Config is the CLI configuration.
type Config struct {
	// Host is the server URL, e.g. "https://semaphore.example.com".
	Host string `hcl:"host,optional"`

	// APIPath is the API path below Host. Defaults to "/api".
	APIPath string `hcl:"api_path,optional"`

	Username string `hcl:"username,optional"`
	Password string `hcl:"password,optional"`

	// APIToken is used instead of a login session when set.
	APIToken string `hcl:"api_token,optional"`

	// Timeout is the HTTP timeout as a Go duration string (e.g. "30s").
	Timeout string `hcl:"timeout,optional"`

	// TLSVerify disables certificate verification when set to false.
	TLSVerify *bool `hcl:"tls_verify,optional"`

	// MaxRetries enables retry of transient failures when positive.
	MaxRetries int `hcl:"max_retries,optional"`

	// SessionFile is where the login session is kept between invocations.
	// "-" disables persistence.
	SessionFile string `hcl:"session_file,optional"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	verify := true
	return &Config{
		APIPath:     semaphore.DefaultAPIPath,
		Timeout:     semaphore.DefaultTimeout.String(),
		TLSVerify:   &verify,
		SessionFile: DefaultSessionFile(),
	}
}

// DefaultSessionFile returns the session file below the user config dir.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".semaphore", "session.json")
	}
	return filepath.Join(dir, "semaphore", "session.json")
}

// Load builds the configuration. Sources, lowest precedence first:
// defaults, the HCL file at path (skipped when empty), .env files, and the
// process environment. With no envFiles, ".env" in the working directory is
// read if present. The result is validated.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
		if err := hclsimple.Decode(decodeName(path), data, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// decodeName returns the file name hclsimple decodes path as. Files ending in
// .json are JSON; everything else is native HCL.
func decodeName(path string) string {
	name := filepath.Base(path)
	switch filepath.Ext(name) {
	case ".hcl", ".json":
		return name
	}
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
	}
	return name + ".hcl"
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Host = getEnv(EnvHost, c.Host)
	c.APIPath = getEnv(EnvAPIPath, c.APIPath)
	c.Username = getEnv(EnvUser, c.Username)
	c.Password = getEnv(EnvPassword, c.Password)
	c.APIToken = getEnv(EnvAPIToken, c.APIToken)
	c.SessionFile = getEnv(EnvSessionFile, c.SessionFile)

	if v := os.Getenv("SEMAPHORE_TLS_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEMAPHORE_TLS_VERIFY: %w", err)
		}
		c.TLSVerify = &b
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.APIPath == "" {
		c.APIPath = d.APIPath
	}
	if c.Timeout == "" {
		c.Timeout = d.Timeout
	}
	if c.TLSVerify == nil {
		c.TLSVerify = d.TLSVerify
	}
	if c.SessionFile == "" {
		c.SessionFile = d.SessionFile
	}
}

var errDuration = errors.New("must be a duration such as 30s or 1m")

func duration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return errDuration
	}
	return nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required.Error("is required (host or "+EnvHost+")"),
			is.URL),
		validation.Field(&c.Timeout, validation.By(duration)),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
	)
}

// TimeoutDuration returns the parsed Timeout, or the client default.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return semaphore.DefaultTimeout
	}
	return d
}

// SessionStore returns the store for SessionFile, or nil when persistence
// is disabled.
func (c *Config) SessionStore() semaphore.SessionStore {
	if c.SessionFile == "" || c.SessionFile == "-" {
		return nil
	}
	return semaphore.NewFileSessionStore(c.SessionFile)
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() []semaphore.Option {
	opts := []semaphore.Option{
		semaphore.WithAPIPath(c.APIPath),
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opted out in config
		opts = append(opts, semaphore.WithHTTPClient(&http.Client{Transport: transport}))
	}
	opts = append(opts, semaphore.WithTimeout(c.TimeoutDuration()))

	if c.MaxRetries > 0 {
		retry := semaphore.DefaultRetryConfig()
		retry.MaxRetries = c.MaxRetries
		opts = append(opts, semaphore.WithRetry(retry))
	}
	if c.APIToken != "" {
		opts = append(opts, semaphore.WithAPIToken(c.APIToken))
	}
	if store := c.SessionStore(); store != nil {
		opts = append(opts, semaphore.WithSessionStore(store))
	}
	return opts
}

// NewClient creates a client for the configured server.
func (c *Config) NewClient(extra ...semaphore.Option) (*semaphore.Client, error) {
	return semaphore.NewClient(c.Host, append(c.ClientOptions(), extra...)...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
