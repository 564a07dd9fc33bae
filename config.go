package licensegate

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config carries everything a Client needs for one licensing setup.
// Callers create it once per process; each Client call reads it
// immutably. Concurrent mutation while calls are in flight is the
// caller's responsibility to synchronize.
type Config struct {
	// ServerURL is the license server base URL. It must be a non-empty
	// absolute http or https URL before any request is attempted.
	ServerURL string `yaml:"server_url" envconfig:"SERVER_URL" validate:"required,url"`

	// LicenseKey is the key issued by the server to the end user.
	LicenseKey string `yaml:"license_key" envconfig:"LICENSE_KEY"`

	// MachineID identifies this host for seat tracking. Leave empty
	// with AutoGenerateMachineID set to derive it from hardware.
	MachineID string `yaml:"machine_id" envconfig:"MACHINE_ID"`

	// AutoGenerateMachineID derives a machine id from the identity
	// generator when MachineID is empty.
	AutoGenerateMachineID bool `yaml:"auto_generate_machine_id" envconfig:"AUTO_GENERATE_MACHINE_ID" default:"true"`

	// Timeout bounds both connecting and reading for each request.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"10s"`

	// UserAgent is sent verbatim on every request. Empty means the
	// library default, "licensegate-go/" plus Version.
	UserAgent string `yaml:"user_agent" envconfig:"USER_AGENT"`

	// SkipSSLVerify disables TLS certificate verification. The zero
	// value verifies; enable only against test servers.
	SkipSSLVerify bool `yaml:"skip_ssl_verify" envconfig:"SKIP_SSL_VERIFY"`
}

// defaultUserAgent identifies the library when the caller sets no
// UserAgent of their own.
const defaultUserAgent = "licensegate-go/" + Version

var configValidator = validator.New()

// LoadConfig builds a Config from environment variables with the
// LICENSEGATE prefix, optionally overlaid on a YAML file. Environment
// values take precedence over file values.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := envconfig.Process("LICENSEGATE", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config from env: %w", err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfig(fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeConfig fills env-config fields that have no value from the file
// config. Fields with envconfig defaults keep the env side.
func mergeConfig(fileCfg, envCfg Config) Config {
	if envCfg.ServerURL == "" {
		envCfg.ServerURL = fileCfg.ServerURL
	}
	if envCfg.LicenseKey == "" {
		envCfg.LicenseKey = fileCfg.LicenseKey
	}
	if envCfg.MachineID == "" {
		envCfg.MachineID = fileCfg.MachineID
	}
	return envCfg
}

// Validate is the configuration validity predicate. It returns a
// configuration Error describing the first problem found.
func (c Config) Validate() error {
	if _, err := parseServerURL(c.ServerURL); err != nil {
		return err
	}
	if err := configValidator.Struct(c); err != nil {
		return newConfigurationError(fmt.Sprintf("invalid configuration: %v", err))
	}
	if c.Timeout <= 0 {
		return newConfigurationError("timeout must be positive")
	}
	return nil
}

// parseServerURL checks that raw is a non-empty absolute http/https URL
// and returns it parsed.
func parseServerURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, newConfigurationError("server URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, newConfigurationError(fmt.Sprintf("server URL %q is not an absolute URL", raw))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, newConfigurationError(fmt.Sprintf("server URL scheme %q is not http or https", u.Scheme))
	}
	return u, nil
}
