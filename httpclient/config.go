package httpclient

import (
	"time"

	"github.com/skillsenselab/azurekit/config"
	"github.com/skillsenselab/azurekit/errors"
)

// Config configures the HTTP client.
type Config struct {
	// Timeout is the per-request timeout. Zero means no client timeout;
	// cancellation is then driven by the request context alone.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Proxy is the application-level proxy URL, consulted only when neither
	// HTTPS_PROXY nor HTTP_PROXY is set in the environment.
	Proxy string `yaml:"proxy" mapstructure:"proxy"`

	// ProxyStrictSSL governs certificate validation on the proxy tunnel.
	// Nil means strict (validation on).
	ProxyStrictSSL *bool `yaml:"proxy_strict_ssl" mapstructure:"proxy_strict_ssl"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// EnableTracing wraps each request in an OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" mapstructure:"enable_tracing"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ProxyStrictSSL == nil {
		strict := true
		c.ProxyStrictSSL = &strict
	}
}

func (c *Config) strictSSL() bool {
	return c.ProxyStrictSSL == nil || *c.ProxyStrictSSL
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return errors.Config("httpclient: timeout must not be negative")
	}
	if c.Proxy != "" {
		if _, err := parseProxyAuthority(c.Proxy); err != nil {
			return err
		}
	}
	return nil
}

// FromSettings builds a client Config from application HTTP settings.
func FromSettings(s config.HTTPSettings) Config {
	return Config{
		Timeout:        s.Timeout,
		Proxy:          s.Proxy,
		ProxyStrictSSL: s.ProxyStrictSSL,
	}
}

// StrictSSL is a convenience for building a ProxyStrictSSL value.
func StrictSSL(v bool) *bool { return &v }
