package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/azurekit/logger"
)

// Resource identifies a protected resource an access token can be scoped to.
type Resource struct {
	ID       string `yaml:"id" mapstructure:"id"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
}

// Resources groups the resource endpoints a provider exposes.
type Resources struct {
	// AzureManagementResource is the ARM endpoint tenants are listed against.
	AzureManagementResource Resource `yaml:"azure_management_resource" mapstructure:"azure_management_resource" validate:"required"`

	// WindowsManagementResource is the classic management endpoint. Optional,
	// but interactive sign-in refuses to start without it.
	WindowsManagementResource *Resource `yaml:"windows_management_resource" mapstructure:"windows_management_resource"`
}

// ProviderSettings is the static configuration of an identity provider.
// Immutable for the process lifetime.
type ProviderSettings struct {
	ID            string    `yaml:"id" mapstructure:"id" validate:"required"`
	DisplayName   string    `yaml:"display_name" mapstructure:"display_name"`
	ClientID      string    `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	LoginEndpoint string    `yaml:"login_endpoint" mapstructure:"login_endpoint" validate:"omitempty,url"`
	Scopes        []string  `yaml:"scopes" mapstructure:"scopes" validate:"required,min=1"`
	Resources     Resources `yaml:"resources" mapstructure:"resources"`
}

// DefaultLoginEndpoint is used when a provider does not declare one.
const DefaultLoginEndpoint = "https://login.microsoftonline.com/"

// LoginEndpointOrDefault returns the provider login endpoint, falling back
// to the public Microsoft endpoint.
func (p *ProviderSettings) LoginEndpointOrDefault() string {
	if p.LoginEndpoint != "" {
		return p.LoginEndpoint
	}
	return DefaultLoginEndpoint
}

// HTTPSettings carries the application-level HTTP and proxy configuration.
type HTTPSettings struct {
	// Proxy is the application-configured proxy URL, consulted after the
	// HTTPS_PROXY and HTTP_PROXY environment variables.
	Proxy string `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,uri"`

	// ProxyStrictSSL governs certificate validation on the proxy tunnel.
	// Nil means strict (validation on).
	ProxyStrictSSL *bool `yaml:"proxy_strict_ssl" mapstructure:"proxy_strict_ssl"`

	// Timeout is the per-request timeout. Zero means no client timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Config is the root configuration consumed by azurekit.
type Config struct {
	Name     string           `yaml:"name" mapstructure:"name"`
	Logging  logger.Config    `yaml:"logging" mapstructure:"logging"`
	HTTP     HTTPSettings     `yaml:"http" mapstructure:"http"`
	Provider ProviderSettings `yaml:"provider" mapstructure:"provider"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ProxyStrictSSL == nil {
		strict := true
		c.HTTP.ProxyStrictSSL = &strict
	}
	c.Logging.ApplyDefaults()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration, including provider settings.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := validate.Struct(&c.Provider); err != nil {
		return fmt.Errorf("config.provider: %w", err)
	}
	if err := validate.Struct(&c.HTTP); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	return nil
}

// ValidateProvider validates standalone provider settings.
func ValidateProvider(p *ProviderSettings) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("provider settings: %w", err)
	}
	return nil
}
