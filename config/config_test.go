package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validProvider() ProviderSettings {
	return ProviderSettings{
		ID:          "azure_publicCloud",
		DisplayName: "Azure",
		ClientID:    "a69788c6-1d43-44ed-9ca3-b83e194da255",
		Scopes:      []string{"openid", "email", "profile", "offline_access"},
		Resources: Resources{
			AzureManagementResource: Resource{
				ID:       "marm",
				Endpoint: "https://management.azure.com/",
			},
		},
	}
}

func TestValidateProvider_Success(t *testing.T) {
	p := validProvider()
	if err := ValidateProvider(&p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateProvider_MissingClientID(t *testing.T) {
	p := validProvider()
	p.ClientID = ""
	if err := ValidateProvider(&p); err == nil {
		t.Error("expected error for missing client id")
	}
}

func TestValidateProvider_NoScopes(t *testing.T) {
	p := validProvider()
	p.Scopes = nil
	if err := ValidateProvider(&p); err == nil {
		t.Error("expected error for empty scopes")
	}
}

func TestValidateProvider_BadEndpointURL(t *testing.T) {
	p := validProvider()
	p.Resources.AzureManagementResource.Endpoint = "not a url"
	if err := ValidateProvider(&p); err == nil {
		t.Error("expected error for malformed endpoint")
	}
}

func TestLoginEndpointOrDefault(t *testing.T) {
	p := validProvider()
	if got := p.LoginEndpointOrDefault(); got != DefaultLoginEndpoint {
		t.Errorf("expected default endpoint, got %s", got)
	}
	p.LoginEndpoint = "https://login.microsoftonline.us/"
	if got := p.LoginEndpointOrDefault(); got != "https://login.microsoftonline.us/" {
		t.Errorf("expected configured endpoint, got %s", got)
	}
}

func TestConfig_ApplyDefaults_StrictSSLWithoutProxy(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.HTTP.ProxyStrictSSL == nil || !*cfg.HTTP.ProxyStrictSSL {
		t.Error("expected strict SSL on by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults applied, got level %q", cfg.Logging.Level)
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := strings.Join([]string{
		"name: sample",
		"http:",
		"  proxy: http://proxy.local:8080",
		"  proxy_strict_ssl: true",
		"provider:",
		"  id: azure_publicCloud",
		"  client_id: test-client",
		"  scopes: [openid]",
		"  resources:",
		"    azure_management_resource:",
		"      endpoint: https://management.azure.com/",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	// A machine-level proxy variable would override the file value.
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("http_proxy", "")

	var cfg Config
	if err := Load("sample", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Proxy != "http://proxy.local:8080" {
		t.Errorf("expected proxy from file, got %q", cfg.HTTP.Proxy)
	}
	if cfg.Provider.ClientID != "test-client" {
		t.Errorf("expected client id from file, got %q", cfg.Provider.ClientID)
	}
	if got := cfg.Provider.Resources.AzureManagementResource.Endpoint; got != "https://management.azure.com/" {
		t.Errorf("unexpected management endpoint %q", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := strings.Join([]string{
		"provider:",
		"  id: azure_publicCloud",
		"  client_id: file-client-id",
		"  scopes: [openid]",
		"  resources:",
		"    azure_management_resource:",
		"      endpoint: https://management.azure.com/",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROVIDER_CLIENT_ID", "env-client-id")

	var cfg Config
	if err := Load("sample", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.ClientID != "env-client-id" {
		t.Errorf("expected env value to win over file, got %q", cfg.Provider.ClientID)
	}
}

func TestLoad_DotEnvFileReachesStruct(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("PROVIDER_DISPLAY_NAME=Azure From Dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PROVIDER_DISPLAY_NAME") })

	var cfg Config
	if err := Load("sample", &cfg, WithConfigFile(""), WithEnvFile(envPath)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.DisplayName != "Azure From Dotenv" {
		t.Errorf("expected .env value in struct, got %q", cfg.Provider.DisplayName)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("PROVIDER_CLIENT_ID")
	want := map[string]bool{
		"provider_client_id": false,
		"provider.client.id": false,
		"provider.client_id": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Errorf("expected variant %q in %v", key, variants)
		}
	}

	if got := envKeyVariants("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("single-part key should map to itself, got %v", got)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	var cfg Config
	if err := Load("does-not-exist", &cfg, WithConfigFile(""), WithEnvFile("")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(string) error    { return nil }

func TestLoad_SearchesStandardPaths(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{}}
	var cfg Config
	if err := Load("sample", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
