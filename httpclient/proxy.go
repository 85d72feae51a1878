package httpclient

import (
	"net"
	"net/url"
	"strings"

	"github.com/skillsenselab/azurekit/errors"
)

// ProxySource identifies where a proxy URL was resolved from.
type ProxySource string

const (
	// ProxySourceEnv means the proxy came from HTTPS_PROXY or HTTP_PROXY.
	ProxySourceEnv ProxySource = "env"
	// ProxySourceConfig means the proxy came from application configuration.
	ProxySourceConfig ProxySource = "config"
	// ProxySourceNone means no proxy is in play.
	ProxySourceNone ProxySource = "none"
)

// ProxyResolution is the outcome of resolving proxy configuration for one
// request. It is computed once and passed down; nothing below it reads the
// environment.
type ProxyResolution struct {
	// Source records where the proxy URL came from.
	Source ProxySource
	// URL is the parsed proxy URL. Nil when Source is ProxySourceNone.
	URL *url.URL
	// Authority is the validated host:port of the proxy.
	Authority ProxyAuthority
	// StrictSSL governs certificate validation on the proxy tunnel.
	StrictSSL bool
}

// Proxied reports whether a proxy is in play.
func (r ProxyResolution) Proxied() bool {
	return r.Source != ProxySourceNone
}

// ProxyAuthority is the host, port, and optional credentials parsed from a
// proxy URL.
type ProxyAuthority struct {
	Host string
	Port string
	// Userinfo is the "user:password" credential string, empty if the proxy
	// URL carries none.
	Userinfo string
}

// Addr returns the dialable host:port.
func (a ProxyAuthority) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

// LookupEnv is the environment lookup used during proxy resolution.
// os.LookupEnv satisfies it.
type LookupEnv func(key string) (string, bool)

// environment variable names checked during resolution, upper before lower.
var proxyEnvVars = []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy"}

// ResolveProxy computes the proxy resolution for one request. Resolution
// order: HTTPS_PROXY, HTTP_PROXY (case-insensitive), the configured proxy,
// then none. An unparsable proxy authority is a configuration error raised
// here, before any network attempt.
func ResolveProxy(lookup LookupEnv, cfg Config) (ProxyResolution, error) {
	raw, source := "", ProxySourceNone

	for _, key := range proxyEnvVars {
		if v, ok := lookup(key); ok && v != "" {
			raw, source = v, ProxySourceEnv
			break
		}
	}
	if raw == "" && cfg.Proxy != "" {
		raw, source = cfg.Proxy, ProxySourceConfig
	}
	if raw == "" {
		return ProxyResolution{Source: ProxySourceNone, StrictSSL: cfg.strictSSL()}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ProxyResolution{}, errors.InvalidProxy(raw, err)
	}
	authority, err := parseProxyAuthority(raw)
	if err != nil {
		return ProxyResolution{}, err
	}

	return ProxyResolution{
		Source:    source,
		URL:       u,
		Authority: authority,
		StrictSSL: cfg.strictSSL(),
	}, nil
}

// parseProxyAuthority extracts host, port, and credentials from a proxy URL.
// The port falls back to the scheme default; a proxy whose host or port
// cannot be determined is rejected.
func parseProxyAuthority(raw string) (ProxyAuthority, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ProxyAuthority{}, errors.InvalidProxy(raw, err)
	}

	host := u.Hostname()
	if host == "" {
		return ProxyAuthority{}, errors.InvalidProxy(raw, nil)
	}

	port := u.Port()
	if port == "" {
		switch strings.ToLower(u.Scheme) {
		case "http":
			port = "80"
		case "https":
			port = "443"
		case "socks5", "socks5h":
			port = "1080"
		default:
			return ProxyAuthority{}, errors.InvalidProxy(raw, nil)
		}
	}

	var userinfo string
	if u.User != nil {
		userinfo = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			userinfo += ":" + pass
		}
	}

	return ProxyAuthority{Host: host, Port: port, Userinfo: userinfo}, nil
}

// isHTTPSURL reports whether a URL uses the https scheme.
func isHTTPSURL(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, "https")
}

// isSOCKSProxy reports whether the resolved proxy speaks SOCKS5.
func isSOCKSProxy(u *url.URL) bool {
	s := strings.ToLower(u.Scheme)
	return s == "socks5" || s == "socks5h"
}
