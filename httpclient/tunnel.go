package httpclient

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"

	xproxy "golang.org/x/net/proxy"

	"github.com/skillsenselab/azurekit/errors"
)

// TunnelMode names one cell of the {request scheme} x {proxy scheme} matrix.
type TunnelMode string

const (
	TunnelHTTPSOverHTTPS TunnelMode = "https-over-https"
	TunnelHTTPSOverHTTP  TunnelMode = "https-over-http"
	TunnelHTTPOverHTTPS  TunnelMode = "http-over-https"
	TunnelHTTPOverHTTP   TunnelMode = "http-over-http"
)

// chooseTunnelMode picks the tunneling mode from the request and proxy
// schemes.
func chooseTunnelMode(requestHTTPS, proxyHTTPS bool) TunnelMode {
	switch {
	case requestHTTPS && proxyHTTPS:
		return TunnelHTTPSOverHTTPS
	case requestHTTPS && !proxyHTTPS:
		return TunnelHTTPSOverHTTP
	case !requestHTTPS && proxyHTTPS:
		return TunnelHTTPOverHTTPS
	default:
		return TunnelHTTPOverHTTP
	}
}

// connectDialer dials the destination through an HTTP CONNECT tunnel.
// The proxy leg is TLS-wrapped when the proxy URL uses https.
type connectDialer struct {
	proxyAddr string
	proxyTLS  *tls.Config // nil for a plain HTTP proxy leg
	proxyAuth string      // base64 "user:pass", empty when no credentials
}

func (d *connectDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", d.proxyAddr)
	if err != nil {
		return nil, err
	}

	if d.proxyTLS != nil {
		tlsConn := tls.Client(conn, d.proxyTLS)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("proxy TLS handshake: %w", err)
		}
		conn = tlsConn
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if d.proxyAuth != "" {
		req.Header.Set("Proxy-Authorization", "Basic "+d.proxyAuth)
	}
	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write CONNECT request: %w", err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read CONNECT response: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxy refused CONNECT: %s", resp.Status)
	}

	// The proxy must not speak before the client does; anything already
	// buffered past the response belongs to the tunneled stream.
	if br.Buffered() > 0 {
		conn = &bufferedConn{Conn: conn, reader: br}
	}
	return conn, nil
}

// bufferedConn replays bytes the CONNECT response reader buffered past the
// status line.
type bufferedConn struct {
	net.Conn
	reader *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

// newTunnelTransport builds the transport for one proxied request. The
// tunneling mode is request-scheme-driven: the request scheme decides the
// TLS handling over the tunnel, the proxy scheme decides the proxy leg.
func newTunnelTransport(res ProxyResolution) (*http.Transport, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: !res.StrictSSL}

	if isSOCKSProxy(res.URL) {
		return newSOCKSTransport(res, tlsConfig)
	}

	dialer := &connectDialer{proxyAddr: res.Authority.Addr()}
	if res.Authority.Userinfo != "" {
		dialer.proxyAuth = base64.StdEncoding.EncodeToString([]byte(res.Authority.Userinfo))
	}
	if isHTTPSURL(res.URL) {
		proxyTLS := tlsConfig.Clone()
		proxyTLS.ServerName = res.Authority.Host
		dialer.proxyTLS = proxyTLS
	}

	return &http.Transport{
		DialContext:       dialer.DialContext,
		TLSClientConfig:   tlsConfig,
		DisableKeepAlives: true,
	}, nil
}

// newSOCKSTransport builds a transport that relays through a SOCKS5 proxy.
func newSOCKSTransport(res ProxyResolution, tlsConfig *tls.Config) (*http.Transport, error) {
	var auth *xproxy.Auth
	if res.URL.User != nil {
		password, _ := res.URL.User.Password()
		auth = &xproxy.Auth{User: res.URL.User.Username(), Password: password}
	}
	socks, err := xproxy.SOCKS5("tcp", res.Authority.Addr(), auth, xproxy.Direct)
	if err != nil {
		return nil, errors.InvalidProxy(res.URL.String(), err)
	}
	dialCtx := func(ctx context.Context, network, addr string) (net.Conn, error) {
		if cd, ok := socks.(xproxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return socks.Dial(network, addr)
	}
	return &http.Transport{
		DialContext:       dialCtx,
		TLSClientConfig:   tlsConfig,
		DisableKeepAlives: true,
	}, nil
}
