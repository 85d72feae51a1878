// Package httpclient provides a proxy-aware GET client for calling Azure
// endpoints, with optional bearer authentication.
//
// Proxy resolution follows the order HTTPS_PROXY, HTTP_PROXY (both
// case-insensitive), then the application-level proxy setting. When a proxy
// is resolved, requests are relayed through a CONNECT tunnel whose mode is
// chosen from the request and proxy schemes (HTTPS-over-HTTPS,
// HTTPS-over-HTTP, HTTP-over-HTTPS, HTTP-over-HTTP). SOCKS5 proxies are
// supported through golang.org/x/net/proxy.
//
// The client treats every HTTP status code as a completed request; status
// interpretation belongs to the caller. There are no retries and no caching.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{})
//	resp, err := client.Fetch(ctx, "https://management.azure.com/tenants?api-version=2019-11-01")
//
// # With a bearer token
//
//	resp, err := client.FetchWithToken(ctx, tenantURL, token)
package httpclient
