// Package login orchestrates interactive sign-in flows.
//
// The actual OAuth2 exchange (redirect, PKCE, device code polling) is
// delegated to an external acquirer; this package wraps it in a Flow,
// drives it against the organizations sentinel tenant, hydrates the
// resulting account, and normalizes every failure into a cancellation
// result. Only the fast-fail configuration check surfaces as an error.
package login
