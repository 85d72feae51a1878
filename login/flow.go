package login

import (
	"context"
	"sync"

	"github.com/skillsenselab/azurekit/config"
	"github.com/skillsenselab/azurekit/identity"
)

// redirectURI is the loopback redirect used by the interactive flow.
const redirectURI = "http://localhost"

// promptSelectAccount forces the account picker on every sign-in.
const promptSelectAccount = "select_account"

// Result is the raw outcome of one external token acquisition: the bearer
// token plus the decoded (or still raw) ID-token claims.
type Result struct {
	// Token is the acquired access token and account key.
	Token identity.Token

	// Claims are the decoded ID-token claims. May be nil when the acquirer
	// only returns the raw token; the orchestrator decodes RawIDToken then.
	Claims *identity.TokenClaims

	// RawIDToken is the undecoded ID token JWT.
	RawIDToken string
}

// Completion signals the end of one interactive flow. It resolves or
// rejects exactly once; later calls are ignored.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewCompletion creates an unresolved completion signal.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Resolve marks the flow as successfully completed.
func (c *Completion) Resolve() {
	c.once.Do(func() { close(c.done) })
}

// Reject marks the flow as failed.
func (c *Completion) Reject(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Wait blocks until the flow completes or the context is done, returning
// the rejection error if there was one.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done reports whether the completion has fired, without blocking.
func (c *Completion) Done() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Flow is one identity-provider sign-in variant. Implementations trigger
// the external interactive exchange scoped to the given tenant.
type Flow interface {
	// AuthType classifies the flow for account records.
	AuthType() identity.AuthType

	// Login runs the external flow against a tenant. The returned
	// Completion belongs to this attempt; the orchestrator settles it.
	Login(ctx context.Context, tenant identity.Tenant) (*Result, *Completion, error)
}

// TokenRequest is the input handed to the external OAuth acquirer.
type TokenRequest struct {
	TenantID      string
	ClientID      string
	LoginEndpoint string
	RedirectURI   string
	Scopes        []string
	Prompt        string
}

// InteractiveAcquirer runs the browser-delegated authorization-code
// exchange. Implemented outside this module, typically over an MSAL
// client.
type InteractiveAcquirer interface {
	AcquireInteractive(ctx context.Context, req TokenRequest) (*Result, error)
}

// DeviceCodeAcquirer runs the device-code exchange, calling prompt with
// the user-code message before polling.
type DeviceCodeAcquirer interface {
	AcquireDeviceCode(ctx context.Context, req TokenRequest, prompt func(ctx context.Context, message string) error) (*Result, error)
}

// CodeGrantFlow is the authorization-code sign-in variant.
type CodeGrantFlow struct {
	acquirer InteractiveAcquirer
	settings config.ProviderSettings
}

// NewCodeGrantFlow creates a code-grant flow over an external acquirer.
func NewCodeGrantFlow(acquirer InteractiveAcquirer, settings config.ProviderSettings) *CodeGrantFlow {
	return &CodeGrantFlow{acquirer: acquirer, settings: settings}
}

func (f *CodeGrantFlow) AuthType() identity.AuthType {
	return identity.AuthTypeCodeGrant
}

func (f *CodeGrantFlow) Login(ctx context.Context, tenant identity.Tenant) (*Result, *Completion, error) {
	completion := NewCompletion()
	result, err := f.acquirer.AcquireInteractive(ctx, f.request(tenant))
	if err != nil {
		return nil, completion, err
	}
	return result, completion, nil
}

func (f *CodeGrantFlow) request(tenant identity.Tenant) TokenRequest {
	return TokenRequest{
		TenantID:      tenant.ID,
		ClientID:      f.settings.ClientID,
		LoginEndpoint: f.settings.LoginEndpointOrDefault(),
		RedirectURI:   redirectURI,
		Scopes:        append([]string(nil), f.settings.Scopes...),
		Prompt:        promptSelectAccount,
	}
}

// DeviceCodeFlow is the device-code sign-in variant. The user-code message
// is surfaced through the interactor.
type DeviceCodeFlow struct {
	acquirer   DeviceCodeAcquirer
	settings   config.ProviderSettings
	interactor Interactor
}

// NewDeviceCodeFlow creates a device-code flow over an external acquirer.
func NewDeviceCodeFlow(acquirer DeviceCodeAcquirer, settings config.ProviderSettings, interactor Interactor) *DeviceCodeFlow {
	if interactor == nil {
		interactor = NopInteractor{}
	}
	return &DeviceCodeFlow{acquirer: acquirer, settings: settings, interactor: interactor}
}

func (f *DeviceCodeFlow) AuthType() identity.AuthType {
	return identity.AuthTypeDeviceCode
}

func (f *DeviceCodeFlow) Login(ctx context.Context, tenant identity.Tenant) (*Result, *Completion, error) {
	completion := NewCompletion()
	req := TokenRequest{
		TenantID:      tenant.ID,
		ClientID:      f.settings.ClientID,
		LoginEndpoint: f.settings.LoginEndpointOrDefault(),
		Scopes:        append([]string(nil), f.settings.Scopes...),
	}
	result, err := f.acquirer.AcquireDeviceCode(ctx, req, f.interactor.PresentResult)
	if err != nil {
		return nil, completion, err
	}
	return result, completion, nil
}
