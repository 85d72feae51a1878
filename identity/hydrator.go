package identity

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/skillsenselab/azurekit/config"
	"github.com/skillsenselab/azurekit/errors"
	"github.com/skillsenselab/azurekit/httpclient"
	"github.com/skillsenselab/azurekit/logger"
)

// tenantsAPIVersion is the ARM tenants list API version.
const tenantsAPIVersion = "2019-11-01"

// Hydrator builds normalized accounts from tokens, fetching tenant
// metadata on the way. Tenants are fetched fresh on every hydration; the
// Hydrator holds no cache and no mutable state.
type Hydrator struct {
	client   *httpclient.Client
	settings config.ProviderSettings
	authType AuthType
	log      *logger.Logger
}

// HydratorOption customizes a Hydrator.
type HydratorOption func(*Hydrator)

// WithLogger sets the logger used by the hydrator.
func WithLogger(l *logger.Logger) HydratorOption {
	return func(h *Hydrator) { h.log = l }
}

// NewHydrator creates a hydrator for one provider and auth flow.
func NewHydrator(client *httpclient.Client, settings config.ProviderSettings, authType AuthType, opts ...HydratorOption) *Hydrator {
	h := &Hydrator{
		client:   client,
		settings: settings,
		authType: authType,
		log:      logger.WithComponent("identity"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// tenantResponse is one raw entry of the ARM tenants listing.
// https://learn.microsoft.com/rest/api/resources/tenants/list
type tenantResponse struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenantId"`
	DisplayName    string `json:"displayName,omitempty"`
	TenantCategory string `json:"tenantCategory,omitempty"`
}

// tenantsEnvelope is the tenants listing body: either a value array or an
// error object.
type tenantsEnvelope struct {
	Value []tenantResponse `json:"value"`
	Error *remoteError     `json:"error"`
}

type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListTenants fetches the directory tenants the token can access, with the
// home tenant promoted to the front. The token is attached as a bearer
// credential; transport failures bubble up unchanged.
func (h *Hydrator) ListTenants(ctx context.Context, token string) ([]Tenant, error) {
	tenantURL := h.tenantsURL()
	h.log.Debug("fetching tenants", logger.Fields(logger.FieldURL, tenantURL))

	resp, err := h.client.FetchWithToken(ctx, tenantURL, token)
	if err != nil {
		return nil, err
	}

	var envelope tenantsEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, errors.New(errors.ErrCodeRemote, "unexpected tenants response").WithCause(err)
	}
	if envelope.Error != nil {
		h.log.Error("tenants endpoint returned an error", logger.Fields(
			"remote_code", envelope.Error.Code,
			"remote_message", envelope.Error.Message,
		))
		return nil, errors.Remote(envelope.Error.Code, envelope.Error.Message)
	}

	tenants := make([]Tenant, 0, len(envelope.Value))
	for _, entry := range envelope.Value {
		displayName := entry.DisplayName
		if displayName == "" {
			displayName = entry.TenantID
			h.log.Info("tenant display name empty, using id", logger.Fields(logger.FieldTenant, entry.TenantID))
		}
		tenants = append(tenants, Tenant{
			ID:             entry.TenantID,
			DisplayName:    displayName,
			UserID:         token,
			TenantCategory: entry.TenantCategory,
		})
	}

	return promoteHomeTenant(tenants), nil
}

// Hydrate lists tenants for the token and builds the normalized account.
func (h *Hydrator) Hydrate(ctx context.Context, token Token, claims *TokenClaims) (Account, error) {
	tenants, err := h.ListTenants(ctx, token.Token)
	if err != nil {
		return Account{}, err
	}
	return BuildAccount(h.settings, h.authType, claims, token.Key, tenants), nil
}

// Settings returns the provider settings the hydrator was built with.
func (h *Hydrator) Settings() config.ProviderSettings {
	return h.settings
}

// AuthType returns the flow classification stamped on hydrated accounts.
func (h *Hydrator) AuthType() AuthType {
	return h.authType
}

func (h *Hydrator) tenantsURL() string {
	endpoint := strings.TrimRight(h.settings.Resources.AzureManagementResource.Endpoint, "/")
	return endpoint + "/tenants?api-version=" + tenantsAPIVersion
}
