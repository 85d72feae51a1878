package identity

import (
	"github.com/skillsenselab/azurekit/config"
)

// AccountVersion is the MSAL account schema version.
const AccountVersion = "2.0"

// corpTenantID is the fixed Microsoft corporate tenant GUID.
const corpTenantID = "72f988bf-86f1-41af-91ab-2d7cd011db47"

// corpSTSIssuer is the legacy v1.0 issuer URL for the corporate tenant.
const corpSTSIssuer = "https://sts.windows.net/" + corpTenantID + "/"

// liveIdentityProvider marks tokens issued to personal Microsoft accounts.
const liveIdentityProvider = "live.com"

// AccountType classifies an account for display purposes.
type AccountType string

const (
	// AccountTypeWorkSchool is a work or school (organizational) account.
	AccountTypeWorkSchool AccountType = "work_school"
	// AccountTypeMicrosoft is a personal Microsoft account.
	AccountTypeMicrosoft AccountType = "microsoft"
)

// AuthType identifies the interactive flow that produced the account.
type AuthType string

const (
	// AuthTypeCodeGrant is the browser-delegated authorization-code flow.
	AuthTypeCodeGrant AuthType = "azure_auth_code_grant"
	// AuthTypeDeviceCode is the device-code flow.
	AuthTypeDeviceCode AuthType = "azure_auth_device_code"
)

// AccountIssuer classifies the organization that issued the identity token.
type AccountIssuer string

const (
	// IssuerCorp marks tokens issued by the Microsoft corporate tenant.
	IssuerCorp AccountIssuer = "corp"
	// IssuerMsft marks tokens issued to personal Microsoft accounts.
	IssuerMsft AccountIssuer = "msft"
	// IssuerUnknown is every other issuer.
	IssuerUnknown AccountIssuer = "unknown"
)

// AccountKey uniquely identifies an account across providers.
type AccountKey struct {
	ProviderID     string `json:"providerId"`
	ID             string `json:"id"`
	AccountVersion string `json:"accountVersion"`
}

// DisplayInfo carries the user-facing identity of an account.
type DisplayInfo struct {
	AccountType           AccountType `json:"accountType"`
	UserID                string      `json:"userId"`
	ContextualDisplayName string      `json:"contextualDisplayName"`
	DisplayName           string      `json:"displayName"`
	Email                 string      `json:"email,omitempty"`
	Name                  string      `json:"name"`
}

// AccountProperties holds the provider and tenant context of an account.
type AccountProperties struct {
	ProviderSettings config.ProviderSettings `json:"providerSettings"`
	IsMsAccount      bool                    `json:"isMsAccount"`
	OwningTenant     Tenant                  `json:"owningTenant"`
	Tenants          []Tenant                `json:"tenants"`
	AuthType         AuthType                `json:"azureAuthType"`
}

// Account is the normalized result of a sign-in. A fresh Account replaces
// any prior one; it is never mutated in place.
type Account struct {
	Key         AccountKey        `json:"key"`
	Name        string            `json:"name"`
	DisplayInfo DisplayInfo       `json:"displayInfo"`
	Properties  AccountProperties `json:"properties"`
	IsStale     bool              `json:"isStale"`
}

// display literals for the contextual name.
const (
	corpContextualDisplayName = "Microsoft Corp"
	msftContextualDisplayName = "Microsoft Entra Account"
	msAccountDisplayName      = "Microsoft Account"
)

// ClassifyIssuer tests the token issuer against the known corporate issuer
// URLs and the live.com identity provider hint. The idp check runs last so
// a personal account in the corporate tenant still classifies as msft.
func ClassifyIssuer(claims *TokenClaims, loginEndpoint string) AccountIssuer {
	issuer := IssuerUnknown
	if claims.Issuer == corpSTSIssuer || claims.Issuer == loginEndpoint+corpTenantID+"/v2.0" {
		issuer = IssuerCorp
	}
	if claims.IdentityProvider == liveIdentityProvider {
		issuer = IssuerMsft
	}
	return issuer
}

// BuildAccount assembles the normalized account record from claims, the
// account key, and the fetched tenant list. It is pure: every lookup has an
// explicit fallback, so construction never fails.
func BuildAccount(settings config.ProviderSettings, authType AuthType, claims *TokenClaims, key string, tenants []Tenant) Account {
	if claims == nil {
		claims = &TokenClaims{}
	}
	issuer := ClassifyIssuer(claims, settings.LoginEndpointOrDefault())

	name := firstNonEmpty(claims.Name, claims.PreferredUsername, claims.Email, claims.UniqueName)
	email := firstNonEmpty(claims.PreferredUsername, claims.Email, claims.UniqueName)

	owningTenant := CommonTenant
	if claims.TenantID != "" {
		owningTenant = Tenant{ID: claims.TenantID, DisplayName: msAccountDisplayName}
		for _, tenant := range tenants {
			if tenant.ID == claims.TenantID {
				owningTenant = tenant
				break
			}
		}
	}

	displayName := name
	if email != "" {
		displayName = name + " - " + email
	}

	var contextualDisplayName string
	switch issuer {
	case IssuerCorp:
		contextualDisplayName = corpContextualDisplayName
	case IssuerMsft:
		contextualDisplayName = msftContextualDisplayName
	default:
		contextualDisplayName = displayName
	}

	accountType := AccountTypeWorkSchool
	if issuer == IssuerMsft {
		accountType = AccountTypeMicrosoft
	}

	return Account{
		Key: AccountKey{
			ProviderID:     settings.ID,
			ID:             key,
			AccountVersion: AccountVersion,
		},
		Name: displayName,
		DisplayInfo: DisplayInfo{
			AccountType:           accountType,
			UserID:                key,
			ContextualDisplayName: contextualDisplayName,
			DisplayName:           displayName,
			Email:                 email,
			Name:                  name,
		},
		Properties: AccountProperties{
			ProviderSettings: settings,
			IsMsAccount:      issuer == IssuerMsft,
			OwningTenant:     owningTenant,
			Tenants:          tenants,
			AuthType:         authType,
		},
		IsStale: false,
	}
}

// firstNonEmpty returns the first non-empty value, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
