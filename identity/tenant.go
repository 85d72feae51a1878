package identity

// Tenant is one identity directory the signed-in user can access.
type Tenant struct {
	// ID is the tenant GUID, or a well-known sentinel id.
	ID string `json:"id"`

	// DisplayName is the tenant display name, falling back to the id when
	// the directory reports none.
	DisplayName string `json:"displayName"`

	// UserID ties the tenant entry to the token it was fetched with.
	UserID string `json:"userId,omitempty"`

	// TenantCategory is "Home" for the tenant the account is natively
	// provisioned in.
	TenantCategory string `json:"tenantCategory,omitempty"`
}

// HomeCategory marks the user's home tenant in tenant listings.
const HomeCategory = "Home"

// CommonTenant is the well-known sentinel for the common endpoint.
var CommonTenant = Tenant{ID: "common", DisplayName: "common"}

// OrganizationsTenant is the well-known sentinel for work and school
// account sign-in.
var OrganizationsTenant = Tenant{ID: "organizations", DisplayName: "organizations"}

// promoteHomeTenant moves the first home-category tenant to the front of
// the list, preserving the relative order of all other tenants.
func promoteHomeTenant(tenants []Tenant) []Tenant {
	homeIndex := -1
	for i, tenant := range tenants {
		if tenant.TenantCategory == HomeCategory {
			homeIndex = i
			break
		}
	}
	if homeIndex <= 0 {
		return tenants
	}

	home := tenants[homeIndex]
	copy(tenants[1:homeIndex+1], tenants[:homeIndex])
	tenants[0] = home
	return tenants
}
