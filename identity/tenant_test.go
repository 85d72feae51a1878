package identity

import (
	"reflect"
	"testing"
)

func TestPromoteHomeTenant_MovesHomeToFront(t *testing.T) {
	tenants := []Tenant{
		{ID: "t1", DisplayName: "Alpha"},
		{ID: "t2", DisplayName: "Beta"},
		{ID: "t3", DisplayName: "Home Corp", TenantCategory: HomeCategory},
		{ID: "t4", DisplayName: "Delta"},
	}

	got := promoteHomeTenant(tenants)

	wantOrder := []string{"t3", "t1", "t2", "t4"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestPromoteHomeTenant_NoHomeKeepsOrder(t *testing.T) {
	tenants := []Tenant{
		{ID: "t1"},
		{ID: "t2"},
		{ID: "t3"},
	}
	original := make([]Tenant, len(tenants))
	copy(original, tenants)

	got := promoteHomeTenant(tenants)
	if !reflect.DeepEqual(got, original) {
		t.Errorf("expected unchanged order, got %+v", got)
	}
}

func TestPromoteHomeTenant_HomeAlreadyFirst(t *testing.T) {
	tenants := []Tenant{
		{ID: "t1", TenantCategory: HomeCategory},
		{ID: "t2"},
	}
	got := promoteHomeTenant(tenants)
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Errorf("unexpected order %+v", got)
	}
}

func TestPromoteHomeTenant_Empty(t *testing.T) {
	if got := promoteHomeTenant(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestSentinelTenants(t *testing.T) {
	if CommonTenant.ID != "common" || CommonTenant.DisplayName != "common" {
		t.Errorf("unexpected common sentinel %+v", CommonTenant)
	}
	if OrganizationsTenant.ID != "organizations" {
		t.Errorf("unexpected organizations sentinel %+v", OrganizationsTenant)
	}
}
