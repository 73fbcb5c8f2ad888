package authz_test

import (
	"testing"

	"github.com/dalemusser/opshub/internal/app/system/authz"
)

func TestHasCapability_Admin(t *testing.T) {
	// Admin carries every capability.
	all := []authz.Capability{
		authz.CapCreateProject, authz.CapManageProjects, authz.CapManageTickets,
		authz.CapLogTime, authz.CapManageTeam, authz.CapManageCompanies,
		authz.CapManageAPIKeys, authz.CapViewAuditLog, authz.CapManageIntegrations,
		authz.CapManageSettings, authz.CapViewAnalytics, authz.CapViewAllCompanies,
	}
	for _, c := range all {
		if !authz.HasCapability(authz.RoleAdmin, c) {
			t.Errorf("admin should have %q", c)
		}
	}
}

func TestHasCapability_KAM(t *testing.T) {
	has := []authz.Capability{
		authz.CapCreateProject, authz.CapManageProjects, authz.CapManageTickets,
		authz.CapManageCompanies, authz.CapViewAuditLog, authz.CapViewAnalytics,
		authz.CapViewAllCompanies,
	}
	for _, c := range has {
		if !authz.HasCapability(authz.RoleKAM, c) {
			t.Errorf("kam should have %q", c)
		}
	}

	lacks := []authz.Capability{
		authz.CapManageTeam, authz.CapManageAPIKeys, authz.CapManageIntegrations,
		authz.CapManageSettings, authz.CapLogTime,
	}
	for _, c := range lacks {
		if authz.HasCapability(authz.RoleKAM, c) {
			t.Errorf("kam should not have %q", c)
		}
	}
}

func TestHasCapability_Developer(t *testing.T) {
	if !authz.HasCapability(authz.RoleDeveloper, authz.CapLogTime) {
		t.Error("developer should have log-time")
	}
	if !authz.HasCapability(authz.RoleDeveloper, authz.CapManageTickets) {
		t.Error("developer should have manage-tickets")
	}
	if authz.HasCapability(authz.RoleDeveloper, authz.CapCreateProject) {
		t.Error("developer should not have create-project")
	}
	if authz.HasCapability(authz.RoleDeveloper, authz.CapManageSettings) {
		t.Error("developer should not have manage-settings")
	}
}

func TestHasCapability_Customer(t *testing.T) {
	// Customers carry no capabilities at all.
	for _, c := range []authz.Capability{
		authz.CapCreateProject, authz.CapManageProjects, authz.CapManageTickets,
		authz.CapLogTime, authz.CapManageTeam, authz.CapManageCompanies,
		authz.CapManageAPIKeys, authz.CapViewAuditLog, authz.CapManageIntegrations,
		authz.CapManageSettings, authz.CapViewAnalytics, authz.CapViewAllCompanies,
	} {
		if authz.HasCapability(authz.RoleCustomer, c) {
			t.Errorf("customer should not have %q", c)
		}
	}
}

func TestHasCapability_UnknownRoleFailsClosed(t *testing.T) {
	// An unrecognized raw role resolves to customer and therefore carries
	// nothing. "superuser" sounds privileged; it is not.
	role := authz.ResolveRole("superuser")
	if role != authz.RoleCustomer {
		t.Fatalf("ResolveRole(superuser) = %q, want customer", role)
	}
	if authz.HasCapability(role, authz.CapManageAPIKeys) {
		t.Error("resolved superuser should not have manage-api-keys")
	}

	// Even a Role value that never came through ResolveRole reports false.
	if authz.HasCapability(authz.Role("superuser"), authz.CapManageAPIKeys) {
		t.Error("unknown role should not have any capability")
	}
}

func TestHasCapability_UnknownCapability(t *testing.T) {
	if authz.HasCapability(authz.RoleAdmin, authz.Capability("launch-missiles")) {
		t.Error("unknown capability should report false even for admin")
	}
}
