package rbac

import "testing"

func TestEveryTableEntryMapsIntoCatalog(t *testing.T) {
	catalog := make(map[Permission]bool)
	for _, p := range AllPermissions() {
		catalog[p] = true
	}
	for key, perm := range actionPermissions {
		if !catalog[perm] {
			t.Fatalf("legacy pair %q maps to unknown permission %q", key, perm)
		}
	}
}

func TestEveryPermissionHasCanonicalPair(t *testing.T) {
	covered := make(map[Permission]bool)
	for _, perm := range actionPermissions {
		covered[perm] = true
	}
	for _, p := range AllPermissions() {
		if !covered[p] {
			t.Fatalf("permission %q unreachable through the legacy table", p)
		}
	}
}

func TestPermissionForAction(t *testing.T) {
	tests := []struct {
		resource string
		action   string
		want     Permission
		ok       bool
	}{
		{"house", "edit", PermHouseEdit, true},
		{"house", "add", PermHouseCreate, true}, // alias
		{"six_on_site", "record", PermAttendanceRecord, true},
		{"statistic", "export", PermStatsExport, true},
		{"craftsman", "apply", PermCraftsmanRegister, true},
		{"inspection", "dispatch", PermInspectionAssign, true},
		{"house", "demolish", "", false},
		{"houseedit", "", "", false}, // concatenation must not leak through
		{"", "house:edit", "", false},
	}
	for _, tt := range tests {
		got, ok := PermissionForAction(tt.resource, tt.action)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("PermissionForAction(%q, %q) = (%q, %v), want (%q, %v)",
				tt.resource, tt.action, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoleCan(t *testing.T) {
	if !RoleCan(RoleTownAdmin, "house", "approve") {
		t.Fatalf("town admin approves house records")
	}
	if RoleCan(RoleVillageAdmin, "house", "approve") {
		t.Fatalf("village admin does not approve house records")
	}
	if !RoleCan(RoleCraftsman, "six_on_site", "record") {
		t.Fatalf("craftsman records on-site attendance")
	}
	if RoleCan(RoleSuperAdmin, "house", "demolish") {
		t.Fatalf("undefined pairs are never granted, even to SUPER_ADMIN")
	}
}
