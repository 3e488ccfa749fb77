package rbac

// Role represents a user role in the platform
type Role string

// The 8 platform roles, from lowest to highest seniority
const (
	RoleFarmer        Role = "FARMER"
	RoleCraftsman     Role = "CRAFTSMAN"
	RoleInspector     Role = "INSPECTOR"
	RoleVillageAdmin  Role = "VILLAGE_ADMIN"
	RoleTownAdmin     Role = "TOWN_ADMIN"
	RoleDistrictAdmin Role = "DISTRICT_ADMIN"
	RoleCityAdmin     Role = "CITY_ADMIN"
	RoleSuperAdmin    Role = "SUPER_ADMIN"
)

// seniority maps each role to its rank in the management hierarchy
var seniority = map[Role]int{
	RoleFarmer:        1,
	RoleCraftsman:     2,
	RoleInspector:     3,
	RoleVillageAdmin:  4,
	RoleTownAdmin:     5,
	RoleDistrictAdmin: 6,
	RoleCityAdmin:     7,
	RoleSuperAdmin:    8,
}

// AllRoles returns all roles ordered by seniority (lowest first)
func AllRoles() []Role {
	return []Role{
		RoleFarmer,
		RoleCraftsman,
		RoleInspector,
		RoleVillageAdmin,
		RoleTownAdmin,
		RoleDistrictAdmin,
		RoleCityAdmin,
		RoleSuperAdmin,
	}
}

// IsValid reports whether r is one of the 8 known roles
func (r Role) IsValid() bool {
	_, ok := seniority[r]
	return ok
}

// Seniority returns the role's rank (1-8). Unknown roles rank 0,
// below every real role.
func (r Role) Seniority() int {
	return seniority[r]
}

// CanManage reports whether a manager role may administer accounts
// holding the target role. Strictly greater seniority is required,
// so no role can manage a peer of its own rank, including itself.
func CanManage(manager, target Role) bool {
	return manager.Seniority() > target.Seniority()
}
