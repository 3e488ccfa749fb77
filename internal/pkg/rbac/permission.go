package rbac

// Permission is a single named capability from the closed catalog
type Permission string

// ============================================================
// Permission catalog, grouped by domain
// ============================================================

const (
	// System
	PermSystemAdmin Permission = "system.admin"

	// User management
	PermUserView   Permission = "user.view"
	PermUserManage Permission = "user.manage"

	// House construction records
	PermHouseView    Permission = "house.view"
	PermHouseCreate  Permission = "house.create"
	PermHouseEdit    Permission = "house.edit"
	PermHouseDelete  Permission = "house.delete"
	PermHouseApprove Permission = "house.approve"

	// Craftsman registry
	PermCraftsmanView     Permission = "craftsman.view"
	PermCraftsmanRegister Permission = "craftsman.register"
	PermCraftsmanEdit     Permission = "craftsman.edit"
	PermCraftsmanApprove  Permission = "craftsman.approve"

	// Training
	PermTrainingView   Permission = "training.view"
	PermTrainingManage Permission = "training.manage"
	PermTrainingEnroll Permission = "training.enroll"

	// Craftsman credit scoring
	PermCreditView   Permission = "credit.view"
	PermCreditRate   Permission = "credit.rate"
	PermCreditAppeal Permission = "credit.appeal"

	// Quality/safety inspections
	PermInspectionView    Permission = "inspection.view"
	PermInspectionConduct Permission = "inspection.conduct"
	PermInspectionAssign  Permission = "inspection.assign"

	// Six-on-site attendance supervision
	PermAttendanceView   Permission = "attendance.view"
	PermAttendanceRecord Permission = "attendance.record"
	PermAttendanceManage Permission = "attendance.manage"

	// Statistics
	PermStatsView   Permission = "stats.view"
	PermStatsExport Permission = "stats.export"

	// Own profile
	PermProfileView Permission = "profile.view"
	PermProfileEdit Permission = "profile.edit"
)

// AllPermissions returns the full catalog
func AllPermissions() []Permission {
	return []Permission{
		PermSystemAdmin,
		PermUserView, PermUserManage,
		PermHouseView, PermHouseCreate, PermHouseEdit, PermHouseDelete, PermHouseApprove,
		PermCraftsmanView, PermCraftsmanRegister, PermCraftsmanEdit, PermCraftsmanApprove,
		PermTrainingView, PermTrainingManage, PermTrainingEnroll,
		PermCreditView, PermCreditRate, PermCreditAppeal,
		PermInspectionView, PermInspectionConduct, PermInspectionAssign,
		PermAttendanceView, PermAttendanceRecord, PermAttendanceManage,
		PermStatsView, PermStatsExport,
		PermProfileView, PermProfileEdit,
	}
}

// ============================================================
// Role → permission matrix
// ============================================================

// Grants are policy data, not a formula. Administrative tiers grow
// roughly additively with seniority (system.admin and user.manage are
// reserved for the top two tiers), while the field roles carry small
// role-specific sets: only inspectors and city-level admins hold
// inspection.conduct, and attendance.record belongs to the people who
// are physically on site.
var roleGrants = map[Role][]Permission{
	RoleFarmer: {
		PermHouseView, PermHouseCreate,
		PermTrainingView, PermCreditView,
		PermProfileView, PermProfileEdit,
	},
	RoleCraftsman: {
		PermCraftsmanRegister,
		PermTrainingView, PermTrainingEnroll,
		PermCreditView, PermCreditAppeal,
		PermAttendanceRecord,
		PermProfileView, PermProfileEdit,
	},
	RoleInspector: {
		PermHouseView,
		PermInspectionView, PermInspectionConduct,
		PermAttendanceView, PermAttendanceRecord,
		PermProfileView, PermProfileEdit,
	},
	RoleVillageAdmin: {
		PermHouseView, PermHouseCreate, PermHouseEdit,
		PermCraftsmanView,
		PermTrainingView, PermCreditView,
		PermInspectionView,
		PermAttendanceView, PermAttendanceRecord,
		PermStatsView,
		PermProfileView, PermProfileEdit,
	},
	RoleTownAdmin: {
		PermHouseView, PermHouseCreate, PermHouseEdit, PermHouseApprove,
		PermCraftsmanView, PermCraftsmanApprove,
		PermTrainingView, PermCreditView, PermCreditRate,
		PermInspectionView,
		PermAttendanceView, PermAttendanceRecord, PermAttendanceManage,
		PermStatsView,
		PermProfileView, PermProfileEdit,
	},
	RoleDistrictAdmin: {
		PermUserView,
		PermHouseView, PermHouseCreate, PermHouseEdit, PermHouseDelete, PermHouseApprove,
		PermCraftsmanView, PermCraftsmanEdit, PermCraftsmanApprove,
		PermTrainingView, PermTrainingManage,
		PermCreditView, PermCreditRate, PermCreditAppeal,
		PermInspectionView, PermInspectionAssign,
		PermAttendanceView, PermAttendanceManage,
		PermStatsView, PermStatsExport,
		PermProfileView, PermProfileEdit,
	},
	RoleCityAdmin: {
		PermSystemAdmin,
		PermUserView, PermUserManage,
		PermHouseView, PermHouseCreate, PermHouseEdit, PermHouseDelete, PermHouseApprove,
		PermCraftsmanView, PermCraftsmanEdit, PermCraftsmanApprove,
		PermTrainingView, PermTrainingManage,
		PermCreditView, PermCreditRate, PermCreditAppeal,
		PermInspectionView, PermInspectionConduct, PermInspectionAssign,
		PermAttendanceView, PermAttendanceManage,
		PermStatsView, PermStatsExport,
		PermProfileView, PermProfileEdit,
	},
	// SuperAdmin holds the full catalog
	RoleSuperAdmin: AllPermissions(),
}

// matrix is the immutable lookup table, built once at package init
// from roleGrants and never mutated afterwards.
var matrix = buildMatrix()

func buildMatrix() map[Role]map[Permission]struct{} {
	m := make(map[Role]map[Permission]struct{}, len(roleGrants))
	for role, perms := range roleGrants {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		m[role] = set
	}
	return m
}

// PermissionsFor returns the permission set granted to a role.
// The returned slice is a copy; callers may not mutate the matrix.
func PermissionsFor(role Role) []Permission {
	perms := make([]Permission, 0, len(matrix[role]))
	for _, p := range AllPermissions() {
		if _, ok := matrix[role][p]; ok {
			perms = append(perms, p)
		}
	}
	return perms
}

// RoleHas reports whether the role is granted the permission
func RoleHas(role Role, perm Permission) bool {
	_, ok := matrix[role][perm]
	return ok
}

// RoleHasAny reports whether the role holds at least one of the permissions
func RoleHasAny(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if RoleHas(role, p) {
			return true
		}
	}
	return false
}

// RoleHasAll reports whether the role holds every one of the permissions
func RoleHasAll(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !RoleHas(role, p) {
			return false
		}
	}
	return true
}
