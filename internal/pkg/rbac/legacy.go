package rbac

// Translation table for callers that still name capabilities as a
// (resource, action) string pair instead of the canonical Permission
// constants. Every pair is listed explicitly; nothing is inferred by
// concatenating strings, so an unlisted pair simply does not exist.
var actionPermissions = map[string]Permission{
	"system:admin": PermSystemAdmin,

	"user:view":   PermUserView,
	"user:manage": PermUserManage,

	"house:view":    PermHouseView,
	"house:create":  PermHouseCreate,
	"house:edit":    PermHouseEdit,
	"house:delete":  PermHouseDelete,
	"house:approve": PermHouseApprove,

	"craftsman:view":     PermCraftsmanView,
	"craftsman:register": PermCraftsmanRegister,
	"craftsman:edit":     PermCraftsmanEdit,
	"craftsman:approve":  PermCraftsmanApprove,

	"training:view":   PermTrainingView,
	"training:manage": PermTrainingManage,
	"training:enroll": PermTrainingEnroll,

	"credit:view":   PermCreditView,
	"credit:rate":   PermCreditRate,
	"credit:appeal": PermCreditAppeal,

	"inspection:view":    PermInspectionView,
	"inspection:conduct": PermInspectionConduct,
	"inspection:assign":  PermInspectionAssign,

	"attendance:view":   PermAttendanceView,
	"attendance:record": PermAttendanceRecord,
	"attendance:manage": PermAttendanceManage,

	"stats:view":   PermStatsView,
	"stats:export": PermStatsExport,

	"profile:view": PermProfileView,
	"profile:edit": PermProfileEdit,

	// Irregular aliases kept for older callers
	"house:add":           PermHouseCreate,
	"six_on_site:view":    PermAttendanceView,
	"six_on_site:record":  PermAttendanceRecord,
	"six_on_site:manage":  PermAttendanceManage,
	"statistic:view":      PermStatsView,
	"statistic:export":    PermStatsExport,
	"craftsman:apply":     PermCraftsmanRegister,
	"training:signup":     PermTrainingEnroll,
	"inspection:dispatch": PermInspectionAssign,
}

// PermissionForAction translates a legacy (resource, action) pair into
// the canonical permission. The second result is false for pairs the
// table does not define.
func PermissionForAction(resource, action string) (Permission, bool) {
	perm, ok := actionPermissions[resource+":"+action]
	return perm, ok
}

// RoleCan answers a legacy resource/action permission query against the
// canonical matrix. Undefined pairs are never granted.
func RoleCan(role Role, resource, action string) bool {
	perm, ok := PermissionForAction(resource, action)
	if !ok {
		return false
	}
	return RoleHas(role, perm)
}
