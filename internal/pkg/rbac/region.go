package rbac

import "strings"

// CanAccessRegion reports whether an actor with the given role and home
// region may see data tagged with the target region.
//
// Region codes are opaque strings in a hierarchical namespace where a
// descendant's code extends its ancestor's code as a string prefix.
// Prefix containment is the only relation the codes support.
//
// The rule is deliberately asymmetric across tiers: district admins
// span the tiers below them via prefix match, while town admins (and
// everyone further down) are confined to their exact code. Only
// district-level administration spans multiple code tiers in this
// domain, so do not generalize the town rule to prefix matching.
func CanAccessRegion(role Role, actorRegion, targetRegion string) bool {
	switch role {
	case RoleSuperAdmin, RoleCityAdmin:
		// City-wide visibility
		return true
	case RoleDistrictAdmin:
		// Own region plus every town/village whose code extends it.
		// Siblings and the city root never share the prefix.
		return strings.HasPrefix(targetRegion, actorRegion)
	case RoleTownAdmin:
		// Exact match only: a town admin does not inherit the
		// village codes beneath its own.
		return targetRegion == actorRegion
	default:
		return targetRegion == actorRegion
	}
}
