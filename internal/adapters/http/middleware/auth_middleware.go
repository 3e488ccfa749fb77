package middleware

import (
	"context"
	"errors"
	"strings"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/core/services"
	"ruralbuild/internal/pkg/rbac"
	"ruralbuild/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Decision is the outcome of an authorization check
type Decision int

const (
	// DecisionAllowed grants the request
	DecisionAllowed Decision = iota
	// DecisionUnauthenticated means no usable identity (401)
	DecisionUnauthenticated
	// DecisionForbidden means a known identity without the required
	// permission or region scope (403)
	DecisionForbidden
	// DecisionInternalError means the check itself failed (500);
	// failures never degrade into an allow
	DecisionInternalError
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "internal_error"
	}
}

// RegionExtractor pulls the target region code out of a request
type RegionExtractor func(c *fiber.Ctx) string

// localsUserKey is the fiber locals key holding the resolved user
const localsUserKey = "authUser"

// Authorizer composes identity resolution, the permission matrix and
// the region resolver into per-request decisions
type Authorizer struct {
	authService *services.AuthService
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(authService *services.AuthService) *Authorizer {
	return &Authorizer{authService: authService}
}

// Authorize runs the linear decision chain: bearer token → live
// identity → permission check → region check. The region check only
// runs when targetRegion is non-nil.
func (a *Authorizer) Authorize(ctx context.Context, bearerToken string, perms []rbac.Permission, requireAll bool, targetRegion *string) (Decision, *models.User) {
	// 1. A request without a token carries no identity
	if bearerToken == "" {
		return DecisionUnauthenticated, nil
	}

	// 2. Verify the token and re-check the live account status
	user, err := a.authService.ResolveIdentity(ctx, bearerToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserDisabled) {
			return DecisionUnauthenticated, nil
		}
		// Persistence failure: surface as an internal error, never
		// fall through to an allow
		return DecisionInternalError, nil
	}

	// 3. Permission check against the matrix
	if len(perms) > 0 {
		var ok bool
		if requireAll {
			ok = rbac.RoleHasAll(user.Role, perms...)
		} else {
			ok = rbac.RoleHasAny(user.Role, perms...)
		}
		if !ok {
			return DecisionForbidden, nil
		}
	}

	// 4. Region scope check
	if targetRegion != nil {
		if !rbac.CanAccessRegion(user.Role, user.RegionCode, *targetRegion) {
			return DecisionForbidden, nil
		}
	}

	return DecisionAllowed, user
}

// Handler wraps Authorize as fiber middleware. On an allow the
// resolved user is stored in locals for the downstream handler.
func (a *Authorizer) Handler(perms []rbac.Permission, requireAll bool, extractor RegionExtractor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The region check only applies when the request actually
		// names a target region
		var targetRegion *string
		if extractor != nil {
			if region := extractor(c); region != "" {
				targetRegion = &region
			}
		}

		decision, user := a.Authorize(c.Context(), extractToken(c), perms, requireAll, targetRegion)
		switch decision {
		case DecisionAllowed:
			c.Locals(localsUserKey, user)
			return c.Next()
		case DecisionUnauthenticated:
			return response.Unauthorized(c, "Authentication required")
		case DecisionForbidden:
			return response.Forbidden(c, "You don't have permission to access this resource")
		default:
			return response.InternalServerError(c, "Authorization check failed")
		}
	}
}

// Protect requires a valid identity without any particular permission
func (a *Authorizer) Protect() fiber.Handler {
	return a.Handler(nil, false, nil)
}

// RequireAny requires at least one of the permissions
func (a *Authorizer) RequireAny(perms ...rbac.Permission) fiber.Handler {
	return a.Handler(perms, false, nil)
}

// RequireAll requires every one of the permissions
func (a *Authorizer) RequireAll(perms ...rbac.Permission) fiber.Handler {
	return a.Handler(perms, true, nil)
}

// RequireInRegion requires at least one of the permissions and that
// the extracted target region is inside the actor's scope
func (a *Authorizer) RequireInRegion(extractor RegionExtractor, perms ...rbac.Permission) fiber.Handler {
	return a.Handler(perms, false, extractor)
}

// CurrentUser returns the user resolved by the authorizer, or nil if
// the route is not protected
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}

// extractToken reads the bearer token, preferring the access_token
// cookie and falling back to the Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
