package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/adapters/persistence/repositories"
	"ruralbuild/internal/config"
	"ruralbuild/internal/core/services"
	"ruralbuild/internal/pkg/jwt"
	"ruralbuild/internal/pkg/rbac"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

// fixedUserRepo serves a fixed set of accounts by ID. Only the lookups
// the authorizer needs are functional.
type fixedUserRepo struct {
	users map[uint]*models.User
	err   error
}

func (f *fixedUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fixedUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fixedUserRepo) Create(ctx context.Context, user *models.User) error { return f.err }
func (f *fixedUserRepo) Update(ctx context.Context, user *models.User) error { return f.err }
func (f *fixedUserRepo) Delete(ctx context.Context, id uint) error           { return f.err }

func (f *fixedUserRepo) List(ctx context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	return nil, 0, f.err
}

func (f *fixedUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, f.err
}

func (f *fixedUserRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return f.err
}

func (f *fixedUserRepo) CountByStatus(ctx context.Context) (int64, int64, error) {
	return 0, 0, f.err
}

func (f *fixedUserRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, f.err
}

func testAuthorizer(repo repositories.UserRepository) *Authorizer {
	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: testSecret, AccessTokenDays: 7},
	}
	return NewAuthorizer(services.NewAuthService(repo, cfg))
}

func mintToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(user.ID, user.Username, user.Role, user.RegionCode, testSecret, 7)
	require.NoError(t, err)
	return token
}

func superAdmin() *models.User {
	return &models.User{ID: 1, Username: "admin", Role: rbac.RoleSuperAdmin, RegionCode: "3702", IsActive: true}
}

func districtAdmin() *models.User {
	return &models.User{ID: 2, Username: "district202", Role: rbac.RoleDistrictAdmin, RegionCode: "370202", IsActive: true}
}

func farmer() *models.User {
	return &models.User{ID: 3, Username: "farmer001", Role: rbac.RoleFarmer, RegionCode: "370202001005", IsActive: true}
}

func TestAuthorizeMissingToken(t *testing.T) {
	authz := testAuthorizer(&fixedUserRepo{users: map[uint]*models.User{}})

	decision, user := authz.Authorize(context.Background(), "", nil, false, nil)
	require.Equal(t, DecisionUnauthenticated, decision)
	require.Nil(t, user)
}

func TestAuthorizeGarbageToken(t *testing.T) {
	authz := testAuthorizer(&fixedUserRepo{users: map[uint]*models.User{}})

	decision, user := authz.Authorize(context.Background(), "not-a-jwt", nil, false, nil)
	require.Equal(t, DecisionUnauthenticated, decision)
	require.Nil(t, user)
}

func TestAuthorizePermissionChain(t *testing.T) {
	admin := superAdmin()
	worker := farmer()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin, worker.ID: worker}}
	authz := testAuthorizer(repo)

	adminToken := mintToken(t, admin)
	farmerToken := mintToken(t, worker)

	decision, user := authz.Authorize(context.Background(), adminToken, []rbac.Permission{rbac.PermSystemAdmin}, false, nil)
	require.Equal(t, DecisionAllowed, decision)
	require.Equal(t, admin.ID, user.ID)

	decision, user = authz.Authorize(context.Background(), farmerToken, []rbac.Permission{rbac.PermSystemAdmin}, false, nil)
	require.Equal(t, DecisionForbidden, decision)
	require.Nil(t, user)

	// requireAll: a farmer holds house.view but not house.approve
	decision, _ = authz.Authorize(context.Background(), farmerToken,
		[]rbac.Permission{rbac.PermHouseView, rbac.PermHouseApprove}, true, nil)
	require.Equal(t, DecisionForbidden, decision)

	// requireAny over the same pair passes
	decision, _ = authz.Authorize(context.Background(), farmerToken,
		[]rbac.Permission{rbac.PermHouseView, rbac.PermHouseApprove}, false, nil)
	require.Equal(t, DecisionAllowed, decision)
}

func TestAuthorizeRegionScope(t *testing.T) {
	admin := districtAdmin()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin}}
	authz := testAuthorizer(repo)
	token := mintToken(t, admin)

	inside := "370202001"
	decision, _ := authz.Authorize(context.Background(), token, nil, false, &inside)
	require.Equal(t, DecisionAllowed, decision)

	outside := "370203"
	decision, user := authz.Authorize(context.Background(), token, nil, false, &outside)
	require.Equal(t, DecisionForbidden, decision)
	require.Nil(t, user)
}

func TestAuthorizeDisabledAfterIssuance(t *testing.T) {
	admin := superAdmin()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin}}
	authz := testAuthorizer(repo)
	token := mintToken(t, admin)

	admin.IsActive = false

	decision, user := authz.Authorize(context.Background(), token, nil, false, nil)
	require.Equal(t, DecisionUnauthenticated, decision)
	require.Nil(t, user)
}

func TestAuthorizeStoreFailureNeverAllows(t *testing.T) {
	admin := superAdmin()
	repo := &fixedUserRepo{
		users: map[uint]*models.User{admin.ID: admin},
		err:   errors.New("connection refused"),
	}
	authz := testAuthorizer(repo)
	token := mintToken(t, admin)

	decision, user := authz.Authorize(context.Background(), token, nil, false, nil)
	require.Equal(t, DecisionInternalError, decision)
	require.Nil(t, user)
}

func TestHandlerStatusCodes(t *testing.T) {
	admin := superAdmin()
	worker := farmer()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin, worker.ID: worker}}
	authz := testAuthorizer(repo)

	app := fiber.New()
	app.Get("/admin", authz.RequireAny(rbac.PermSystemAdmin), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})

	// No token
	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Identity without the permission
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, worker))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Full access
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, admin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandlerRegionFromQuery(t *testing.T) {
	admin := districtAdmin()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin}}
	authz := testAuthorizer(repo)

	regionQuery := func(c *fiber.Ctx) string { return c.Query("region") }

	app := fiber.New()
	app.Get("/users", authz.RequireInRegion(regionQuery, rbac.PermUserView), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	token := mintToken(t, admin)

	request := func(target string) int {
		req := httptest.NewRequest("GET", target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	require.Equal(t, fiber.StatusOK, request("/users?region=370202001"))
	require.Equal(t, fiber.StatusForbidden, request("/users?region=370203"))
	// No explicit region skips the scope check
	require.Equal(t, fiber.StatusOK, request("/users"))
}

func TestHandlerStoreFailureIs500(t *testing.T) {
	admin := superAdmin()
	repo := &fixedUserRepo{
		users: map[uint]*models.User{admin.ID: admin},
		err:   errors.New("connection refused"),
	}
	authz := testAuthorizer(repo)

	app := fiber.New()
	app.Get("/admin", authz.Protect(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, admin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestExtractTokenFromCookie(t *testing.T) {
	admin := superAdmin()
	repo := &fixedUserRepo{users: map[uint]*models.User{admin.ID: admin}}
	authz := testAuthorizer(repo)

	app := fiber.New()
	app.Get("/me", authz.Protect(), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: mintToken(t, admin)})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
