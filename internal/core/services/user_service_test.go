package services

import (
	"context"
	"testing"

	"ruralbuild/internal/pkg/rbac"

	"github.com/stretchr/testify/require"
)

func TestListUsersScopesToActorRegion(t *testing.T) {
	repo := newStubUserRepo()
	district := seedUser(t, repo, "district202", "123456789", rbac.RoleDistrictAdmin, "370202", true)
	seedUser(t, repo, "town202001", "123456789", rbac.RoleTownAdmin, "370202001", true)
	seedUser(t, repo, "village202001005", "123456789", rbac.RoleVillageAdmin, "370202001005", true)
	seedUser(t, repo, "district203", "123456789", rbac.RoleDistrictAdmin, "370203", true)
	svc := NewUserService(repo)

	// Without an explicit region a district admin sees everything
	// under its own district prefix
	out, err := svc.ListUsers(context.Background(), district, &ListUsersInput{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Total)
	for _, u := range out.Users {
		require.NotEqual(t, "district203", u.Username)
	}
}

func TestListUsersExplicitRegionOutsideScope(t *testing.T) {
	repo := newStubUserRepo()
	district := seedUser(t, repo, "district202", "123456789", rbac.RoleDistrictAdmin, "370202", true)
	svc := NewUserService(repo)

	_, err := svc.ListUsers(context.Background(), district, &ListUsersInput{Page: 1, Limit: 20, Region: "370203"})
	require.ErrorIs(t, err, ErrRegionDenied)
}

func TestListUsersTownAdminSeesOnlyExactRegion(t *testing.T) {
	repo := newStubUserRepo()
	town := seedUser(t, repo, "town202001", "123456789", rbac.RoleTownAdmin, "370202001", true)
	seedUser(t, repo, "village202001005", "123456789", rbac.RoleVillageAdmin, "370202001005", true)
	svc := NewUserService(repo)

	// Town admins do not inherit their villages by prefix
	out, err := svc.ListUsers(context.Background(), town, &ListUsersInput{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Total)
	require.Equal(t, "town202001", out.Users[0].Username)

	_, err = svc.ListUsers(context.Background(), town, &ListUsersInput{Page: 1, Limit: 20, Region: "370202001005"})
	require.ErrorIs(t, err, ErrRegionDenied)
}

func TestCreateUserRankAndRegionChecks(t *testing.T) {
	repo := newStubUserRepo()
	district := seedUser(t, repo, "district202", "123456789", rbac.RoleDistrictAdmin, "370202", true)
	town := seedUser(t, repo, "town202001", "123456789", rbac.RoleTownAdmin, "370202001", true)
	svc := NewUserService(repo)

	// A town admin cannot create a district admin
	_, err := svc.CreateUser(context.Background(), town, &RegisterInput{
		Username: "usurper", Password: "123456789",
		Role: rbac.RoleDistrictAdmin, RegionCode: "370202",
	})
	require.ErrorIs(t, err, ErrInsufficientRank)

	// Equal rank is not manageable either
	_, err = svc.CreateUser(context.Background(), district, &RegisterInput{
		Username: "peer", Password: "123456789",
		Role: rbac.RoleDistrictAdmin, RegionCode: "370202",
	})
	require.ErrorIs(t, err, ErrInsufficientRank)

	// Creating inside a foreign district is refused
	_, err = svc.CreateUser(context.Background(), district, &RegisterInput{
		Username: "intruder", Password: "123456789",
		Role: rbac.RoleVillageAdmin, RegionCode: "370203001005",
	})
	require.ErrorIs(t, err, ErrRegionDenied)

	// A village admin inside the district is fine
	created, err := svc.CreateUser(context.Background(), district, &RegisterInput{
		Username: "village202001005", Password: "123456789",
		Role: rbac.RoleVillageAdmin, RegionCode: "370202001005",
	})
	require.NoError(t, err)
	require.True(t, created.IsActive)
}

func TestUpdateUserSelfProtections(t *testing.T) {
	repo := newStubUserRepo()
	super := seedUser(t, repo, "admin", "admin123456", rbac.RoleSuperAdmin, "3702", true)
	svc := NewUserService(repo)

	newRole := rbac.RoleCityAdmin
	_, err := svc.UpdateUser(context.Background(), super, super.ID, &UpdateUserInput{Role: &newRole})
	require.ErrorIs(t, err, ErrCannotChangeOwnRole)

	disabled := false
	_, err = svc.UpdateUser(context.Background(), super, super.ID, &UpdateUserInput{IsActive: &disabled})
	require.ErrorIs(t, err, ErrCannotDisableSelf)
}

func TestUpdateUserCannotPromoteBeyondOwnRank(t *testing.T) {
	repo := newStubUserRepo()
	district := seedUser(t, repo, "district202", "123456789", rbac.RoleDistrictAdmin, "370202", true)
	town := seedUser(t, repo, "town202001", "123456789", rbac.RoleTownAdmin, "370202001", true)
	svc := NewUserService(repo)

	newRole := rbac.RoleDistrictAdmin
	_, err := svc.UpdateUser(context.Background(), district, town.ID, &UpdateUserInput{Role: &newRole})
	require.ErrorIs(t, err, ErrInsufficientRank)

	demoted := rbac.RoleVillageAdmin
	updated, err := svc.UpdateUser(context.Background(), district, town.ID, &UpdateUserInput{Role: &demoted})
	require.NoError(t, err)
	require.Equal(t, rbac.RoleVillageAdmin, updated.Role)
}

func TestDeleteUserGuards(t *testing.T) {
	repo := newStubUserRepo()
	district := seedUser(t, repo, "district202", "123456789", rbac.RoleDistrictAdmin, "370202", true)
	peer := seedUser(t, repo, "district203", "123456789", rbac.RoleDistrictAdmin, "370203", true)
	town := seedUser(t, repo, "town202001", "123456789", rbac.RoleTownAdmin, "370202001", true)
	svc := NewUserService(repo)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), district, district.ID), ErrCannotDeleteSelf)

	// A peer in another district is outside the region scope before
	// rank even comes into play
	require.ErrorIs(t, svc.DeleteUser(context.Background(), district, peer.ID), ErrRegionDenied)

	require.NoError(t, svc.DeleteUser(context.Background(), district, town.ID))
	_, err := repo.GetByID(context.Background(), town.ID)
	require.Error(t, err)
}

func TestGetUserRegionVisibility(t *testing.T) {
	repo := newStubUserRepo()
	village := seedUser(t, repo, "village202001005", "123456789", rbac.RoleVillageAdmin, "370202001005", true)
	other := seedUser(t, repo, "village202001006", "123456789", rbac.RoleVillageAdmin, "370202001006", true)
	svc := NewUserService(repo)

	_, err := svc.GetUser(context.Background(), village, other.ID)
	require.ErrorIs(t, err, ErrRegionDenied)

	got, err := svc.GetUser(context.Background(), village, village.ID)
	require.NoError(t, err)
	require.Equal(t, village.Username, got.Username)

	_, err = svc.GetUser(context.Background(), village, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
