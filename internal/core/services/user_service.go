package services

import (
	"context"
	"errors"
	"log"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/adapters/persistence/repositories"
	"ruralbuild/internal/pkg/password"
	"ruralbuild/internal/pkg/rbac"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrInsufficientRank    = errors.New("target role outranks or equals your role")
	ErrRegionDenied        = errors.New("region is outside your scope")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrCannotDisableSelf   = errors.New("cannot disable your own account")
)

// UserService handles user management business logic. Every mutation
// is checked against the actor's seniority and region scope.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
	Role   rbac.Role
	Region string
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// ListUsers lists accounts visible to the actor. With an explicit
// region the actor must be allowed to see it; without one the listing
// falls back to the actor's own scope.
func (s *UserService) ListUsers(ctx context.Context, actor *models.User, input *ListUsersInput) (*ListUsersOutput, error) {
	filter := repositories.UserFilter{
		Search: input.Search,
		Role:   input.Role,
	}

	if input.Region != "" {
		if !rbac.CanAccessRegion(actor.Role, actor.RegionCode, input.Region) {
			return nil, ErrRegionDenied
		}
		filter.RegionExact = input.Region
	} else {
		switch actor.Role {
		case rbac.RoleSuperAdmin, rbac.RoleCityAdmin:
			// unrestricted
		case rbac.RoleDistrictAdmin:
			filter.RegionPrefix = actor.RegionCode
		default:
			filter.RegionExact = actor.RegionCode
		}
	}

	offset := (input.Page - 1) * input.Limit
	users, total, err := s.userRepo.List(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &ListUsersOutput{
		Users: make([]*models.UserResponse, 0, len(users)),
		Total: total,
		Page:  input.Page,
		Limit: input.Limit,
	}
	for _, u := range users {
		out.Users = append(out.Users, u.ToResponse())
	}
	return out, nil
}

// GetUser fetches a single account within the actor's scope
func (s *UserService) GetUser(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !rbac.CanAccessRegion(actor.Role, actor.RegionCode, user.RegionCode) {
		return nil, ErrRegionDenied
	}
	return user, nil
}

// CreateUser creates an account on behalf of an administrator. The
// actor must outrank the new account's role and the account must land
// inside the actor's region scope.
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, input *RegisterInput) (*models.User, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	if !rbac.CanManage(actor.Role, input.Role) {
		return nil, ErrInsufficientRank
	}
	if !rbac.CanAccessRegion(actor.Role, actor.RegionCode, input.RegionCode) {
		return nil, ErrRegionDenied
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   input.Username,
		Password:   hashed,
		FullName:   input.FullName,
		Phone:      input.Phone,
		Role:       input.Role,
		RegionCode: input.RegionCode,
		RegionName: input.RegionName,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created by %s: %s [%s] region=%s",
		actor.Username, user.Username, user.Role, user.RegionCode)
	return user, nil
}

// UpdateUserInput represents update user input (for admins)
type UpdateUserInput struct {
	FullName   *string    `json:"full_name"`
	Phone      *string    `json:"phone"`
	Role       *rbac.Role `json:"role"`
	IsActive   *bool      `json:"is_active"`
	RegionCode *string    `json:"region_code"`
	RegionName *string    `json:"region_name"`
}

// UpdateUser updates an account the actor is allowed to manage
func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !rbac.CanManage(actor.Role, user.Role) {
		return nil, ErrInsufficientRank
	}

	if input.Role != nil && *input.Role != user.Role {
		if user.ID == actor.ID {
			return nil, ErrCannotChangeOwnRole
		}
		if !input.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		// The new role must also be below the actor's rank
		if !rbac.CanManage(actor.Role, *input.Role) {
			return nil, ErrInsufficientRank
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		if user.ID == actor.ID && !*input.IsActive {
			return nil, ErrCannotDisableSelf
		}
		user.IsActive = *input.IsActive
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.RegionCode != nil {
		if !rbac.CanAccessRegion(actor.Role, actor.RegionCode, *input.RegionCode) {
			return nil, ErrRegionDenied
		}
		user.RegionCode = *input.RegionCode
	}
	if input.RegionName != nil {
		user.RegionName = *input.RegionName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User updated by %s: %s", actor.Username, user.Username)
	return user, nil
}

// DeleteUser soft deletes an account the actor is allowed to manage
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id uint) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}
	user, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return err
	}
	if !rbac.CanManage(actor.Role, user.Role) {
		return ErrInsufficientRank
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("✅ User deleted by %s: %s", actor.Username, user.Username)
	return nil
}
