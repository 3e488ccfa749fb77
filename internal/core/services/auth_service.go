package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/adapters/persistence/repositories"
	"ruralbuild/internal/config"
	"ruralbuild/internal/pkg/jwt"
	"ruralbuild/internal/pkg/password"
	"ruralbuild/internal/pkg/rbac"

	"gorm.io/gorm"
)

// Auth errors
var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserDisabled is deliberately distinguishable from bad
	// credentials: this is an internal tool and support staff need it.
	ErrUserDisabled      = errors.New("user account is disabled")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("username already exists")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidRole       = errors.New("unknown role")
)

// AuthService handles credentials and session tokens
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Role       rbac.Role `json:"role"`
	RegionCode string    `json:"region_code"`
	RegionName string    `json:"region_name"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username. An unknown username surfaces as the
	// same error as a wrong password.
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check account status
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 3. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Record login timestamp. Login still succeeds if the touch
	// fails; the timestamp is bookkeeping, not authorization state.
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("⚠️ Failed to record login timestamp for %s: %v", user.Username, err)
	} else {
		user.LastLoginAt = &now
	}

	// 5. Issue access token
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s [%s]", user.Username, user.Role)

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
	}, nil
}

// Register registers a new user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	// 1. Validate role
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	// 2. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 3. Hash password
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user
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

	log.Printf("✅ User registered: %s [%s] region=%s", user.Username, user.Role, user.RegionCode)
	return user, nil
}

// ResetPassword overwrites a user's password hash. This is an
// admin-override flow; no old-password confirmation is required.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	log.Printf("✅ Password reset for user: %s", user.Username)
	return nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResolveIdentity verifies a bearer token and re-fetches the live user
// record. A cryptographically valid token is not enough: an account
// disabled after the token was issued is rejected here.
func (s *AuthService) ResolveIdentity(ctx context.Context, bearerToken string) (*models.User, error) {
	claims := jwt.Parse(bearerToken, s.cfg.JWT.Secret)
	if claims == nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	return user, nil
}

// issueToken signs an access token carrying the user's session claims
func (s *AuthService) issueToken(user *models.User) (string, error) {
	return jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		user.RegionCode,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenDays,
	)
}
