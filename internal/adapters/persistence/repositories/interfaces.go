package repositories

import (
	"context"
	"time"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/pkg/rbac"
)

// UserFilter narrows user listings. RegionExact and RegionPrefix are
// mutually exclusive; the service layer picks one according to the
// actor's region visibility.
type UserFilter struct {
	Search       string
	Role         rbac.Role
	RegionExact  string
	RegionPrefix string
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	CountByStatus(ctx context.Context) (active int64, disabled int64, err error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
