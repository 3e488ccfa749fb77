package config

import (
	"log"

	"ruralbuild/internal/adapters/persistence/models"
	"ruralbuild/internal/pkg/password"
	"ruralbuild/internal/pkg/rbac"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run(cfg *Config) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ Super admin seeder skipped: %v", err)
	}

	if cfg.IsDev() {
		if err := s.seedSampleAccounts(); err != nil {
			log.Printf("⚠️ Sample account seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the default super admin account.
// The default password is for development only; change it immediately
// on any real deployment.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", rbac.RoleSuperAdmin).Count(&count)
	if count > 0 {
		return nil // Super admin already exists
	}

	hashed, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:   "admin",
		Password:   hashed,
		FullName:   "Platform Administrator",
		Role:       rbac.RoleSuperAdmin,
		RegionCode: "3702",
		RegionName: "City",
		IsActive:   true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", admin.Username)
	return nil
}

// seedSampleAccounts seeds a handful of regional accounts for
// development and manual testing
func (s *Seeder) seedSampleAccounts() error {
	samples := []struct {
		username   string
		role       rbac.Role
		regionCode string
		regionName string
	}{
		{"district202", rbac.RoleDistrictAdmin, "370202", "Shinan District"},
		{"district203", rbac.RoleDistrictAdmin, "370203", "Shibei District"},
		{"town202001", rbac.RoleTownAdmin, "370202001", "Xianggang Town"},
		{"village202001005", rbac.RoleVillageAdmin, "370202001005", "Dongshan Village"},
		{"inspector001", rbac.RoleInspector, "370202", "Shinan District"},
		{"farmer001", rbac.RoleFarmer, "370202001005", "Dongshan Village"},
	}

	for _, sample := range samples {
		var count int64
		s.db.Model(&models.User{}).Where("username = ?", sample.username).Count(&count)
		if count > 0 {
			continue
		}

		hashed, err := password.Hash("123456789")
		if err != nil {
			return err
		}

		user := &models.User{
			Username:   sample.username,
			Password:   hashed,
			FullName:   sample.username,
			Role:       sample.role,
			RegionCode: sample.regionCode,
			RegionName: sample.regionName,
			IsActive:   true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return err
		}
	}

	log.Println("✅ Sample regional accounts seeded")
	return nil
}
