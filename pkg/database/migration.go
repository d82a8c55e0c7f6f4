package database

import (
	"github.com/Payphone-Digital/accounts/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models. Order matters:
// user_details and auth_tokens carry FK cascades onto users.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserDetails{},
		&model.AuthToken{},
	)
}
