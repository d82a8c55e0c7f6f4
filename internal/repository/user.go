package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/accounts/internal/model"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID finds a user by primary key
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.GetLogger().Error("Failed to get user by ID",
				zap.Uint("user_id", id),
				zap.Error(result.Error))
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail finds a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.GetLogger().Error("Failed to get user by email",
				zap.String("email", email),
				zap.Error(result.Error))
		}
		return nil, result.Error
	}
	return &user, nil
}

// ListWithDetails returns all users with their details row preloaded,
// in storage-natural order.
func (r *UserRepository) ListWithDetails(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	var users []model.User
	result := r.db.WithContext(ctx).Preload("Details").Find(&users)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to list users",
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error))
		return nil, result.Error
	}

	logger.GetLogger().Debug("Users listed",
		zap.Int("count", len(users)),
		zap.Duration("duration", time.Since(start)))
	return users, nil
}

// Create inserts a new user row
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Error(result.Error))
		return result.Error
	}

	logger.GetLogger().Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email))
	return nil
}

// Update overwrites all four core fields of an existing user
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"password":   user.Password,
	})
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update user",
			zap.Uint("user_id", user.ID),
			zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.GetLogger().Warn("No user found to update",
			zap.Uint("user_id", user.ID))
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("User updated",
		zap.Uint("user_id", user.ID))
	return nil
}

// Delete performs a hard delete and reports the number of removed
// rows. Dependent user_details and auth_tokens rows go with the user
// through the FK cascades.
func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(result.Error))
		return 0, result.Error
	}

	logger.GetLogger().Info("User deleted",
		zap.Uint("user_id", id),
		zap.Int64("rows_affected", result.RowsAffected))
	return result.RowsAffected, nil
}
