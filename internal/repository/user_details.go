package repository

import (
	"context"

	"github.com/Payphone-Digital/accounts/internal/model"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserDetailsRepository struct {
	db *gorm.DB
}

func NewUserDetailsRepository(db *gorm.DB) *UserDetailsRepository {
	return &UserDetailsRepository{db: db}
}

// Upsert creates or replaces the single details row for a user. The
// unique index on user_id makes ON CONFLICT the race-safe way to keep
// the one-row-per-user invariant.
func (r *UserDetailsRepository) Upsert(ctx context.Context, userID uint, address string) (*model.UserDetails, error) {
	details := &model.UserDetails{
		UserID:  userID,
		Address: address,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"address", "updated_at"}),
	}).Create(details)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to upsert user details",
			zap.Uint("user_id", userID),
			zap.Error(result.Error))
		return nil, result.Error
	}

	logger.GetLogger().Debug("User details upserted",
		zap.Uint("user_id", userID))
	return details, nil
}

// DeleteByUserID removes the details row for a user if one exists
func (r *UserDetailsRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.UserDetails{})
	if result.Error != nil {
		logger.GetLogger().Error("Failed to delete user details",
			zap.Uint("user_id", userID),
			zap.Error(result.Error))
		return result.Error
	}

	if result.RowsAffected > 0 {
		logger.GetLogger().Debug("User details deleted",
			zap.Uint("user_id", userID))
	}
	return nil
}
