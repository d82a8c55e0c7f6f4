package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/accounts/internal/model"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new token row. Issuance is not exclusive: repeated
// authentication adds rows rather than replacing them.
func (r *TokenRepository) Create(ctx context.Context, token *model.AuthToken) error {
	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create auth token",
			zap.Uint("user_id", token.UserID),
			zap.String("name", token.Name),
			zap.Error(result.Error))
		return result.Error
	}

	logger.GetLogger().Info("Auth token created",
		zap.Uint("token_id", token.ID),
		zap.Uint("user_id", token.UserID),
		zap.String("name", token.Name))
	return nil
}

// GetByDigest finds a token by its stored digest
func (r *TokenRepository) GetByDigest(ctx context.Context, digest string) (*model.AuthToken, error) {
	var token model.AuthToken
	result := r.db.WithContext(ctx).Where("token_digest = ?", digest).First(&token)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			logger.GetLogger().Error("Failed to get auth token",
				zap.Error(result.Error))
		}
		return nil, result.Error
	}
	return &token, nil
}

// Touch records token usage, best effort
func (r *TokenRepository) Touch(ctx context.Context, id uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.AuthToken{}).Where("id = ?", id).Update("last_used_at", now)
	if result.Error != nil {
		logger.GetLogger().Warn("Failed to touch auth token",
			zap.Uint("token_id", id),
			zap.Error(result.Error))
	}
	return result.Error
}
