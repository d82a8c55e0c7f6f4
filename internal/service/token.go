package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/Payphone-Digital/accounts/internal/constants"
	apperrors "github.com/Payphone-Digital/accounts/internal/errors"
	"github.com/Payphone-Digital/accounts/internal/model"
	"github.com/Payphone-Digital/accounts/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenService mints and verifies opaque bearer tokens. The plaintext
// is random and handed out exactly once; only its SHA-256 digest is
// persisted, so a database leak does not leak usable tokens.
type TokenService struct {
	tokens TokenStore
}

func NewTokenService(tokens TokenStore) *TokenService {
	return &TokenService{tokens: tokens}
}

// Mint issues a new named token for the user and returns the plaintext
func (s *TokenService) Mint(ctx context.Context, userID uint, name string) (string, error) {
	plain, err := generateTokenMaterial()
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token := &model.AuthToken{
		UserID:      userID,
		Name:        name,
		TokenDigest: digest(plain),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Bearer token minted",
		zap.Uint("user_id", userID),
		zap.String("token_name", name))

	return plain, nil
}

// Verify resolves a presented plaintext token to its stored row
func (s *TokenService) Verify(ctx context.Context, plain string) (*model.AuthToken, error) {
	if plain == "" {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.tokens.GetByDigest(ctx, digest(plain))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Usage tracking only, auth does not depend on it
	_ = s.tokens.Touch(ctx, token.ID)

	return token, nil
}

func generateTokenMaterial() (string, error) {
	bytes := make([]byte, constants.TokenByteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
