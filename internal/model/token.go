package model

import "time"

// AuthToken is an issued bearer token. Only the SHA-256 digest of the
// token material is stored; the plaintext is returned to the caller
// once at mint time and cannot be recovered.
type AuthToken struct {
	ID          uint       `gorm:"primarykey"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	UserID      uint       `gorm:"column:user_id;index;not null"`
	Name        string     `gorm:"column:name;not null"`
	TokenDigest string     `gorm:"column:token_digest;uniqueIndex;not null"`
	LastUsedAt  *time.Time `gorm:"column:last_used_at"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
