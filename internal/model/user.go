package model

import "time"

// User is the primary account record. Deletes are hard deletes, so the
// models carry no soft-delete column; dependent rows go with the user
// through the FK cascades below.
type User struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     string    `gorm:"column:email;unique;not null"`
	Password  string    `gorm:"column:password;not null"`

	Details *UserDetails `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tokens  []AuthToken  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// UserDetails is the optional one-to-one extension record. The unique
// index on user_id enforces at most one row per user.
type UserDetails struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	UserID    uint      `gorm:"column:user_id;uniqueIndex;not null"`
	Address   string    `gorm:"column:address"`
}

func (UserDetails) TableName() string {
	return "user_details"
}
