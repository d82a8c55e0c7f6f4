package dto

import "time"

// Address is a pointer on purpose: the update contract distinguishes
// "address omitted" (clear the details row) from "address provided"
// (upsert the details row), so absence has to survive JSON binding.

type CreateUserRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required"`
	Address   *string `json:"address" binding:"omitempty"`
}

// UpdateUserRequest is a full replacement, not a patch: every core
// field is required again and the password is re-hashed even when it
// did not change.
type UpdateUserRequest struct {
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required"`
	Address   *string `json:"address" binding:"omitempty"`
}

type AuthenticateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	TokenName string `json:"token_name" binding:"required"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
