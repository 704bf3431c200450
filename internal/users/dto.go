package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
	"github.com/dhruvpatel3d/printquote-backend/pkg/enums"
)

// CreateUserDTO carries the fields needed to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         enums.UserRole
}

// ToModel maps the DTO onto the persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		FullName:     strings.TrimSpace(d.FullName),
		Role:         role,
		IsActive:     true,
	}
}

// UserDTO is the public representation returned by the API.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"fullName"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// FromModel maps a persisted user onto its public shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
