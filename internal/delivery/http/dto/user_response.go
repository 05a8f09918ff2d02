package dto

import (
	"time"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/user"
)

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SkillPoints int       `json:"skill_points"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		SkillPoints: u.SkillPoints,
		CreatedAt:   u.CreatedAt,
	}
}
