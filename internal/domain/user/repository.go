package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateSkills persists the skills document and skill points for a
	// user, preserving everything else on the record.
	UpdateSkills(ctx context.Context, id uuid.UUID, skills Skills, skillPoints int) error

	// ListWithSkills returns every user carrying a skills document
	// (stored graph or non-empty earned list).
	ListWithSkills(ctx context.Context) ([]User, error)
}
