package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/user"
)

// UserSummary is the public slice of a user shown in skill-population
// listings.
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SkillPoints    int       `json:"skillPoints"`
	EarnedCount    int       `json:"earnedCount"`
	AvailableCount int       `json:"availableCount"`
}

type UserQueryUsecase interface {
	UsersBySkill(ctx context.Context, skillID string) ([]UserSummary, error)
	UsersWithSkills(ctx context.Context) ([]UserSummary, error)
	GetUserSkills(ctx context.Context, userID uuid.UUID) (user.Skills, int, error)
}

type UserQuery struct {
	users  user.Repository
	cache  TreeCache
	logger *log.Logger
}

func NewUserQueryUsecase(users user.Repository, cache TreeCache, logger *log.Logger) *UserQuery {
	return &UserQuery{users: users, cache: cache, logger: logger}
}

func (u *UserQuery) UsersBySkill(ctx context.Context, skillID string) ([]UserSummary, error) {
	skillID = strings.TrimSpace(skillID)
	if skillID == "" {
		return nil, ErrInvalidInput
	}

	key := usersBySkillCacheKey(skillID)
	if u.cache != nil {
		var cached []UserSummary
		if ok, _ := u.cache.GetJSON(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	all, err := u.users.ListWithSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]UserSummary, 0, len(all))
	for _, usr := range all {
		if usr.Skills.HasEarned(skillID) {
			out = append(out, summarize(usr))
		}
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, out, usersQueryCacheTTL)
	}
	return out, nil
}

func (u *UserQuery) UsersWithSkills(ctx context.Context) ([]UserSummary, error) {
	if u.cache != nil {
		var cached []UserSummary
		if ok, _ := u.cache.GetJSON(ctx, cacheKeyUsersWithSkills, &cached); ok {
			return cached, nil
		}
	}

	all, err := u.users.ListWithSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]UserSummary, 0, len(all))
	for _, usr := range all {
		if usr.Skills == nil {
			continue
		}
		out = append(out, summarize(usr))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SkillPoints > out[j].SkillPoints })

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKeyUsersWithSkills, out, usersQueryCacheTTL)
	}
	return out, nil
}

func (u *UserQuery) GetUserSkills(ctx context.Context, userID uuid.UUID) (user.Skills, int, error) {
	usr, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Skills{}, 0, ErrNotFound
		}
		return user.Skills{}, 0, ErrInternal
	}

	if usr.Skills == nil {
		return user.Skills{
			EarnedSkills:    []string{},
			AvailableSkills: []string{},
		}, 0, nil
	}

	skills := *usr.Skills
	if skills.EarnedSkills == nil {
		skills.EarnedSkills = []string{}
	}
	if skills.AvailableSkills == nil {
		skills.AvailableSkills = []string{}
	}
	return skills, usr.SkillPoints, nil
}

func summarize(usr user.User) UserSummary {
	s := UserSummary{
		ID:          usr.ID,
		Name:        usr.Name,
		Email:       usr.Email,
		SkillPoints: usr.SkillPoints,
	}
	if usr.Skills != nil {
		s.EarnedCount = len(usr.Skills.EarnedSkills)
		s.AvailableCount = len(usr.Skills.AvailableSkills)
	}
	return s
}
