package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/user"
)

func TestUsersBySkill_FiltersOnEarned(t *testing.T) {
	hasGo := userWithGraph(simpleGraph("go", "docker"))
	noGo := userWithGraph(simpleGraph("react"))
	users := newMockUserRepo(hasGo, noGo)

	uc := NewUserQueryUsecase(users, newMockCache(), nil)

	out, err := uc.UsersBySkill(context.Background(), "go")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0].ID != hasGo.ID {
		t.Fatalf("expected only the go holder, got %+v", out)
	}
	if out[0].EarnedCount != 2 {
		t.Fatalf("unexpected summary: %+v", out[0])
	}
}

func TestUsersBySkill_BlankSkillID(t *testing.T) {
	uc := NewUserQueryUsecase(newMockUserRepo(), newMockCache(), nil)

	if _, err := uc.UsersBySkill(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUsersBySkill_ServesCachedResult(t *testing.T) {
	usr := userWithGraph(simpleGraph("go"))
	users := newMockUserRepo(usr)
	cache := newMockCache()
	uc := NewUserQueryUsecase(users, cache, nil)

	if _, err := uc.UsersBySkill(context.Background(), "go"); err != nil {
		t.Fatalf("first query: %v", err)
	}

	// A later repository failure must not surface while the cache holds
	// the result.
	users.listErr = errors.New("db down")
	out, err := uc.UsersBySkill(context.Background(), "go")
	if err != nil {
		t.Fatalf("cached query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected cached result, got %+v", out)
	}
}

func TestUsersWithSkills_OrdersBySkillPoints(t *testing.T) {
	low := userWithGraph(simpleGraph("go"))
	low.SkillPoints = 10
	high := userWithGraph(simpleGraph("go", "docker", "react"))
	high.SkillPoints = 30
	users := newMockUserRepo(low, high)

	uc := NewUserQueryUsecase(users, newMockCache(), nil)

	out, err := uc.UsersWithSkills(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected both users, got %+v", out)
	}
	if out[0].ID != high.ID || out[1].ID != low.ID {
		t.Fatalf("expected descending skill points, got %+v", out)
	}
}

func TestGetUserSkills_UnknownUser(t *testing.T) {
	uc := NewUserQueryUsecase(newMockUserRepo(), newMockCache(), nil)

	if _, _, err := uc.GetUserSkills(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserSkills_NoSkillsYieldsEmptySlices(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "a@b.c"}
	uc := NewUserQueryUsecase(newMockUserRepo(usr), newMockCache(), nil)

	skills, points, err := uc.GetUserSkills(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if points != 0 {
		t.Fatalf("expected zero points, got %d", points)
	}
	if skills.EarnedSkills == nil || skills.AvailableSkills == nil {
		t.Fatalf("skill slices must not be nil: %+v", skills)
	}
	if len(skills.EarnedSkills) != 0 || len(skills.AvailableSkills) != 0 {
		t.Fatalf("expected empty skills, got %+v", skills)
	}
}
