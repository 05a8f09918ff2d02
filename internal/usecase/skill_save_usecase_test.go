package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/domain/user"
)

func simpleGraph(ids ...string) skilltree.SkillGraph {
	g := skilltree.SkillGraph{
		Nodes:       []skilltree.SkillNode{},
		Connections: []skilltree.Connection{},
	}
	for _, id := range ids {
		g.Nodes = append(g.Nodes, skilltree.SkillNode{
			ID: id, Name: id, Category: skilltree.CategorySoftware, Earned: true,
		})
	}
	return g
}

func TestSkillSave_EmptyGraph(t *testing.T) {
	uc := NewSkillSaveUsecase(newMockUserRepo(), &mockTreeRepo{}, newMockCache(), 0.2, nil)

	_, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: uuid.New()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSkillSave_UnknownUser(t *testing.T) {
	uc := NewSkillSaveUsecase(newMockUserRepo(), &mockTreeRepo{}, newMockCache(), 0.2, nil)

	_, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: uuid.New(), Graph: simpleGraph("go")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSkillSave_FirstSaveMerges(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "a@b.c"}
	users := newMockUserRepo(usr)
	trees := &mockTreeRepo{}
	uc := NewSkillSaveUsecase(users, trees, newMockCache(), 0.2, nil)

	res, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: simpleGraph("go", "docker")})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Merged {
		t.Fatalf("expected first save to merge")
	}
	if res.SkillPoints != 20 {
		t.Fatalf("expected 20 skill points, got %d", res.SkillPoints)
	}
	if trees.tree == nil || len(trees.tree.Nodes) != 2 {
		t.Fatalf("expected global tree with 2 nodes")
	}

	saved, _ := users.GetUserByID(context.Background(), usr.ID)
	if saved.Skills == nil || len(saved.Skills.EarnedSkills) != 2 {
		t.Fatalf("expected user skills persisted")
	}
}

func TestSkillSave_ResubmitBelowGrowthGateSkipsMerge(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "a@b.c"}
	users := newMockUserRepo(usr)
	trees := &mockTreeRepo{}
	uc := NewSkillSaveUsecase(users, trees, newMockCache(), 0.2, nil)

	g := simpleGraph("go", "docker", "kubernetes")
	if _, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: g}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	before := trees.tree.TotalUsers

	res, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: g})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if res.Merged {
		t.Fatalf("identical resubmit must not merge")
	}
	if trees.tree.TotalUsers != before {
		t.Fatalf("counters changed on skipped merge: %d -> %d", before, trees.tree.TotalUsers)
	}
}

func TestSkillSave_GrowthGateBoundary(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "a@b.c"}
	users := newMockUserRepo(usr)
	trees := &mockTreeRepo{}
	uc := NewSkillSaveUsecase(users, trees, newMockCache(), 0.2, nil)

	ids := func(n int) []string {
		out := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, fmt.Sprintf("skill-%02d", i))
		}
		return out
	}

	if _, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: simpleGraph(ids(10)...)}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// 10 -> 12 is exactly 20% growth; the boundary itself merges.
	res, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: simpleGraph(ids(12)...)})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if !res.Merged {
		t.Fatalf("growth of exactly the threshold must merge")
	}

	// 12 -> 14 is under the gate.
	res, err = uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: simpleGraph(ids(14)...)})
	if err != nil {
		t.Fatalf("third save: %v", err)
	}
	if res.Merged {
		t.Fatalf("growth under the threshold must not merge")
	}
}

func TestSkillSave_MergeFailureStillPersistsUser(t *testing.T) {
	usr := user.User{ID: uuid.New(), Email: "a@b.c"}
	users := newMockUserRepo(usr)
	trees := &mockTreeRepo{saveErr: errors.New("db down")}
	uc := NewSkillSaveUsecase(users, trees, newMockCache(), 0.2, nil)

	res, err := uc.SaveSkills(context.Background(), SaveSkillsInput{UserID: usr.ID, Graph: simpleGraph("go")})
	if err != nil {
		t.Fatalf("save must not fail on merge error: %v", err)
	}
	if res.Merged {
		t.Fatalf("merge must be reported as skipped")
	}

	saved, _ := users.GetUserByID(context.Background(), usr.ID)
	if saved.Skills == nil {
		t.Fatalf("user skills must be persisted before the merge step")
	}
}
