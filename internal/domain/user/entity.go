package user

import (
	"time"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/skilltree"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Skills       *Skills
	SkillPoints  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Skills is the per-user skills document persisted verbatim against the
// user record. SkillTree holds the full resume-derived graph; the id
// lists are denormalized convenience views of it.
type Skills struct {
	EarnedSkills    []string              `json:"earnedSkills"`
	AvailableSkills []string              `json:"availableSkills"`
	SkillTree       *skilltree.SkillGraph `json:"skillTree,omitempty"`
}

func (s *Skills) HasTree() bool {
	return s != nil && s.SkillTree != nil && len(s.SkillTree.Nodes) > 0
}

// NodeCount is the size of the stored graph, the quantity the merge
// growth gate compares against.
func (s *Skills) NodeCount() int {
	if s == nil || s.SkillTree == nil {
		return 0
	}
	return len(s.SkillTree.Nodes)
}

// HasEarned reports whether the stored document evidences the skill,
// either in the earned id list or as an earned node of the graph.
func (s *Skills) HasEarned(skillID string) bool {
	if s == nil {
		return false
	}
	for _, id := range s.EarnedSkills {
		if id == skillID {
			return true
		}
	}
	if s.SkillTree == nil {
		return false
	}
	for _, n := range s.SkillTree.Nodes {
		if n.ID == skillID && n.Earned {
			return true
		}
	}
	return false
}
