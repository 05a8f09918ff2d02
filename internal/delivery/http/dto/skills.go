package dto

import "skill-atlas/internal/domain/skilltree"

// SkillGraphPayload is the wire form of one user's skill tree.
type SkillGraphPayload struct {
	Nodes       []skilltree.SkillNode  `json:"nodes"`
	Connections []skilltree.Connection `json:"connections"`
}

type UserSkillsResponse struct {
	EarnedSkills    []string              `json:"earnedSkills"`
	AvailableSkills []string              `json:"availableSkills"`
	SkillPoints     int                   `json:"skillPoints"`
	SkillTree       *skilltree.SkillGraph `json:"skillTree,omitempty"`
}

type SaveSkillsResponse struct {
	EarnedSkills    []string `json:"earnedSkills"`
	AvailableSkills []string `json:"availableSkills"`
	SkillPoints     int      `json:"skillPoints"`
	Merged          bool     `json:"merged"`
}

type AnalyzeResumeResponse struct {
	EarnedSkills    []string              `json:"earnedSkills"`
	AvailableSkills []string              `json:"availableSkills"`
	SkillPoints     int                   `json:"skillPoints"`
	SkillTree       *skilltree.SkillGraph `json:"skillTree,omitempty"`
	Source          string                `json:"source"`
}
