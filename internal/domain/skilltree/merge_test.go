package skilltree

import (
	"testing"
	"time"
)

func firstUserGraph() SkillGraph {
	g := SkillGraph{
		Nodes: []SkillNode{
			{ID: "js", Name: "JavaScript", Category: CategorySoftware, Earned: true, Prerequisites: []string{"software"}},
			{ID: "react", Name: "React", Category: CategorySoftware, Earned: true, Prerequisites: []string{"js"}},
			{ID: "kubernetes", Name: "Kubernetes", Category: CategorySoftware, Earned: false, Prerequisites: []string{"js"}},
		},
		Connections: []Connection{
			{From: "software", To: "js"},
			{From: "js", To: "react"},
		},
	}
	normalized, _ := Normalize(g)
	return normalized
}

func TestMerge_FreshTree(t *testing.T) {
	tree := NewGlobalTree()
	stats := Merge(firstUserGraph(), tree, time.Now())

	for _, id := range []string{"software", "js", "react"} {
		if tree.FindNode(id) == nil {
			t.Fatalf("expected %s in tree", id)
		}
	}
	if tree.FindNode("kubernetes") != nil {
		t.Fatalf("unearned skills must not be merged")
	}
	if n := tree.FindNode("js"); n.EarnedByCount != 1 || n.TotalUsers != 1 {
		t.Fatalf("js counts: got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
	if n := tree.FindNode("react"); n.EarnedByCount != 1 {
		t.Fatalf("react earned count: got %d", n.EarnedByCount)
	}
	if n := tree.FindNode("software"); n.EarnedByCount != 0 || n.TotalUsers != 1 {
		t.Fatalf("foundation counts: got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
	if tree.TotalUsers != 1 {
		t.Fatalf("totalUsers: got %d", tree.TotalUsers)
	}
	if stats.NodesCreated != 2 {
		t.Fatalf("expected 2 created earned nodes, got %d", stats.NodesCreated)
	}
	if c := tree.FindConnection("js", "react"); c == nil || c.Count != 1 {
		t.Fatalf("expected js->react count 1")
	}
}

func TestMerge_SecondUserSharesOneSkill(t *testing.T) {
	tree := NewGlobalTree()
	Merge(firstUserGraph(), tree, time.Now())

	second, _ := Normalize(SkillGraph{
		Nodes: []SkillNode{
			{ID: "js", Name: "JavaScript", Category: CategorySoftware, Earned: true, Prerequisites: []string{"software"}},
		},
		Connections: []Connection{{From: "software", To: "js"}},
	})
	Merge(second, tree, time.Now())

	if n := tree.FindNode("js"); n.EarnedByCount != 2 || n.TotalUsers != 2 {
		t.Fatalf("js counts after second user: got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
	if n := tree.FindNode("react"); n.EarnedByCount != 1 || n.TotalUsers != 1 {
		t.Fatalf("react must be unchanged, got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
	if tree.TotalUsers != 2 {
		t.Fatalf("totalUsers: got %d", tree.TotalUsers)
	}
	if c := tree.FindConnection("software", "js"); c == nil || c.Count != 2 {
		t.Fatalf("shared connection should count 2")
	}
}

func TestMerge_BrokenChainSkipsOnlyThatSkill(t *testing.T) {
	g, _ := Normalize(SkillGraph{
		Nodes: []SkillNode{
			{ID: "git", Name: "Git", Earned: true},
			{ID: "k8s", Name: "Kubernetes", Earned: true, Prerequisites: []string{"nonexistent-skill"}},
		},
	})
	tree := NewGlobalTree()
	stats := Merge(g, tree, time.Now())

	if tree.FindNode("git") == nil {
		t.Fatalf("healthy skill must still be merged")
	}
	if tree.FindNode("k8s") != nil {
		t.Fatalf("broken skill must be skipped")
	}
	if stats.SkillsSkipped != 1 {
		t.Fatalf("expected 1 skipped skill, got %d", stats.SkillsSkipped)
	}
	if len(stats.BrokenChains) != 1 || stats.BrokenChains[0] != "nonexistent-skill" {
		t.Fatalf("broken chain must name the missing id, got %v", stats.BrokenChains)
	}
}

func TestMerge_CombinesDescriptionAndPrerequisites(t *testing.T) {
	tree := NewGlobalTree()
	first, _ := Normalize(SkillGraph{Nodes: []SkillNode{
		{ID: "go", Name: "Go", Earned: true, Description: "short"},
	}})
	Merge(first, tree, time.Now())

	second, _ := Normalize(SkillGraph{Nodes: []SkillNode{
		{ID: "base", Name: "Base", Earned: true},
		{ID: "go", Name: "Go", Earned: true, Description: "a much longer description", Prerequisites: []string{"base"}},
	}})
	Merge(second, tree, time.Now())

	n := tree.FindNode("go")
	if n.Description != "a much longer description" {
		t.Fatalf("longer description should win, got %q", n.Description)
	}
	if len(n.Prerequisites) != 1 || n.Prerequisites[0] != "base" {
		t.Fatalf("prerequisites should be unioned, got %v", n.Prerequisites)
	}
}

func TestMerge_SweepsCorruptedTreeFirst(t *testing.T) {
	tree := NewGlobalTree()
	tree.Nodes = append(tree.Nodes,
		GlobalSkillNode{ID: "js", EarnedByCount: 1, TotalUsers: 1},
		GlobalSkillNode{ID: "js", EarnedByCount: 9, TotalUsers: 9},
	)

	g, _ := Normalize(SkillGraph{Nodes: []SkillNode{{ID: "js", Earned: true}}})
	stats := Merge(g, tree, time.Now())

	if stats.SweptNodes != 1 {
		t.Fatalf("expected defensive sweep to remove 1 node, got %d", stats.SweptNodes)
	}
	n := tree.FindNode("js")
	if n.EarnedByCount != 2 || n.TotalUsers != 2 {
		t.Fatalf("first occurrence should survive and be incremented, got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
}

func TestMerge_CountConservation(t *testing.T) {
	tree := NewGlobalTree()
	graphs := []SkillGraph{
		{Nodes: []SkillNode{
			{ID: "js", Earned: true, Prerequisites: []string{"software"}},
			{ID: "ts", Earned: true, Prerequisites: []string{"js"}},
		}},
		{Nodes: []SkillNode{
			{ID: "js", Earned: true},
			{ID: "figma", Earned: true, Prerequisites: []string{"soft-skills"}},
		}},
		{Nodes: []SkillNode{{ID: "ts", Earned: true, Prerequisites: []string{"js"}}}},
	}

	for _, g := range graphs {
		normalized, _ := Normalize(g)
		Merge(normalized, tree, time.Now())
	}

	for _, n := range tree.Nodes {
		if n.EarnedByCount > n.TotalUsers {
			t.Fatalf("node %s violates earnedByCount <= totalUserCount: %d/%d", n.ID, n.EarnedByCount, n.TotalUsers)
		}
	}
	if tree.TotalUsers != 3 {
		t.Fatalf("totalUsers: got %d", tree.TotalUsers)
	}
}
