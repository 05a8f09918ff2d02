package skilltree

import (
	"testing"
)

func TestSweep_RemovesDuplicates(t *testing.T) {
	tree := NewGlobalTree()
	tree.Nodes = []GlobalSkillNode{
		{ID: "js", EarnedByCount: 2, TotalUsers: 3},
		{ID: "react", EarnedByCount: 1, TotalUsers: 1},
		{ID: "js", EarnedByCount: 9, TotalUsers: 9},
	}
	tree.Connections = []GlobalConnection{
		{From: "js", To: "react", Count: 2},
		{From: "js", To: "react", Count: 7},
		{From: "react", To: "nextjs", Count: 1},
	}

	report := Sweep(tree)

	if report.RemovedNodes != 1 || report.RemovedConnections != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(tree.Nodes) != 2 || len(tree.Connections) != 2 {
		t.Fatalf("unexpected sizes %d/%d", len(tree.Nodes), len(tree.Connections))
	}
	if n := tree.FindNode("js"); n.EarnedByCount != 2 || n.TotalUsers != 3 {
		t.Fatalf("first occurrence must win, got %d/%d", n.EarnedByCount, n.TotalUsers)
	}
	if c := tree.FindConnection("js", "react"); c.Count != 2 {
		t.Fatalf("first occurrence must win, got count %d", c.Count)
	}
}

func TestSweep_Idempotent(t *testing.T) {
	tree := NewGlobalTree()
	tree.Nodes = []GlobalSkillNode{{ID: "a"}, {ID: "a"}, {ID: "b"}}

	first := Sweep(tree)
	second := Sweep(tree)

	if first.RemovedNodes != 1 {
		t.Fatalf("first sweep should remove 1, got %d", first.RemovedNodes)
	}
	if !second.Clean() {
		t.Fatalf("second sweep should be a no-op, got %+v", second)
	}
}

func TestSweep_NilTree(t *testing.T) {
	if report := Sweep(nil); !report.Clean() {
		t.Fatalf("nil tree should report clean, got %+v", report)
	}
}
