package skilltree

import "testing"

func TestNormalize_DropsDuplicateNodes(t *testing.T) {
	g := SkillGraph{
		Nodes: []SkillNode{
			{ID: "python", Name: "Python", Earned: true},
			{ID: "python", Name: "Python (dup)"},
			{ID: "git", Name: "Git"},
		},
	}

	out, report := Normalize(g)
	if len(out.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(out.Nodes))
	}
	if report.DroppedNodes != 1 {
		t.Fatalf("expected 1 dropped node, got %d", report.DroppedNodes)
	}
	if out.Nodes[0].Name != "Python" {
		t.Fatalf("first occurrence should win, got %q", out.Nodes[0].Name)
	}
}

func TestNormalize_DropsDuplicateConnections(t *testing.T) {
	g := SkillGraph{
		Connections: []Connection{
			{From: "js", To: "react"},
			{From: "js", To: "react"},
			{From: "react", To: "js"},
		},
	}

	out, report := Normalize(g)
	if len(out.Connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(out.Connections))
	}
	if report.DroppedConnections != 1 {
		t.Fatalf("expected 1 dropped connection, got %d", report.DroppedConnections)
	}
}

func TestNormalize_DropsMalformedEntries(t *testing.T) {
	g := SkillGraph{
		Nodes:       []SkillNode{{ID: "  "}, {ID: "go", Name: "Go"}},
		Connections: []Connection{{From: "", To: "go"}, {From: "go", To: ""}},
	}

	out, report := Normalize(g)
	if len(out.Nodes) != 1 || len(out.Connections) != 0 {
		t.Fatalf("expected 1 node and 0 connections, got %d/%d", len(out.Nodes), len(out.Connections))
	}
	if report.DroppedNodes != 1 || report.DroppedConnections != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestNormalize_EmptyGraphYieldsEmptySlices(t *testing.T) {
	out, report := Normalize(SkillGraph{})
	if out.Nodes == nil || out.Connections == nil {
		t.Fatalf("normalized graph must never carry nil slices")
	}
	if !report.Clean() {
		t.Fatalf("empty graph should normalize cleanly, got %+v", report)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	g := SkillGraph{
		Nodes: []SkillNode{
			{ID: "js", Earned: true},
			{ID: "js"},
			{ID: "react", Prerequisites: []string{"js"}},
		},
		Connections: []Connection{
			{From: "js", To: "react"},
			{From: "js", To: "react"},
		},
	}

	once, _ := Normalize(g)
	twice, report := Normalize(once)

	if !report.Clean() {
		t.Fatalf("second pass should drop nothing, got %+v", report)
	}
	if len(twice.Nodes) != len(once.Nodes) || len(twice.Connections) != len(once.Connections) {
		t.Fatalf("second pass changed the graph")
	}
	for i := range once.Nodes {
		if twice.Nodes[i].ID != once.Nodes[i].ID {
			t.Fatalf("node order changed at %d", i)
		}
	}
}
