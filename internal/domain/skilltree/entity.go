package skilltree

import (
	"strings"
	"time"
)

const (
	CategorySoftware = "software"
	CategoryHardware = "hardware"
	CategorySoft     = "soft"

	// FoundationCategory marks the synthesized root category nodes.
	FoundationCategory = "Category"
)

// FoundationIDs are the three reserved root ids a prerequisite may
// reference without appearing in the source graph.
var FoundationIDs = []string{"software", "hardware", "soft-skills"}

// SkillNode is one node of an individual, resume-derived graph. The
// proposer output is untrusted, so every field may be missing or wrong
// until the graph has passed Normalize.
type SkillNode struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Earned        bool     `json:"earned"`
	Mastered      bool     `json:"mastered,omitempty"`
	Prerequisites []string `json:"prerequisites"`
	Description   string   `json:"description,omitempty"`
}

// Connection is a directed prerequisite edge: From is a prerequisite of To.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SkillGraph is one user's skill tree as stored on the user record.
type SkillGraph struct {
	Nodes       []SkillNode  `json:"nodes"`
	Connections []Connection `json:"connections"`
}

func (g SkillGraph) FindNode(id string) (SkillNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return SkillNode{}, false
}

// EarnedNodes returns the nodes the resume actually evidences, in input order.
func (g SkillGraph) EarnedNodes() []SkillNode {
	out := make([]SkillNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Earned {
			out = append(out, n)
		}
	}
	return out
}

// GlobalSkillNode is the shared, aggregated form of a skill across the
// whole user population.
type GlobalSkillNode struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites"`
	EarnedByCount int      `json:"earnedByCount"`
	TotalUsers    int      `json:"totalUserCount"`
}

// GlobalConnection counts how many individual graphs contained the edge.
type GlobalConnection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// GlobalTree is the singleton aggregate graph.
type GlobalTree struct {
	Nodes       []GlobalSkillNode  `json:"nodes"`
	Connections []GlobalConnection `json:"connections"`
	TotalUsers  int                `json:"totalUsers"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

func NewGlobalTree() *GlobalTree {
	return &GlobalTree{
		Nodes:       []GlobalSkillNode{},
		Connections: []GlobalConnection{},
	}
}

func (t *GlobalTree) FindNode(id string) *GlobalSkillNode {
	if t == nil {
		return nil
	}
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i]
		}
	}
	return nil
}

func (t *GlobalTree) FindConnection(from, to string) *GlobalConnection {
	if t == nil {
		return nil
	}
	for i := range t.Connections {
		if t.Connections[i].From == from && t.Connections[i].To == to {
			return &t.Connections[i]
		}
	}
	return nil
}

func IsFoundationID(id string) bool {
	for _, f := range FoundationIDs {
		if id == f {
			return true
		}
	}
	return false
}

// FoundationName derives the display name of a synthesized root node
// from its id: first letter upper-cased, first hyphen replaced with a
// space ("soft-skills" -> "Soft skills").
func FoundationName(id string) string {
	if id == "" {
		return ""
	}
	s := strings.Replace(id, "-", " ", 1)
	return strings.ToUpper(s[:1]) + s[1:]
}
