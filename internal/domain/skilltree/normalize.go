package skilltree

import "strings"

// NormalizeReport counts what Normalize had to throw away.
type NormalizeReport struct {
	DroppedNodes       int
	DroppedConnections int
}

func (r NormalizeReport) Clean() bool {
	return r.DroppedNodes == 0 && r.DroppedConnections == 0
}

// Normalize dedupes an untrusted graph structurally: nodes by id,
// connections by (from, to), first occurrence wins. Nodes with an empty
// id and connections with an empty endpoint are dropped outright. It
// performs no prerequisite validation; that is the resolver's job.
//
// Normalize never returns nil slices and is idempotent: normalizing an
// already-normalized graph drops nothing.
func Normalize(g SkillGraph) (SkillGraph, NormalizeReport) {
	var report NormalizeReport

	out := SkillGraph{
		Nodes:       make([]SkillNode, 0, len(g.Nodes)),
		Connections: make([]Connection, 0, len(g.Connections)),
	}

	seenNodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		n.ID = strings.TrimSpace(n.ID)
		if n.ID == "" {
			report.DroppedNodes++
			continue
		}
		if _, ok := seenNodes[n.ID]; ok {
			report.DroppedNodes++
			continue
		}
		seenNodes[n.ID] = struct{}{}
		if n.Prerequisites == nil {
			n.Prerequisites = []string{}
		}
		out.Nodes = append(out.Nodes, n)
	}

	seenConns := make(map[string]struct{}, len(g.Connections))
	for _, c := range g.Connections {
		c.From = strings.TrimSpace(c.From)
		c.To = strings.TrimSpace(c.To)
		if c.From == "" || c.To == "" {
			report.DroppedConnections++
			continue
		}
		key := c.From + "->" + c.To
		if _, ok := seenConns[key]; ok {
			report.DroppedConnections++
			continue
		}
		seenConns[key] = struct{}{}
		out.Connections = append(out.Connections, c)
	}

	return out, report
}
