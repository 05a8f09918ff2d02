package skilltree

import "time"

// MergeStats reports what one merge pass did to the global tree.
type MergeStats struct {
	NodesCreated        int
	NodesCombined       int
	ConnectionsCreated  int
	ConnectionsCombined int
	SkillsSkipped       int
	BrokenChains        []string
	Cycles              []string
	SweptNodes          int
	SweptConnections    int
}

// Merge folds a normalized individual graph into the global tree in
// place. Only earned skills are admitted as nodes; the global tree
// represents what the population has demonstrated, not aspirational
// skills. Connections are folded for the whole graph since they are
// statistical, not structural.
//
// Merge is deliberately not idempotent: calling it twice with the same
// graph counts the user twice. The save usecase owns the "should this
// merge happen at all" gate.
func Merge(individual SkillGraph, tree *GlobalTree, now time.Time) MergeStats {
	var stats MergeStats

	// Prior corruption must not be amplified by the counter updates
	// below, so the tree is swept before anything is folded in.
	swept := Sweep(tree)
	stats.SweptNodes = swept.RemovedNodes
	stats.SweptConnections = swept.RemovedConnections

	resolver := NewChainResolver(individual, tree)
	for _, userNode := range individual.EarnedNodes() {
		if err := resolver.Ensure(userNode.ID); err != nil {
			stats.SkillsSkipped++
			if chainErr, ok := err.(*BrokenChainError); ok {
				stats.BrokenChains = append(stats.BrokenChains, chainErr.SkillID)
			}
			continue
		}

		if resolver.Inserted(userNode.ID) {
			// Freshly created by the resolver with this user's counts
			// already applied (1 earned / 1 total).
			stats.NodesCreated++
			continue
		}

		node := tree.FindNode(userNode.ID)
		if node == nil {
			// Cannot happen after a successful Ensure; counted rather
			// than trusted.
			stats.SkillsSkipped++
			continue
		}
		combineNode(node, userNode)
		stats.NodesCombined++
	}
	stats.Cycles = resolver.Cycles()

	for _, c := range individual.Connections {
		if existing := tree.FindConnection(c.From, c.To); existing != nil {
			existing.Count++
			stats.ConnectionsCombined++
			continue
		}
		tree.Connections = append(tree.Connections, GlobalConnection{From: c.From, To: c.To, Count: 1})
		stats.ConnectionsCreated++
	}

	tree.TotalUsers++
	tree.LastUpdated = now.UTC()

	return stats
}

// combineNode applies one more earned user to an existing global node:
// both counters move together because only earned skills reach this
// path, the longer description wins, and prerequisites are unioned
// preserving existing order.
func combineNode(node *GlobalSkillNode, userNode SkillNode) {
	node.TotalUsers++
	node.EarnedByCount++

	if len(userNode.Description) > len(node.Description) {
		node.Description = userNode.Description
	}

	for _, p := range userNode.Prerequisites {
		if !containsString(node.Prerequisites, p) {
			node.Prerequisites = append(node.Prerequisites, p)
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
