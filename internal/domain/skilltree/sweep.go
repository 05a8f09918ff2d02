package skilltree

// SweepReport counts duplicates removed by a consistency sweep.
type SweepReport struct {
	RemovedNodes       int
	RemovedConnections int
}

func (r SweepReport) Clean() bool {
	return r.RemovedNodes == 0 && r.RemovedConnections == 0
}

// Sweep removes duplicate node ids and duplicate (from, to) connection
// pairs from a persisted tree in place, first occurrence wins. It is
// O(n), idempotent, and cheap enough to run on every read path as well
// as standing alone as a repair operation.
func Sweep(tree *GlobalTree) SweepReport {
	var report SweepReport
	if tree == nil {
		return report
	}

	seenNodes := make(map[string]struct{}, len(tree.Nodes))
	nodes := tree.Nodes[:0]
	for _, n := range tree.Nodes {
		if _, ok := seenNodes[n.ID]; ok {
			report.RemovedNodes++
			continue
		}
		seenNodes[n.ID] = struct{}{}
		nodes = append(nodes, n)
	}
	tree.Nodes = nodes

	seenConns := make(map[string]struct{}, len(tree.Connections))
	conns := tree.Connections[:0]
	for _, c := range tree.Connections {
		key := c.From + "->" + c.To
		if _, ok := seenConns[key]; ok {
			report.RemovedConnections++
			continue
		}
		seenConns[key] = struct{}{}
		conns = append(conns, c)
	}
	tree.Connections = conns

	return report
}
