package skilltree

import "fmt"

// BrokenChainError reports a prerequisite id that resolves to nothing:
// not already in the target tree, not in the source graph, and not a
// reserved foundation id. The failed skill is skipped by callers; the
// id is kept for diagnosis.
type BrokenChainError struct {
	SkillID string
}

func (e *BrokenChainError) Error() string {
	return fmt.Sprintf("prerequisite chain broken: %s not found and not a foundation category", e.SkillID)
}

// ChainResolver admits skills into a global tree, guaranteeing that a
// node is only inserted after its entire transitive prerequisite
// closure exists in the tree. One resolver spans one merge pass: its
// insert journal records exactly which ids it created during that
// pass, which is how the merge engine tells "freshly created" from
// "existed before this user".
type ChainResolver struct {
	source   SkillGraph
	tree     *GlobalTree
	inserted map[string]struct{}
	cycles   []string
}

func NewChainResolver(source SkillGraph, tree *GlobalTree) *ChainResolver {
	return &ChainResolver{
		source:   source,
		tree:     tree,
		inserted: make(map[string]struct{}),
	}
}

// Ensure makes skillID and every transitive prerequisite exist in the
// tree. On a broken chain it returns *BrokenChainError and the tree is
// left without any partial insert for the failed subtree: a node is
// only appended after all of its prerequisites succeeded.
func (r *ChainResolver) Ensure(skillID string) error {
	return r.ensure(skillID, map[string]struct{}{})
}

// Inserted reports whether this resolver created the node during the
// current pass (as opposed to it existing before).
func (r *ChainResolver) Inserted(id string) bool {
	_, ok := r.inserted[id]
	return ok
}

// Cycles lists ids at which a circular prerequisite was cut. Cycles are
// anomalies to log, not errors: resume-derived graphs are never fully
// trustworthy and should degrade, not abort.
func (r *ChainResolver) Cycles() []string {
	return r.cycles
}

func (r *ChainResolver) ensure(skillID string, visited map[string]struct{}) error {
	if _, ok := visited[skillID]; ok {
		r.cycles = append(r.cycles, skillID)
		return nil
	}
	visited[skillID] = struct{}{}

	if r.tree.FindNode(skillID) != nil {
		return nil
	}

	src, ok := r.source.FindNode(skillID)
	if !ok {
		if IsFoundationID(skillID) {
			r.insert(GlobalSkillNode{
				ID:            skillID,
				Name:          FoundationName(skillID),
				Category:      FoundationCategory,
				Description:   skillID + " foundation category",
				Prerequisites: []string{},
				EarnedByCount: 0,
				TotalUsers:    1,
			})
			return nil
		}
		return &BrokenChainError{SkillID: skillID}
	}

	for _, prereqID := range src.Prerequisites {
		// Each branch gets its own copy of the visited set so that
		// sibling subtrees sharing a prerequisite don't suppress each
		// other; only a true back-edge counts as a cycle.
		if err := r.ensure(prereqID, copyVisited(visited)); err != nil {
			return err
		}
	}

	earnedBy := 0
	if src.Earned {
		earnedBy = 1
	}
	// Copied so a later prerequisite union on the tree node cannot
	// grow into the caller's source graph.
	prereqs := append([]string{}, src.Prerequisites...)
	r.insert(GlobalSkillNode{
		ID:            src.ID,
		Name:          src.Name,
		Category:      src.Category,
		Description:   src.Description,
		Prerequisites: prereqs,
		EarnedByCount: earnedBy,
		TotalUsers:    1,
	})
	return nil
}

func (r *ChainResolver) insert(n GlobalSkillNode) {
	r.tree.Nodes = append(r.tree.Nodes, n)
	r.inserted[n.ID] = struct{}{}
}

func copyVisited(visited map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(visited)+1)
	for k := range visited {
		out[k] = struct{}{}
	}
	return out
}
