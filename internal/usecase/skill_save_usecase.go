package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/domain/user"
	"skill-atlas/internal/repository"
	"skill-atlas/internal/ws"
)

type SaveSkillsInput struct {
	UserID uuid.UUID
	Graph  skilltree.SkillGraph
}

type SaveSkillsResult struct {
	EarnedSkills    []string
	AvailableSkills []string
	SkillPoints     int

	// Merged reports whether this save was folded into the global tree.
	// A save below the growth gate still persists the user document.
	Merged     bool
	MergeStats *skilltree.MergeStats
	Dropped    skilltree.NormalizeReport
}

type SkillSaveUsecase interface {
	SaveSkills(ctx context.Context, in SaveSkillsInput) (SaveSkillsResult, error)
}

type SkillSave struct {
	users  user.Repository
	trees  repository.GlobalTreeRepository
	cache  TreeCache
	logger *log.Logger

	growthThreshold float64
}

func NewSkillSaveUsecase(users user.Repository, trees repository.GlobalTreeRepository, cache TreeCache, growthThreshold float64, logger *log.Logger) *SkillSave {
	return &SkillSave{
		users:           users,
		trees:           trees,
		cache:           cache,
		logger:          logger,
		growthThreshold: growthThreshold,
	}
}

func (u *SkillSave) SaveSkills(ctx context.Context, in SaveSkillsInput) (SaveSkillsResult, error) {
	if len(in.Graph.Nodes) == 0 {
		return SaveSkillsResult{}, ErrInvalidInput
	}

	graph, dropped := skilltree.Normalize(in.Graph)
	if len(graph.Nodes) == 0 {
		return SaveSkillsResult{}, ErrInvalidInput
	}
	if !dropped.Clean() && u.logger != nil {
		u.logger.Printf("[Skills] normalized graph | user_id=%s dropped_nodes=%d dropped_connections=%d",
			in.UserID, dropped.DroppedNodes, dropped.DroppedConnections)
	}

	usr, err := u.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return SaveSkillsResult{}, ErrNotFound
		}
		return SaveSkillsResult{}, ErrInternal
	}

	prevCount := usr.Skills.NodeCount()

	earned, available := partitionSkillIDs(graph)
	points := skillPoints(len(earned), len(available))

	skills := user.Skills{
		EarnedSkills:    earned,
		AvailableSkills: available,
		SkillTree:       &graph,
	}
	if err := u.users.UpdateSkills(ctx, in.UserID, skills, points); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return SaveSkillsResult{}, ErrNotFound
		}
		return SaveSkillsResult{}, ErrInternal
	}

	res := SaveSkillsResult{
		EarnedSkills:    earned,
		AvailableSkills: available,
		SkillPoints:     points,
		Dropped:         dropped,
	}

	if !shouldMerge(prevCount, len(graph.Nodes), u.growthThreshold) {
		if u.logger != nil {
			u.logger.Printf("[Skills] merge skipped | user_id=%s prev_nodes=%d new_nodes=%d", in.UserID, prevCount, len(graph.Nodes))
		}
		return res, nil
	}

	stats, err := u.mergeIntoGlobalTree(ctx, graph)
	if err != nil {
		// The user document is already saved; the aggregate catches up
		// on the next merge or a rebuild.
		if u.logger != nil {
			u.logger.Printf("[Skills] global merge failed | user_id=%s error=%v", in.UserID, err)
		}
		return res, nil
	}

	res.Merged = true
	res.MergeStats = &stats

	u.invalidateTreeCaches(ctx)
	ws.NotifyTreeUpdated("merge")

	if u.logger != nil {
		u.logger.Printf("[Skills] merged into global tree | user_id=%s created=%d combined=%d skipped=%d",
			in.UserID, stats.NodesCreated, stats.NodesCombined, stats.SkillsSkipped)
	}
	return res, nil
}

// shouldMerge gates re-aggregation on node-count growth so re-uploading
// an unchanged resume does not inflate the population counters. Growth
// of at least the threshold merges, so the boundary itself qualifies.
func shouldMerge(prevCount, newCount int, threshold float64) bool {
	if prevCount == 0 {
		return true
	}
	return float64(newCount-prevCount) >= float64(prevCount)*threshold
}

func (u *SkillSave) mergeIntoGlobalTree(ctx context.Context, graph skilltree.SkillGraph) (skilltree.MergeStats, error) {
	tree, err := u.trees.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrTreeNotFound) {
			return skilltree.MergeStats{}, err
		}
		tree = skilltree.NewGlobalTree()
	}

	stats := skilltree.Merge(graph, tree, time.Now())
	if err := u.trees.Save(ctx, tree); err != nil {
		return stats, err
	}
	return stats, nil
}

func (u *SkillSave) invalidateTreeCaches(ctx context.Context) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, cacheKeyGlobalTree)
	_ = u.cache.DeleteByPattern(ctx, cachePatternUsersQuery)
}

func partitionSkillIDs(graph skilltree.SkillGraph) (earned []string, available []string) {
	earned = make([]string, 0, len(graph.Nodes))
	available = make([]string, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		if n.Earned {
			earned = append(earned, n.ID)
			continue
		}
		available = append(available, n.ID)
	}
	return earned, available
}

func skillPoints(earnedCount, availableCount int) int {
	return earnedCount*10 + availableCount*5
}
