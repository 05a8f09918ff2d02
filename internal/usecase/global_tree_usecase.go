package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/repository"
	"skill-atlas/internal/ws"
)

// GlobalTreeNodeView is a GlobalSkillNode decorated with the population
// stats readers expect inline in the description.
type GlobalTreeNodeView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Prerequisites  []string `json:"prerequisites"`
	EarnedByCount  int      `json:"earnedByCount"`
	TotalUserCount int      `json:"totalUserCount"`
}

type GlobalTreeView struct {
	Nodes       []GlobalTreeNodeView         `json:"nodes"`
	Connections []skilltree.GlobalConnection `json:"connections"`
	TotalUsers  int                          `json:"totalUsers"`
	LastUpdated time.Time                    `json:"lastUpdated"`
}

type CleanupResult struct {
	RemovedNodes       int `json:"removedNodes"`
	RemovedConnections int `json:"removedConnections"`
	Nodes              int `json:"nodes"`
	Connections        int `json:"connections"`
}

type GlobalTreeUsecase interface {
	GetGlobalTree(ctx context.Context) (GlobalTreeView, error)
	Cleanup(ctx context.Context) (CleanupResult, error)
}

type GlobalTree struct {
	trees  repository.GlobalTreeRepository
	cache  TreeCache
	logger *log.Logger
}

func NewGlobalTreeUsecase(trees repository.GlobalTreeRepository, cache TreeCache, logger *log.Logger) *GlobalTree {
	return &GlobalTree{trees: trees, cache: cache, logger: logger}
}

func (u *GlobalTree) GetGlobalTree(ctx context.Context) (GlobalTreeView, error) {
	if u.cache != nil {
		var cached GlobalTreeView
		if ok, _ := u.cache.GetJSON(ctx, cacheKeyGlobalTree, &cached); ok {
			return cached, nil
		}
	}

	tree, err := u.trees.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrTreeNotFound) {
			return GlobalTreeView{}, ErrInternal
		}
		tree = skilltree.NewGlobalTree()
	}

	// Duplicates in the stored document never reach readers. A dirty
	// document is repaired in place, best effort.
	if rep := skilltree.Sweep(tree); !rep.Clean() {
		if u.logger != nil {
			u.logger.Printf("[Tree] sweep on read | removed_nodes=%d removed_connections=%d", rep.RemovedNodes, rep.RemovedConnections)
		}
		if err := u.trees.Save(ctx, tree); err != nil && u.logger != nil {
			u.logger.Printf("[Tree] persist swept tree failed | error=%v", err)
		}
	}

	view := buildTreeView(tree)
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKeyGlobalTree, view, treeCacheTTL)
	}
	return view, nil
}

func (u *GlobalTree) Cleanup(ctx context.Context) (CleanupResult, error) {
	tree, err := u.trees.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrTreeNotFound) {
			return CleanupResult{}, nil
		}
		return CleanupResult{}, ErrInternal
	}

	rep := skilltree.Sweep(tree)
	res := CleanupResult{
		RemovedNodes:       rep.RemovedNodes,
		RemovedConnections: rep.RemovedConnections,
		Nodes:              len(tree.Nodes),
		Connections:        len(tree.Connections),
	}
	if rep.Clean() {
		return res, nil
	}

	if err := u.trees.Save(ctx, tree); err != nil {
		return res, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.Delete(ctx, cacheKeyGlobalTree)
	}
	ws.NotifyTreeUpdated("cleanup")

	if u.logger != nil {
		u.logger.Printf("[Tree] cleanup | removed_nodes=%d removed_connections=%d", rep.RemovedNodes, rep.RemovedConnections)
	}
	return res, nil
}

func buildTreeView(tree *skilltree.GlobalTree) GlobalTreeView {
	nodes := make([]GlobalTreeNodeView, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		nodes = append(nodes, GlobalTreeNodeView{
			ID:             n.ID,
			Name:           n.Name,
			Category:       n.Category,
			Description:    decorateDescription(n),
			Prerequisites:  n.Prerequisites,
			EarnedByCount:  n.EarnedByCount,
			TotalUserCount: n.TotalUsers,
		})
	}

	connections := tree.Connections
	if connections == nil {
		connections = []skilltree.GlobalConnection{}
	}

	return GlobalTreeView{
		Nodes:       nodes,
		Connections: connections,
		TotalUsers:  tree.TotalUsers,
		LastUpdated: tree.LastUpdated,
	}
}

func decorateDescription(n skilltree.GlobalSkillNode) string {
	rate := 0
	if n.TotalUsers > 0 {
		rate = int(math.Round(float64(n.EarnedByCount) / float64(n.TotalUsers) * 100))
	}
	return fmt.Sprintf("%s • %d users • %d earned (%d%% mastery rate)",
		n.Description, n.TotalUsers, n.EarnedByCount, rate)
}
