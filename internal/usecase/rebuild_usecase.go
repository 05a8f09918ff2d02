package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/domain/user"
	"skill-atlas/internal/repository"
	"skill-atlas/internal/ws"
)

var ErrRebuildInProgress = errors.New("rebuild already in progress")

type RebuildStats struct {
	UsersConsidered   int           `json:"usersConsidered"`
	UsersProcessed    int           `json:"usersProcessed"`
	SkillsProcessed   int           `json:"skillsProcessed"`
	ErrorsEncountered int           `json:"errorsEncountered"`
	FinalNodes        int           `json:"finalNodes"`
	FinalConnections  int           `json:"finalConnections"`
	Duration          time.Duration `json:"-"`
}

type RebuildUsecase interface {
	Rebuild(ctx context.Context) (RebuildStats, error)
}

// Rebuild reconstructs the global tree from scratch out of every stored
// user graph. The result replaces the persisted document in one write,
// so readers never observe a half-built tree.
type Rebuild struct {
	users  user.Repository
	trees  repository.GlobalTreeRepository
	cache  TreeCache
	logger *log.Logger
}

func NewRebuildUsecase(users user.Repository, trees repository.GlobalTreeRepository, cache TreeCache, logger *log.Logger) *Rebuild {
	return &Rebuild{users: users, trees: trees, cache: cache, logger: logger}
}

func (u *Rebuild) Rebuild(ctx context.Context) (RebuildStats, error) {
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, cacheKeyRebuildLock, "1", rebuildLockTTL)
		if err == nil && !ok {
			return RebuildStats{}, ErrRebuildInProgress
		}
		defer func() {
			_ = u.cache.Delete(context.Background(), cacheKeyRebuildLock)
		}()
	}

	start := time.Now()

	users, err := u.users.ListWithSkills(ctx)
	if err != nil {
		return RebuildStats{}, ErrInternal
	}

	stats := RebuildStats{}
	tree := skilltree.NewGlobalTree()

	for _, usr := range users {
		stats.UsersConsidered++
		if !usr.Skills.HasTree() {
			continue
		}

		ms := skilltree.Merge(*usr.Skills.SkillTree, tree, time.Now())
		stats.UsersProcessed++
		stats.SkillsProcessed += ms.NodesCreated + ms.NodesCombined
		stats.ErrorsEncountered += len(ms.BrokenChains) + len(ms.Cycles)

		if (len(ms.BrokenChains) > 0 || len(ms.Cycles) > 0) && u.logger != nil {
			u.logger.Printf("[Rebuild] anomalies in user graph | user_id=%s broken_chains=%d cycles=%d",
				usr.ID, len(ms.BrokenChains), len(ms.Cycles))
		}
	}

	if err := u.trees.Save(ctx, tree); err != nil {
		return stats, ErrInternal
	}

	stats.FinalNodes = len(tree.Nodes)
	stats.FinalConnections = len(tree.Connections)
	stats.Duration = time.Since(start)

	if u.cache != nil {
		_ = u.cache.Delete(ctx, cacheKeyGlobalTree)
		_ = u.cache.DeleteByPattern(ctx, cachePatternUsersQuery)
	}
	ws.NotifyTreeUpdated("rebuild")

	if u.logger != nil {
		u.logger.Printf("[Rebuild] done | users=%d/%d skills=%d nodes=%d connections=%d errors=%d duration=%s",
			stats.UsersProcessed, stats.UsersConsidered, stats.SkillsProcessed,
			stats.FinalNodes, stats.FinalConnections, stats.ErrorsEncountered, stats.Duration)
	}
	return stats, nil
}
