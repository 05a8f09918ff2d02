package resources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"skill-atlas/internal/repository"
)

// Source is one place learning material can be discovered for a skill.
type Source interface {
	Name() string
	Discover(ctx context.Context, skillID string) ([]repository.LearningResource, error)
}

// staleAfter bounds how long a stored resource list is served before a
// read triggers rediscovery.
const staleAfter = 7 * 24 * time.Hour

type RefreshReport struct {
	SkillsRequested int `json:"skillsRequested"`
	SkillsRefreshed int `json:"skillsRefreshed"`
	ResourcesFound  int `json:"resourcesFound"`
	Errors          int `json:"errors"`
}

type Service struct {
	repo    repository.SkillResourceRepository
	sources []Source
	logger  *log.Logger
	workers int
}

func NewService(repo repository.SkillResourceRepository, sources []Source, workers int, logger *log.Logger) *Service {
	if workers <= 0 {
		workers = 4
	}
	return &Service{repo: repo, sources: sources, logger: logger, workers: workers}
}

// Get serves the stored resource list, discovering on demand when the
// skill was never fetched or the stored list has gone stale.
func (s *Service) Get(ctx context.Context, skillID string) ([]repository.LearningResource, error) {
	items, fetchedAt, err := s.repo.GetResources(ctx, skillID)
	if err == nil && time.Since(fetchedAt) < staleAfter {
		return items, nil
	}
	if err != nil && !errors.Is(err, repository.ErrResourcesNotFound) {
		return nil, err
	}

	fresh, derr := s.discover(ctx, skillID)
	if derr != nil {
		// Stale beats empty when every source fails.
		if err == nil {
			return items, nil
		}
		return nil, derr
	}

	if uerr := s.repo.UpsertResources(ctx, skillID, fresh); uerr != nil && s.logger != nil {
		s.logger.Printf("[Resources] persist failed | skill_id=%s error=%v", skillID, uerr)
	}
	return fresh, nil
}

// Refresh rediscovers resources for the given skills concurrently.
func (s *Service) Refresh(ctx context.Context, skillIDs []string) (RefreshReport, error) {
	report := RefreshReport{SkillsRequested: len(skillIDs)}
	if len(skillIDs) == 0 {
		return report, nil
	}

	var mu sync.Mutex

	pool := newWorkerPool(s.workers, 4)
	results := pool.Run(ctx)

	for _, id := range skillIDs {
		id := id
		pool.Submit(func(ctx context.Context) error {
			items, err := s.discover(ctx, id)
			if err != nil {
				return fmt.Errorf("skill %s: %w", id, err)
			}
			if err := s.repo.UpsertResources(ctx, id, items); err != nil {
				return fmt.Errorf("skill %s: %w", id, err)
			}
			mu.Lock()
			report.SkillsRefreshed++
			report.ResourcesFound += len(items)
			mu.Unlock()
			return nil
		})
	}
	pool.Close()

	for res := range results {
		if res.Err != nil {
			report.Errors++
			if s.logger != nil {
				s.logger.Printf("[Resources] refresh error | error=%v", res.Err)
			}
		}
	}
	return report, nil
}

// discover queries every source; one failing source does not discard
// the others' findings unless all of them fail.
func (s *Service) discover(ctx context.Context, skillID string) ([]repository.LearningResource, error) {
	items := make([]repository.LearningResource, 0)
	var lastErr error
	failed := 0

	for _, src := range s.sources {
		found, err := src.Discover(ctx, skillID)
		if err != nil {
			failed++
			lastErr = err
			if s.logger != nil {
				s.logger.Printf("[Resources] source failed | source=%s skill_id=%s error=%v", src.Name(), skillID, err)
			}
			continue
		}
		items = append(items, found...)
	}

	if len(s.sources) > 0 && failed == len(s.sources) {
		return nil, lastErr
	}
	return items, nil
}
