package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"skill-atlas/internal/database"

	"github.com/jackc/pgx/v5"
)

var ErrResourcesNotFound = errors.New("no resources for skill")

// LearningResource is one discovered study pointer for a skill.
type LearningResource struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

type SkillResourceRepository interface {
	UpsertResources(ctx context.Context, skillID string, items []LearningResource) error
	GetResources(ctx context.Context, skillID string) ([]LearningResource, time.Time, error)
}

type PostgresSkillResourceRepository struct {
	db database.DB
}

func NewPostgresSkillResourceRepository(db database.DB) *PostgresSkillResourceRepository {
	return &PostgresSkillResourceRepository{db: db}
}

func (r *PostgresSkillResourceRepository) UpsertResources(ctx context.Context, skillID string, items []LearningResource) error {
	if items == nil {
		items = []LearningResource{}
	}
	doc, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO skill_resources (skill_id, resources, fetched_at) VALUES ($1, $2, $3)
		 ON CONFLICT (skill_id) DO UPDATE SET resources = EXCLUDED.resources, fetched_at = EXCLUDED.fetched_at`,
		skillID, doc, time.Now().UTC(),
	)
	return err
}

func (r *PostgresSkillResourceRepository) GetResources(ctx context.Context, skillID string) ([]LearningResource, time.Time, error) {
	row := r.db.QueryRow(ctx,
		`SELECT resources, fetched_at FROM skill_resources WHERE skill_id = $1`, skillID)

	var (
		raw       []byte
		fetchedAt time.Time
	)
	if err := row.Scan(&raw, &fetchedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, ErrResourcesNotFound
		}
		return nil, time.Time{}, err
	}

	items := make([]LearningResource, 0)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, time.Time{}, err
		}
	}
	return items, fetchedAt, nil
}
