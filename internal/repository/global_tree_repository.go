package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"skill-atlas/internal/database"
	"skill-atlas/internal/domain/skilltree"

	"github.com/jackc/pgx/v5"
)

var ErrTreeNotFound = errors.New("global tree not found")

// GlobalTreeRepository persists the singleton aggregate tree as one
// JSONB document row. Save replaces the whole document in a single
// statement, so a rebuild swap is atomic and a failed write leaves the
// previous tree untouched.
type GlobalTreeRepository interface {
	Get(ctx context.Context) (*skilltree.GlobalTree, error)
	Save(ctx context.Context, tree *skilltree.GlobalTree) error
}

type PostgresGlobalTreeRepository struct {
	db database.DB
}

func NewPostgresGlobalTreeRepository(db database.DB) *PostgresGlobalTreeRepository {
	return &PostgresGlobalTreeRepository{db: db}
}

func (r *PostgresGlobalTreeRepository) Get(ctx context.Context) (*skilltree.GlobalTree, error) {
	row := r.db.QueryRow(ctx, `SELECT doc FROM global_tree WHERE id = 1`)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreeNotFound
		}
		return nil, err
	}

	tree := skilltree.NewGlobalTree()
	if err := json.Unmarshal(raw, tree); err != nil {
		return nil, err
	}
	if tree.Nodes == nil {
		tree.Nodes = []skilltree.GlobalSkillNode{}
	}
	if tree.Connections == nil {
		tree.Connections = []skilltree.GlobalConnection{}
	}
	return tree, nil
}

func (r *PostgresGlobalTreeRepository) Save(ctx context.Context, tree *skilltree.GlobalTree) error {
	doc, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO global_tree (id, doc, updated_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		doc, time.Now().UTC(),
	)
	return err
}
