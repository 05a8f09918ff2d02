package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"skill-atlas/internal/database"
	"skill-atlas/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	)
	return err
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, skills, skill_points, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, skills, skill_points, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	row := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) UpdateSkills(ctx context.Context, id uuid.UUID, skills user.Skills, skillPoints int) error {
	doc, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET skills = $2, skill_points = $3, updated_at = $4 WHERE id = $1`,
		id, doc, skillPoints, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListWithSkills(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, password_hash, skills, skill_points, created_at, updated_at
		 FROM users
		 WHERE skills IS NOT NULL
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUserFields(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row database.Row) (user.User, error) {
	u, err := scanUserFields(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func scanUserFields(s scanner) (user.User, error) {
	var (
		u         user.User
		skillsRaw []byte
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &skillsRaw, &u.SkillPoints, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return user.User{}, err
	}
	if len(skillsRaw) > 0 {
		var skills user.Skills
		if err := json.Unmarshal(skillsRaw, &skills); err == nil {
			u.Skills = &skills
		}
		// A corrupt skills blob degrades to "no skills yet" rather than
		// failing the whole read; rebuild repairs the aggregate side.
	}
	return u, nil
}
