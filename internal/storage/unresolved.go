package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrNoFields = errors.New("no fields to record")

// UnresolvedStorage - лог связей, которые после починки остались заглушками.
type UnresolvedStorage interface {
	// Record пишет по строке на каждое поле.
	Record(ctx context.Context, entity string, entityID int64, fields []string) error
	// Summary считает записи по (entity, field).
	Summary(ctx context.Context) ([]UnresolvedCount, error)
}

type UnresolvedCount struct {
	Entity string `json:"entity"`
	Field  string `json:"field"`
	Count  int64  `json:"count"`
}

type unresolvedRepository struct {
	db *sql.DB
}

func NewUnresolvedRepository(db *sql.DB) UnresolvedStorage {
	return &unresolvedRepository{db: db}
}

func (r *unresolvedRepository) Record(ctx context.Context, entity string, entityID int64, fields []string) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	query := `INSERT INTO unresolved_relations (entity, entity_id, field, created_at)
	          SELECT $1, $2, f, NOW() FROM unnest($3::text[]) AS f`
	if _, err := r.db.ExecContext(ctx, query, entity, entityID, pq.Array(fields)); err != nil {
		return fmt.Errorf("failed to record unresolved relations: %w", err)
	}
	return nil
}

func (r *unresolvedRepository) Summary(ctx context.Context) ([]UnresolvedCount, error) {
	query := `
		SELECT entity, field, COUNT(*)
		FROM unresolved_relations
		GROUP BY entity, field
		ORDER BY COUNT(*) DESC, entity, field`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved summary: %w", err)
	}
	defer rows.Close()

	out := make([]UnresolvedCount, 0)
	for rows.Next() {
		var c UnresolvedCount
		if err := rows.Scan(&c.Entity, &c.Field, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan unresolved summary: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
