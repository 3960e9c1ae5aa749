package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmeindl/umlage/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMapping returns the learned cost category whose pattern matches
// the purpose text. Longer patterns win over shorter ones so that
// "treppenhausreinigung" beats a generic "reinigung" mapping.
func (s *Store) FindMapping(ctx context.Context, purpose string) (category.Type, error) {
	query := `
		SELECT cost_type
		FROM purpose_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var costType category.Type

	err := s.db.QueryRowContext(ctx, query, purpose).Scan(&costType)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", fmt.Errorf("finding purpose mapping: %w", err)
	}

	return costType, nil
}

func (s *Store) CreateMapping(ctx context.Context, pattern string, costType category.Type) error {
	query := `
		INSERT INTO purpose_mappings (raw_pattern, cost_type, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, pattern, costType)
	if err != nil {
		return fmt.Errorf("creating purpose mapping: %w", err)
	}

	return nil
}
