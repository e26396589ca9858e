package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// GetDisasterType returns an active catalog entry. Inactive or unknown IDs
// resolve to a not-found error.
func (s *Store) GetDisasterType(ctx context.Context, id int) (*domain.DisasterType, error) {
	var dt domain.DisasterType
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, active FROM disaster_types WHERE id = ? AND active = 1`, id,
	).Scan(&dt.ID, &dt.Name, &dt.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("disaster type %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get disaster type: %w", err)
	}
	return &dt, nil
}

// ListDisasterTypes returns the full catalog, active entries first.
func (s *Store) ListDisasterTypes(ctx context.Context) ([]domain.DisasterType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, active FROM disaster_types ORDER BY active DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list disaster types: %w", err)
	}
	defer rows.Close()

	var types []domain.DisasterType
	for rows.Next() {
		var dt domain.DisasterType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Active); err != nil {
			return nil, fmt.Errorf("scan disaster type row: %w", err)
		}
		types = append(types, dt)
	}
	return types, rows.Err()
}
