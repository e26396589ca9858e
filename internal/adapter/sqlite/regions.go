package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// CreateRegion inserts a region and its ordered monitored disaster types.
// The assigned ID and creation time are written back into r.
func (s *Store) CreateRegion(ctx context.Context, r *domain.Region) error {
	if err := validateRegion(r); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create region: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO regions (name, latitude, longitude, created_at) VALUES (?, ?, ?, ?)`,
		r.Name, r.Latitude, r.Longitude, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert region: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("region id: %w", err)
	}
	r.ID = int(id)

	if err := replaceMonitoredTypes(ctx, tx, r.ID, r.MonitoredTypes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create region: %w", err)
	}
	return nil
}

// GetRegion returns a region with its monitored types in insertion order.
func (s *Store) GetRegion(ctx context.Context, id int) (*domain.Region, error) {
	var r domain.Region
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM regions WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Latitude, &r.Longitude, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("region %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get region: %w", err)
	}

	types, err := s.monitoredTypes(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.MonitoredTypes = types
	return &r, nil
}

// ListRegions returns all regions ordered by ID.
func (s *Store) ListRegions(ctx context.Context) ([]domain.Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude, created_at FROM regions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []domain.Region
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Latitude, &r.Longitude, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan region row: %w", err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range regions {
		types, err := s.monitoredTypes(ctx, regions[i].ID)
		if err != nil {
			return nil, err
		}
		regions[i].MonitoredTypes = types
	}
	return regions, nil
}

// UpdateRegion replaces a region's fields and its monitored-type list.
func (s *Store) UpdateRegion(ctx context.Context, r *domain.Region) error {
	if err := validateRegion(r); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update region: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE regions SET name = ?, latitude = ?, longitude = ? WHERE id = ?`,
		r.Name, r.Latitude, r.Longitude, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update region: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("region %d", r.ID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM region_disaster_types WHERE region_id = ?`, r.ID); err != nil {
		return fmt.Errorf("clear monitored types: %w", err)
	}
	if err := replaceMonitoredTypes(ctx, tx, r.ID, r.MonitoredTypes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update region: %w", err)
	}
	return nil
}

// DeleteRegion removes a region; settings, alerts, and recipients cascade.
func (s *Store) DeleteRegion(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("region %d", id)
	}
	return nil
}

func (s *Store) monitoredTypes(ctx context.Context, regionID int) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT disaster_type_id FROM region_disaster_types WHERE region_id = ? ORDER BY position`,
		regionID,
	)
	if err != nil {
		return nil, fmt.Errorf("monitored types: %w", err)
	}
	defer rows.Close()

	var types []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan monitored type: %w", err)
		}
		types = append(types, id)
	}
	return types, rows.Err()
}

func replaceMonitoredTypes(ctx context.Context, tx *sql.Tx, regionID int, typeIDs []int) error {
	for pos, typeID := range typeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO region_disaster_types (region_id, disaster_type_id, position) VALUES (?, ?, ?)`,
			regionID, typeID, pos,
		); err != nil {
			return fmt.Errorf("insert monitored type %d: %w", typeID, err)
		}
	}
	return nil
}

func validateRegion(r *domain.Region) error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.Validationf("region name is required")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return domain.Validationf("latitude %v out of range", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return domain.Validationf("longitude %v out of range", r.Longitude)
	}
	return nil
}
