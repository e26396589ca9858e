package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// UpsertAlertSetting creates or replaces the threshold for a
// (region, disaster type) pair. The pair is unique; a second upsert updates
// the existing row in place.
func (s *Store) UpsertAlertSetting(ctx context.Context, a *domain.AlertSetting) error {
	if a.ThresholdScore < 0 || a.ThresholdScore > 100 {
		return domain.Validationf("threshold %v out of range", a.ThresholdScore)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_settings (region_id, disaster_type_id, threshold_score, active, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(region_id, disaster_type_id) DO UPDATE SET
		   threshold_score = excluded.threshold_score,
		   active = excluded.active`,
		a.RegionID, a.DisasterTypeID, a.ThresholdScore, a.Active, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert alert setting: %w", err)
	}

	if a.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			a.ID = int(id)
		}
	}
	return nil
}

// GetThreshold returns the active configured threshold for a pair.
// A missing or inactive setting is a not-found error so the caller can apply
// the per-type default.
func (s *Store) GetThreshold(ctx context.Context, regionID, disasterTypeID int) (float64, error) {
	var threshold float64
	err := s.db.QueryRowContext(ctx,
		`SELECT threshold_score FROM alert_settings
		 WHERE region_id = ? AND disaster_type_id = ? AND active = 1`,
		regionID, disasterTypeID,
	).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundf("alert setting for region %d type %d", regionID, disasterTypeID)
	}
	if err != nil {
		return 0, fmt.Errorf("get threshold: %w", err)
	}
	return threshold, nil
}

// ListAlertSettings returns all settings for a region.
func (s *Store) ListAlertSettings(ctx context.Context, regionID int) ([]domain.AlertSetting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, region_id, disaster_type_id, threshold_score, active, created_at
		 FROM alert_settings WHERE region_id = ? ORDER BY disaster_type_id`,
		regionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list alert settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.AlertSetting
	for rows.Next() {
		var a domain.AlertSetting
		if err := rows.Scan(&a.ID, &a.RegionID, &a.DisasterTypeID, &a.ThresholdScore, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert setting row: %w", err)
		}
		settings = append(settings, a)
	}
	return settings, rows.Err()
}

// UpdateAlertSetting changes the threshold and active flag of an existing
// setting.
func (s *Store) UpdateAlertSetting(ctx context.Context, id int, threshold float64, active bool) error {
	if threshold < 0 || threshold > 100 {
		return domain.Validationf("threshold %v out of range", threshold)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE alert_settings SET threshold_score = ?, active = ? WHERE id = ?`,
		threshold, active, id,
	)
	if err != nil {
		return fmt.Errorf("update alert setting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("alert setting %d", id)
	}
	return nil
}

// DeleteAlertSetting removes one setting by ID.
func (s *Store) DeleteAlertSetting(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alert_settings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete alert setting: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("alert setting %d", id)
	}
	return nil
}
