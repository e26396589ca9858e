package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// CreateAlert records a triggering event. Assigns a UUID when the caller
// leaves ID empty.
func (s *Store) CreateAlert(ctx context.Context, a *domain.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.DetectedAt.IsZero() {
		a.DetectedAt = time.Now().UTC()
	}
	metadata := a.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, region_id, disaster_type_id, risk_score, threshold_value,
		                     message, notified, notified_at, detected_at, expires_at, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.RegionID, a.DisasterTypeID, a.RiskScore, a.ThresholdValue,
		a.Message, a.Notified, a.NotifiedAt, a.DetectedAt, a.ExpiresAt, string(metadata),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// MarkNotified flips the alert's notified flag and stamps the dispatch time.
func (s *Store) MarkNotified(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET notified = 1, notified_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("mark alert notified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundf("alert %s", id)
	}
	return nil
}

// ListAlerts returns the most recent alerts, newest first. A limit of 0
// returns everything.
func (s *Store) ListAlerts(ctx context.Context, limit int) ([]domain.Alert, error) {
	query := `SELECT id, region_id, disaster_type_id, risk_score, threshold_value,
	                 message, notified, notified_at, detected_at, expires_at, metadata
	          FROM alerts ORDER BY detected_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryAlerts(ctx, query, args...)
}

// ListAlertsByRegion returns a region's alerts, newest first.
func (s *Store) ListAlertsByRegion(ctx context.Context, regionID int) ([]domain.Alert, error) {
	return s.queryAlerts(ctx,
		`SELECT id, region_id, disaster_type_id, risk_score, threshold_value,
		        message, notified, notified_at, detected_at, expires_at, metadata
		 FROM alerts WHERE region_id = ? ORDER BY detected_at DESC`,
		regionID,
	)
}

func (s *Store) queryAlerts(ctx context.Context, query string, args ...any) ([]domain.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var metadata string
		if err := rows.Scan(&a.ID, &a.RegionID, &a.DisasterTypeID, &a.RiskScore, &a.ThresholdValue,
			&a.Message, &a.Notified, &a.NotifiedAt, &a.DetectedAt, &a.ExpiresAt, &metadata); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		a.Metadata = []byte(metadata)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
