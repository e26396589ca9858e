package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// CreateRecipient registers a notification recipient for a region.
func (s *Store) CreateRecipient(ctx context.Context, r *domain.Recipient) error {
	if strings.TrimSpace(r.Email) == "" {
		return domain.Validationf("recipient email is required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recipients (region_id, email, name, active) VALUES (?, ?, ?, ?)`,
		r.RegionID, r.Email, r.Name, r.Active,
	)
	if err != nil {
		return fmt.Errorf("insert recipient: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		r.ID = int(id)
	}
	return nil
}

// ListActiveRecipients returns the region's active recipients in
// registration order.
func (s *Store) ListActiveRecipients(ctx context.Context, regionID int) ([]domain.Recipient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, region_id, email, name, active FROM recipients
		 WHERE region_id = ? AND active = 1 ORDER BY id`,
		regionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []domain.Recipient
	for rows.Next() {
		var r domain.Recipient
		if err := rows.Scan(&r.ID, &r.RegionID, &r.Email, &r.Name, &r.Active); err != nil {
			return nil, fmt.Errorf("scan recipient row: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
