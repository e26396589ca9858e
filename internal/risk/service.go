// Package risk computes disaster risk reports and triggers alerts.
//
// The service orchestrates one computation per (region, disaster type) pair:
// resolve the pair, fetch conditions, score, compare against the configured
// threshold, and on a trigger record an alert and dispatch notifications.
// Results are cached for the standard TTL; a cached report is returned as-is
// with no side effects.
package risk

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
)

// RegionStore reads monitored regions.
type RegionStore interface {
	GetRegion(ctx context.Context, id int) (*domain.Region, error)
	ListRegions(ctx context.Context) ([]domain.Region, error)
}

// DisasterTypeStore reads the active type catalog.
type DisasterTypeStore interface {
	GetDisasterType(ctx context.Context, id int) (*domain.DisasterType, error)
}

// SettingStore resolves configured alert thresholds.
type SettingStore interface {
	GetThreshold(ctx context.Context, regionID, disasterTypeID int) (float64, error)
}

// AlertStore persists triggering events.
type AlertStore interface {
	CreateAlert(ctx context.Context, a *domain.Alert) error
	MarkNotified(ctx context.Context, id string, at time.Time) error
}

// RecipientStore reads a region's notification recipients.
type RecipientStore interface {
	ListActiveRecipients(ctx context.Context, regionID int) ([]domain.Recipient, error)
}

// ConditionSource resolves the condition bundle for a pair. Implementations
// must not fail; degraded data is returned instead.
type ConditionSource interface {
	Fetch(ctx context.Context, disasterTypeID int, lat, lon float64) domain.Conditions
}

// CacheStore memoizes computed reports.
type CacheStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// Notifier delivers one alert to one recipient.
type Notifier interface {
	Name() string
	Send(ctx context.Context, recipient domain.Recipient, alert domain.Alert) error
}

// Service coordinates risk assessment for monitored regions.
type Service struct {
	regions    RegionStore
	types      DisasterTypeStore
	settings   SettingStore
	alerts     AlertStore
	recipients RecipientStore
	conditions ConditionSource
	cache      CacheStore
	notifier   Notifier // nil disables dispatch
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates the coordinator. A nil notifier disables notification dispatch;
// alerts are still recorded.
func New(
	regions RegionStore,
	types DisasterTypeStore,
	settings SettingStore,
	alerts AlertStore,
	recipients RecipientStore,
	conditions ConditionSource,
	cache CacheStore,
	notifier Notifier,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		regions:    regions,
		types:      types,
		settings:   settings,
		alerts:     alerts,
		recipients: recipients,
		conditions: conditions,
		cache:      cache,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// ComputeReport returns the risk report for one (region, disaster type) pair.
// A fresh cached report is returned without recomputation or side effects.
// On a cache miss the pair is resolved, scored, and evaluated against its
// threshold; a triggering score records an alert and dispatches notifications
// before the report is cached.
func (s *Service) ComputeReport(ctx context.Context, regionID, disasterTypeID int) (*domain.RiskReport, error) {
	if regionID <= 0 {
		return nil, domain.Validationf("region id %d", regionID)
	}
	if disasterTypeID <= 0 {
		return nil, domain.Validationf("disaster type id %d", disasterTypeID)
	}

	if cached, ok := s.cachedReport(regionID, disasterTypeID); ok {
		s.metrics.ReportsComputed.WithLabelValues("hit").Inc()
		return cached, nil
	}

	start := time.Now()

	region, err := s.regions.GetRegion(ctx, regionID)
	if err != nil {
		return nil, err
	}
	dtype, err := s.types.GetDisasterType(ctx, disasterTypeID)
	if err != nil {
		return nil, err
	}

	cond := s.conditions.Fetch(ctx, disasterTypeID, region.Latitude, region.Longitude)
	score := domain.Score(disasterTypeID, cond)
	level := domain.LevelForScore(score)
	threshold := s.resolveThreshold(ctx, regionID, disasterTypeID)

	now := domain.Now().UTC()
	conditionData, _ := json.Marshal(cond)

	report := &domain.RiskReport{
		RegionID:         region.ID,
		RegionName:       region.Name,
		DisasterTypeID:   dtype.ID,
		DisasterTypeName: dtype.Name,
		RiskScore:        score,
		RiskLevel:        level,
		ThresholdValue:   threshold,
		Triggered:        score >= threshold,
		ConditionData:    conditionData,
		ComputedAt:       now,
		ExpiresAt:        now.Add(domain.CacheTTL),
	}

	if report.Triggered {
		s.handleTrigger(ctx, report)
	}

	s.cacheReport(report)
	s.metrics.ReportsComputed.WithLabelValues("miss").Inc()
	s.metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("risk report computed",
		"region_id", report.RegionID,
		"disaster_type_id", report.DisasterTypeID,
		"score", report.RiskScore,
		"level", report.RiskLevel,
		"triggered", report.Triggered,
		"condition_source", cond.Source,
	)
	return report, nil
}

// ComputeAllReports assesses every monitored (region, disaster type) pair.
// A failing pair is logged and skipped so one bad region cannot block the
// sweep.
func (s *Service) ComputeAllReports(ctx context.Context) ([]domain.RiskReport, error) {
	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	var reports []domain.RiskReport
	for _, region := range regions {
		for _, typeID := range region.MonitoredTypes {
			report, err := s.ComputeReport(ctx, region.ID, typeID)
			if err != nil {
				s.logger.Warn("skipping pair in bulk assessment",
					"region_id", region.ID,
					"disaster_type_id", typeID,
					"error", err,
				)
				s.metrics.ReportFailures.Inc()
				continue
			}
			reports = append(reports, *report)
		}
	}
	return reports, nil
}

// GetCachedReport returns the cached report for a pair, or a not-found error
// when no fresh report exists.
func (s *Service) GetCachedReport(_ context.Context, regionID, disasterTypeID int) (*domain.RiskReport, error) {
	if cached, ok := s.cachedReport(regionID, disasterTypeID); ok {
		return cached, nil
	}
	return nil, domain.NotFoundf("no cached report for region %d type %d", regionID, disasterTypeID)
}

func (s *Service) cachedReport(regionID, disasterTypeID int) (*domain.RiskReport, bool) {
	data, ok := s.cache.Get(domain.ReportCacheKey(regionID, disasterTypeID))
	if !ok {
		return nil, false
	}
	var report domain.RiskReport
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("corrupt cached report, recomputing",
			"region_id", regionID,
			"disaster_type_id", disasterTypeID,
		)
		return nil, false
	}
	return &report, true
}

// resolveThreshold prefers the operator-configured setting and falls back to
// the per-type default when none is active or the read fails.
func (s *Service) resolveThreshold(ctx context.Context, regionID, disasterTypeID int) float64 {
	threshold, err := s.settings.GetThreshold(ctx, regionID, disasterTypeID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("threshold lookup failed, using default",
				"region_id", regionID,
				"disaster_type_id", disasterTypeID,
				"error", err,
			)
		}
		return domain.DefaultThreshold(disasterTypeID)
	}
	return threshold
}

// handleTrigger records the alert and dispatches notifications. Both sides
// are best effort: a persistence or delivery failure never fails the report.
func (s *Service) handleTrigger(ctx context.Context, report *domain.RiskReport) {
	s.metrics.AlertsTriggered.Inc()

	alert := domain.Alert{
		RegionID:       report.RegionID,
		DisasterTypeID: report.DisasterTypeID,
		RiskScore:      report.RiskScore,
		ThresholdValue: report.ThresholdValue,
		Message:        domain.AlertMessage(report.RiskLevel, report.RiskScore, report.ThresholdValue),
		DetectedAt:     report.ComputedAt,
		ExpiresAt:      report.ExpiresAt,
		Metadata:       report.ConditionData,
	}

	recorded := true
	if err := s.alerts.CreateAlert(ctx, &alert); err != nil {
		s.logger.Error("failed to record alert",
			"region_id", alert.RegionID,
			"disaster_type_id", alert.DisasterTypeID,
			"error", err,
		)
		s.metrics.AlertRecordErrors.Inc()
		recorded = false
	}

	attempted := s.dispatch(ctx, alert)

	// Notified means dispatch was attempted, not that every recipient got
	// the message. Matches how downstream consumers read the flag.
	if attempted && recorded {
		if err := s.alerts.MarkNotified(ctx, alert.ID, domain.Now().UTC()); err != nil {
			s.logger.Warn("failed to mark alert notified", "alert_id", alert.ID, "error", err)
		}
	}
}

// dispatch sends the alert to each active recipient, isolating per-recipient
// failures. Returns true if at least one send was attempted.
func (s *Service) dispatch(ctx context.Context, alert domain.Alert) bool {
	if s.notifier == nil {
		return false
	}

	recipients, err := s.recipients.ListActiveRecipients(ctx, alert.RegionID)
	if err != nil {
		s.logger.Error("failed to list recipients", "region_id", alert.RegionID, "error", err)
		return false
	}
	if len(recipients) == 0 {
		return false
	}

	for _, recipient := range recipients {
		if err := s.notifier.Send(ctx, recipient, alert); err != nil {
			s.logger.Error("notification failed",
				"notifier", s.notifier.Name(),
				"recipient", recipient.Email,
				"alert_id", alert.ID,
				"error", err,
			)
			s.metrics.Notifications.WithLabelValues("error").Inc()
			continue
		}
		s.metrics.Notifications.WithLabelValues("sent").Inc()
	}
	return true
}

func (s *Service) cacheReport(report *domain.RiskReport) {
	if data, err := json.Marshal(report); err == nil {
		s.cache.Set(domain.ReportCacheKey(report.RegionID, report.DisasterTypeID), data, domain.CacheTTL)
	}

	risk := domain.Risk{
		RegionID:       report.RegionID,
		DisasterTypeID: report.DisasterTypeID,
		RiskScore:      report.RiskScore,
		RiskLevel:      report.RiskLevel,
		ThresholdValue: report.ThresholdValue,
		Triggered:      report.Triggered,
		ComputedAt:     report.ComputedAt,
		ExpiresAt:      report.ExpiresAt,
	}
	if data, err := json.Marshal(risk); err == nil {
		s.cache.Set(domain.RiskCacheKey(report.RegionID, report.DisasterTypeID), data, domain.CacheTTL)
	}
}
