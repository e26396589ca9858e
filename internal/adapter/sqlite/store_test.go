package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/sqlite"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestRegion(t *testing.T, store *sqlite.Store, types ...int) *domain.Region {
	t.Helper()
	r := &domain.Region{
		Name:           "Bangkok",
		Latitude:       13.7563,
		Longitude:      100.5018,
		MonitoredTypes: types,
	}
	require.NoError(t, store.CreateRegion(context.Background(), r))
	return r
}

func TestCreateAndGetRegion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood, domain.DisasterStorm)
	assert.NotZero(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := store.GetRegion(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bangkok", got.Name)
	assert.Equal(t, 13.7563, got.Latitude)
	assert.Equal(t, []int{domain.DisasterFlood, domain.DisasterStorm}, got.MonitoredTypes)
}

func TestGetRegionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRegion(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRegionValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.CreateRegion(ctx, &domain.Region{Name: "  ", Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = store.CreateRegion(ctx, &domain.Region{Name: "Nowhere", Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = store.CreateRegion(ctx, &domain.Region{Name: "Nowhere", Latitude: 0, Longitude: 181})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateRegionReplacesMonitoredTypes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	r.Name = "Bangkok Metro"
	r.MonitoredTypes = []int{domain.DisasterStorm, domain.DisasterFlood}
	require.NoError(t, store.UpdateRegion(ctx, r))

	got, err := store.GetRegion(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bangkok Metro", got.Name)
	assert.Equal(t, []int{domain.DisasterStorm, domain.DisasterFlood}, got.MonitoredTypes)
}

func TestDeleteRegionCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	require.NoError(t, store.UpsertAlertSetting(ctx, &domain.AlertSetting{
		RegionID: r.ID, DisasterTypeID: domain.DisasterFlood, ThresholdScore: 40, Active: true,
	}))
	require.NoError(t, store.DeleteRegion(ctx, r.ID))

	_, err := store.GetRegion(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	settings, err := store.ListAlertSettings(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, settings)
}

func TestListRegions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestRegion(t, store, domain.DisasterFlood)
	second := &domain.Region{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503,
		MonitoredTypes: []int{domain.DisasterEarthquake}}
	require.NoError(t, store.CreateRegion(ctx, second))

	regions, err := store.ListRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Bangkok", regions[0].Name)
	assert.Equal(t, []int{domain.DisasterEarthquake}, regions[1].MonitoredTypes)
}

func TestDisasterTypeCatalogSeeded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	types, err := store.ListDisasterTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 5)

	flood, err := store.GetDisasterType(ctx, domain.DisasterFlood)
	require.NoError(t, err)
	assert.Equal(t, "Flood", flood.Name)
	assert.True(t, flood.Active)

	_, err = store.GetDisasterType(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertAlertSettingReplacesThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	setting := &domain.AlertSetting{
		RegionID: r.ID, DisasterTypeID: domain.DisasterFlood, ThresholdScore: 40, Active: true,
	}
	require.NoError(t, store.UpsertAlertSetting(ctx, setting))
	assert.NotZero(t, setting.ID)

	threshold, err := store.GetThreshold(ctx, r.ID, domain.DisasterFlood)
	require.NoError(t, err)
	assert.Equal(t, 40.0, threshold)

	setting.ThresholdScore = 55
	require.NoError(t, store.UpsertAlertSetting(ctx, setting))

	threshold, err = store.GetThreshold(ctx, r.ID, domain.DisasterFlood)
	require.NoError(t, err)
	assert.Equal(t, 55.0, threshold)

	settings, err := store.ListAlertSettings(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, settings, 1, "upsert must not create a second row for the pair")
}

func TestUpdateAlertSetting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	setting := &domain.AlertSetting{
		RegionID: r.ID, DisasterTypeID: domain.DisasterFlood, ThresholdScore: 40, Active: true,
	}
	require.NoError(t, store.UpsertAlertSetting(ctx, setting))

	require.NoError(t, store.UpdateAlertSetting(ctx, setting.ID, 65, true))
	threshold, err := store.GetThreshold(ctx, r.ID, domain.DisasterFlood)
	require.NoError(t, err)
	assert.Equal(t, 65.0, threshold)

	require.NoError(t, store.UpdateAlertSetting(ctx, setting.ID, 65, false))
	_, err = store.GetThreshold(ctx, r.ID, domain.DisasterFlood)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.UpdateAlertSetting(ctx, 999, 50, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetThresholdIgnoresInactiveSetting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	require.NoError(t, store.UpsertAlertSetting(ctx, &domain.AlertSetting{
		RegionID: r.ID, DisasterTypeID: domain.DisasterFlood, ThresholdScore: 40, Active: false,
	}))

	_, err := store.GetThreshold(ctx, r.ID, domain.DisasterFlood)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertAlertSettingValidation(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertAlertSetting(context.Background(), &domain.AlertSetting{
		RegionID: 1, DisasterTypeID: domain.DisasterFlood, ThresholdScore: 120, Active: true,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateAlertAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	alert := &domain.Alert{
		RegionID:       r.ID,
		DisasterTypeID: domain.DisasterFlood,
		RiskScore:      72.5,
		ThresholdValue: 50,
		Message:        "HIGH: Disaster risk detected",
		ExpiresAt:      time.Now().Add(domain.CacheTTL).UTC(),
	}
	require.NoError(t, store.CreateAlert(ctx, alert))
	assert.NotEmpty(t, alert.ID)
	assert.False(t, alert.DetectedAt.IsZero())
}

func TestMarkNotified(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	alert := &domain.Alert{
		RegionID: r.ID, DisasterTypeID: domain.DisasterFlood,
		RiskScore: 80, ThresholdValue: 50, Message: "HIGH",
		ExpiresAt: time.Now().Add(domain.CacheTTL).UTC(),
	}
	require.NoError(t, store.CreateAlert(ctx, alert))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.MarkNotified(ctx, alert.ID, at))

	alerts, err := store.ListAlertsByRegion(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Notified)
	require.NotNil(t, alerts[0].NotifiedAt)

	err = store.MarkNotified(ctx, "no-such-alert", at)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAlertsNewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateAlert(ctx, &domain.Alert{
			RegionID: r.ID, DisasterTypeID: domain.DisasterFlood,
			RiskScore: float64(60 + i), ThresholdValue: 50, Message: "HIGH",
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
			ExpiresAt:  base.Add(time.Duration(i)*time.Minute + domain.CacheTTL),
		}))
	}

	alerts, err := store.ListAlerts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, 62.0, alerts[0].RiskScore)
	assert.Equal(t, 61.0, alerts[1].RiskScore)

	all, err := store.ListAlerts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecipients(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := createTestRegion(t, store, domain.DisasterFlood)
	require.NoError(t, store.CreateRecipient(ctx, &domain.Recipient{
		RegionID: r.ID, Email: "ops@example.com", Name: "Ops", Active: true,
	}))
	require.NoError(t, store.CreateRecipient(ctx, &domain.Recipient{
		RegionID: r.ID, Email: "former@example.com", Name: "Former", Active: false,
	}))

	active, err := store.ListActiveRecipients(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ops@example.com", active[0].Email)

	err = store.CreateRecipient(ctx, &domain.Recipient{RegionID: r.ID, Email: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
