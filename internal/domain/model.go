package domain

import (
	"fmt"
	"time"
)

// CacheTTL is the validity window for cached reports, risks, and condition
// bundles. Fixed at 15 minutes to match existing deployments.
const CacheTTL = 15 * time.Minute

// Disaster type identifiers. The catalog lives in the disaster-type store;
// these constants name the seeded rows the scoring formulas know about.
const (
	DisasterFlood      = 1
	DisasterEarthquake = 2
	DisasterWildfire   = 3
	DisasterStorm      = 4
	DisasterDrought    = 5
)

// Region is a monitored geographic area.
type Region struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	MonitoredTypes []int     `json:"monitored_types"` // ordered disaster-type IDs
	CreatedAt      time.Time `json:"created_at"`
}

// DisasterType is read-only reference data from the type catalog.
type DisasterType struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// AlertSetting is an operator-configured trigger threshold for one
// (region, disaster type) pair. At most one active setting exists per pair;
// the settings store enforces the uniqueness.
type AlertSetting struct {
	ID             int       `json:"id"`
	RegionID       int       `json:"region_id"`
	DisasterTypeID int       `json:"disaster_type_id"`
	ThresholdScore float64   `json:"threshold_score"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Recipient is a user registered to receive alerts for a region.
type Recipient struct {
	ID       int    `json:"id"`
	RegionID int    `json:"region_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

// RiskReport is the computed assessment for one (region, disaster type) pair.
// Created on cache miss, read-only once cached, superseded on recomputation
// after expiry.
type RiskReport struct {
	RegionID         int       `json:"region_id"`
	RegionName       string    `json:"region_name"`
	DisasterTypeID   int       `json:"disaster_type_id"`
	DisasterTypeName string    `json:"disaster_type_name"`
	RiskScore        float64   `json:"risk_score"`
	RiskLevel        string    `json:"risk_level"`
	ThresholdValue   float64   `json:"threshold_value"`
	Triggered        bool      `json:"triggered"`
	ConditionData    []byte    `json:"condition_data,omitempty"` // raw audit blob
	ComputedAt       time.Time `json:"computed_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Risk is the compact cached form of a computed risk, kept under the
// disaster_risk:{r}:{d} key for interop with existing consumers.
type Risk struct {
	RegionID       int       `json:"region_id"`
	DisasterTypeID int       `json:"disaster_type_id"`
	RiskScore      float64   `json:"risk_score"`
	RiskLevel      string    `json:"risk_level"`
	ThresholdValue float64   `json:"threshold_value"`
	Triggered      bool      `json:"triggered"`
	ComputedAt     time.Time `json:"computed_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Alert is the durable record of a triggering event. Created at most once per
// computation instance; mutated only to flip Notified after dispatch.
type Alert struct {
	ID             string     `json:"id"`
	RegionID       int        `json:"region_id"`
	DisasterTypeID int        `json:"disaster_type_id"`
	RiskScore      float64    `json:"risk_score"`
	ThresholdValue float64    `json:"threshold_value"`
	Message        string     `json:"message"`
	Notified       bool       `json:"notified"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	DetectedAt     time.Time  `json:"detected_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	Metadata       []byte     `json:"metadata,omitempty"` // raw condition audit blob
}

// ReportCacheKey returns the fixed cache key for a full risk report.
func ReportCacheKey(regionID, disasterTypeID int) string {
	return fmt.Sprintf("disaster_risk_report:%d:%d", regionID, disasterTypeID)
}

// RiskCacheKey returns the fixed cache key for the compact risk object.
func RiskCacheKey(regionID, disasterTypeID int) string {
	return fmt.Sprintf("disaster_risk:%d:%d", regionID, disasterTypeID)
}

// ConditionCacheKey returns the cache key for a raw condition bundle.
// Coordinates are rounded to four decimals so nearby lookups share an entry.
func ConditionCacheKey(kind ConditionKind, lat, lon float64) string {
	return fmt.Sprintf("condition:%s:%.4f:%.4f", kind, lat, lon)
}
