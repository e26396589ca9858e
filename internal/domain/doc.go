// Package domain models natural-hazard risk assessment for monitored regions.
//
// # Risk Scores
//
// A risk score is a float in [0,100] quantifying hazard severity for one
// (region, disaster type) pair. Each disaster type has its own weighted
// formula over the raw conditions fetched for the region's coordinates;
// every sub-score is clamped to [0,100] before averaging and the final
// average is clamped again, so the bound holds for any input.
//
//	Flood:      avg(precipitation*2, humidity*0.5)
//	Earthquake: avg(magnitude*20, 100 - distanceKm*2)
//	Wildfire:   avg(max(0,temp-25)*5, max(0,50-humidity)*2, droughtIndex)
//	Storm:      avg(windSpeed*3.33, precipitation*2)
//	Drought:    avg(max(0,50-precip)*2, max(0,temp-20)*5, max(0,60-humidity)*2.5)
//
// An unrecognized disaster type scores 0. Scoring is pure: no I/O, no clock.
//
// # Risk Levels
//
// Scores bucket into three user-facing levels:
//
//	score < 30   Low
//	score < 70   Medium
//	score >= 70  High
//
// # Thresholds
//
// An alert fires when score >= threshold (inclusive). Thresholds come from
// per-region alert settings, falling back to a per-type default table
// (flood 50, earthquake 70, wildfire 60, storm 65, drought 55, otherwise 50).
//
// # Synthetic Conditions
//
// When a hazard provider is unreachable, [SyntheticConditions] substitutes
// deterministic pseudo-random measurements seeded from the coordinate pair.
// Identical coordinates always produce identical synthetic data, which keeps
// fallback behavior reproducible in tests and bounds alert flapping during
// provider outages. Synthetic bundles carry Source "synthetic" in the audit
// blob so operators can spot fabricated inputs.
//
// # Cache Keys
//
// Cached entities use fixed key schemas shared with existing deployments:
//
//	disaster_risk_report:{regionID}:{disasterTypeID}  full report
//	disaster_risk:{regionID}:{disasterTypeID}         compact risk object
//	condition:{kind}:{lat:.4f}:{lon:.4f}              raw condition bundle
//
// All cached entries expire after [CacheTTL] (15 minutes).
package domain
