// Command seed loads regions, alert settings, and recipients from a JSON
// file into the service database. It uses the actual store package so seeded
// rows pass the same validation the API applies.
//
// Usage:
//
//	go run ./cmd/seed -db data/disaster_risk.db -file seed.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/sqlite"
	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

type seedFile struct {
	Regions []seedRegion `json:"regions"`
}

type seedRegion struct {
	Name           string          `json:"name"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	MonitoredTypes []int           `json:"monitored_types"`
	Settings       []seedSetting   `json:"settings"`
	Recipients     []seedRecipient `json:"recipients"`
}

type seedSetting struct {
	DisasterTypeID int     `json:"disaster_type_id"`
	ThresholdScore float64 `json:"threshold_score"`
}

type seedRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "data/disaster_risk.db", "path to the service database")
	file := flag.String("file", "", "seed JSON file")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, sr := range seed.Regions {
		region := domain.Region{
			Name:           sr.Name,
			Latitude:       sr.Latitude,
			Longitude:      sr.Longitude,
			MonitoredTypes: sr.MonitoredTypes,
		}
		if err := store.CreateRegion(ctx, &region); err != nil {
			return fmt.Errorf("create region %q: %w", sr.Name, err)
		}

		for _, ss := range sr.Settings {
			setting := domain.AlertSetting{
				RegionID:       region.ID,
				DisasterTypeID: ss.DisasterTypeID,
				ThresholdScore: ss.ThresholdScore,
				Active:         true,
			}
			if err := store.UpsertAlertSetting(ctx, &setting); err != nil {
				return fmt.Errorf("create setting for %q type %d: %w", sr.Name, ss.DisasterTypeID, err)
			}
		}

		for _, rec := range sr.Recipients {
			recipient := domain.Recipient{
				RegionID: region.ID,
				Email:    rec.Email,
				Name:     rec.Name,
				Active:   true,
			}
			if err := store.CreateRecipient(ctx, &recipient); err != nil {
				return fmt.Errorf("create recipient %q for %q: %w", rec.Email, sr.Name, err)
			}
		}

		fmt.Printf("seeded region %d %q (%d types, %d settings, %d recipients)\n",
			region.ID, region.Name, len(region.MonitoredTypes), len(sr.Settings), len(sr.Recipients))
	}

	return nil
}
