// Package main implements the seed-events CLI tool for loading a portfolio
// of events into the database from a JSON fixture file.
//
// This tool is intended for local development and demo environments. It
// reads an array of event definitions, assigns identifiers where the file
// omits them, validates each record, and inserts them through the same
// repository the API server uses.
//
// Usage:
//
//	go run ./cmd/tools/seed-events --file=fixtures/events.json
//	go run ./cmd/tools/seed-events --file=fixtures/events.json --dry-run
//
// The tool reads DATABASE_URL from environment variables (or a .env file via
// godotenv). In --dry-run mode, it prints the parsed events as JSON without
// touching the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"eventpulse/internal/config"
	"eventpulse/internal/db"
	"eventpulse/internal/types"
)

const seedTimeout = 60 * time.Second

// seedEvent is the on-disk shape of a single fixture record. It is looser
// than types.Event so fixture files can omit generated fields.
type seedEvent struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Region               types.Region      `json:"region"`
	Category             string            `json:"category"`
	Date                 time.Time         `json:"date"`
	TargetRegistrations  int               `json:"target_registrations"`
	CurrentRegistrations int               `json:"current_registrations"`
	Revenue              float64           `json:"revenue"`
	Owner                string            `json:"owner"`
	Integrations         []string          `json:"integrations"`
	Coordinates          types.Coordinates `json:"coordinates"`
	Status               types.EventStatus `json:"status"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed-events: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath string
		dryRun   bool
	)
	flag.StringVar(&filePath, "file", "", "path to a JSON file containing an array of events (required)")
	flag.BoolVar(&dryRun, "dry-run", false, "parse and print the events without writing to the database")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		return errors.New("--file is required")
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	events, err := loadFixture(filePath)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("fixture %s contains no events", filePath)
	}

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	repo := db.NewEventRepository(pool)

	var inserted int
	for _, ev := range events {
		if err := repo.Create(ctx, ev); err != nil {
			return fmt.Errorf("inserting event %s (%s): %w", ev.ID, ev.Name, err)
		}
		inserted++
		logger.Info("seeded event", "event_id", ev.ID, "name", ev.Name, "date", ev.Date.Format(time.RFC3339))
	}

	logger.Info("seed complete", "file", filePath, "inserted", inserted)
	return nil
}

// loadFixture reads and validates the fixture file, filling in generated
// identifiers and default statuses where the file omits them.
func loadFixture(path string) ([]*types.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var records []seedEvent
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	events := make([]*types.Event, 0, len(records))
	for i, rec := range records {
		ev := &types.Event{
			ID:                   rec.ID,
			Name:                 rec.Name,
			Region:               rec.Region,
			Category:             rec.Category,
			Date:                 rec.Date,
			TargetRegistrations:  rec.TargetRegistrations,
			CurrentRegistrations: rec.CurrentRegistrations,
			Revenue:              rec.Revenue,
			Owner:                rec.Owner,
			Integrations:         rec.Integrations,
			Coordinates:          rec.Coordinates,
			Status:               rec.Status,
		}
		if ev.ID == "" {
			ev.ID = "evt_" + uuid.New().String()
		}
		if ev.Status == "" {
			ev.Status = types.EventStatusGreen
		}
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("fixture record %d (%s): %w", i, displayName(rec), err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func displayName(rec seedEvent) string {
	if s := strings.TrimSpace(rec.Name); s != "" {
		return s
	}
	return "unnamed"
}
