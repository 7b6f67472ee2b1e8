// seed inserts development sample data for local testing. Idempotent: rows
// are keyed by fixed ids and skipped when already present.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"gymgate/backend/internal/config"
	"gymgate/backend/internal/db"
)

type seedBranch struct {
	id, name, timezone, opensAt, closesAt string
}

type seedPerson struct {
	id, branchID, variant, name, status string
}

var branches = []seedBranch{
	{"branch-downtown", "Downtown", "Europe/Paris", "06:00", "23:00"},
	{"branch-riverside", "Riverside", "Europe/Paris", "08:00", "22:00"},
	{"branch-nyc", "Fifth Avenue", "America/New_York", "05:00", "23:00"},
}

var persons = []seedPerson{
	{"member-ana", "branch-downtown", "member", "Ana Martin", "active"},
	{"member-luc", "branch-downtown", "member", "Luc Bernard", "active"},
	{"member-idle", "branch-downtown", "member", "Ines Dupont", "inactive"},
	{"member-river", "branch-riverside", "member", "Noa Petit", "active"},
	{"staff-desk", "branch-downtown", "staff", "Sam Roche", "active"},
	{"staff-coach", "branch-downtown", "staff", "Eli Fabre", "active"},
	{"staff-nyc", "branch-nyc", "staff", "Max Cole", "active"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, sqlDB); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed: done")
}

func seed(ctx context.Context, sqlDB *sql.DB) error {
	now := time.Now().UTC()
	for _, b := range branches {
		_, err := sqlDB.ExecContext(ctx, `
			INSERT INTO branches (id, name, timezone, opens_at, closes_at, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
			ON CONFLICT (id) DO NOTHING`,
			b.id, b.name, b.timezone, b.opensAt, b.closesAt, now)
		if err != nil {
			return err
		}
	}
	for _, p := range persons {
		_, err := sqlDB.ExecContext(ctx, `
			INSERT INTO persons (id, branch_id, variant, display_name, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (id) DO NOTHING`,
			p.id, p.branchID, p.variant, p.name, p.status, now)
		if err != nil {
			return err
		}
	}
	return nil
}
