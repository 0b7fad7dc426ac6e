// Command seed fills the database with demo users, shifts and requests.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"shiftswap/internal/bootstrap"
	"shiftswap/internal/config"
	"shiftswap/internal/database"
	"shiftswap/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to register")
	numShifts := flag.Int("shifts", defaults.Shifts, "Number of shifts to post")
	maxRequests := flag.Int("requests", defaults.MaxRequestsPerShift, "Maximum requests per shift")
	approveRatio := flag.Float64("approve", defaults.ApproveRatio, "Share of requested shifts to approve")
	days := flag.Int("days", defaults.Days, "Spread shift dates over this many days from today")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = random)")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		Users:               *numUsers,
		Shifts:              *numShifts,
		MaxRequestsPerShift: *maxRequests,
		ApproveRatio:        *approveRatio,
		Days:                *days,
		Start:               time.Now(),
		RandSeed:            *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed after %s: %v", summary, err)
	}

	log.Printf("✨ Seeded %s", summary)
}
