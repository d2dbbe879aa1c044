package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"messagely/config"
	"messagely/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

const usage = `
Messagely - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Apply all pending migrations
  down        Roll back all migrations
  status      Show connection, migration and table status
  seed        Seed development users and messages
  reset       Roll back, re-apply and seed (DANGEROUS)
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -password string    Password for seeded users (default "password")
  -work-factor int    bcrypt cost for seeded users (default 10)

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate -password secret seed
  go run ./cmd/migrate status
`

func main() {
	password := flag.String("password", "password", "Password for seeded users")
	workFactor := flag.Int("work-factor", bcrypt.DefaultCost, "bcrypt cost for seeded users")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	ctx := context.Background()

	cfg := config.LoadConfig()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer db.Close()

	seedCfg := database.DefaultSeedConfig()
	seedCfg.Password = *password
	seedCfg.WorkFactor = *workFactor

	switch command {
	case "up":
		runMigrationsUp(ctx, db)
	case "down":
		runMigrationsDown(ctx, db)
	case "status":
		showStatus(ctx, db)
	case "seed":
		runSeed(ctx, db, seedCfg)
	case "reset":
		runMigrationsDown(ctx, db)
		runMigrationsUp(ctx, db)
		runSeed(ctx, db, seedCfg)
	case "truncate":
		runTruncate(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context, db *sql.DB) {
	log.Println("🚀 Running migrations UP...")

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func runMigrationsDown(ctx context.Context, db *sql.DB) {
	log.Println("⬇️  Rolling back migrations...")

	if err := database.RollbackMigrations(ctx, db); err != nil {
		log.Fatalf("❌ Rollback failed: %v", err)
	}

	log.Println("✅ Rollback completed successfully!")
}

func showStatus(ctx context.Context, db *sql.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	if err := database.MigrationStatus(ctx, db); err != nil {
		log.Printf("⚠️  Migration status unavailable: %v", err)
	}

	for _, table := range database.Tables {
		exists, err := database.TableExists(ctx, db, table)
		if err != nil {
			log.Printf("⚠️  Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(ctx, db, table)
			log.Printf("✅ Table %-10s exists (%d rows)", table, count)
		} else {
			log.Printf("❌ Table %-10s does not exist", table)
		}
	}

	if err := database.HealthCheck(ctx, db); err != nil {
		log.Printf("⚠️  Health check warning: %v", err)
	} else {
		log.Println("✅ Health check: PASSED")
	}
}

func runSeed(ctx context.Context, db *sql.DB, cfg *database.SeedConfig) {
	log.Println("🌱 Seeding database...")

	result, err := database.Seed(ctx, db, cfg)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Users: %d", len(result.Users))
	for _, u := range result.Users {
		s := u.Summary()
		log.Printf("     %-12s %s %s (%s)", s.Username, s.FirstName, s.LastName, s.Phone)
	}
	log.Printf("   - Messages: %d", len(result.Messages))
	log.Println("✅ Seeding completed!")
}

func runTruncate(ctx context.Context, db *sql.DB) {
	log.Println("⚠️  WARNING: This will TRUNCATE all tables!")

	if err := database.TruncateAllTables(ctx, db); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
