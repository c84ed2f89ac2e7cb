// Command migrate runs schema operations for the Notably backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"notably/internal/config"
	"notably/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|down>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if err := database.RunMigrations(db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		if err := database.ApplySchema(db); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		migrations, err := database.RegisterMigrations()
		if err != nil {
			return fmt.Errorf("load migrations: %w", err)
		}
		if err := db.AutoMigrate(&database.MigrationLog{}); err != nil {
			return fmt.Errorf("ensure migration log table: %w", err)
		}
		var logs []database.MigrationLog
		if err := db.Order("version").Find(&logs).Error; err != nil {
			return fmt.Errorf("read migration log: %w", err)
		}
		applied := make(map[int]bool, len(logs))
		for _, l := range logs {
			applied[l.Version] = true
		}
		for _, m := range migrations {
			state := "pending"
			if applied[m.Version] {
				state = "applied"
			}
			log.Printf("%s: %s", m, state)
		}
	case "down":
		if err := database.RollbackMigration(db); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Println("rolled back latest migration")
	default:
		return usage()
	}

	return nil
}
