// Command seed runs the database seeder for Notably.
package main

import (
	"flag"
	"log"

	"notably/internal/config"
	"notably/internal/database"
	"notably/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numNotes := flag.Int("notes", 100, "Number of notes to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumNotes:    *numNotes,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeding complete. All accounts use password %q", seed.DefaultPassword)
}
