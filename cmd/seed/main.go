// Command main runs the database seeder for Meriter.
package main

import (
	"flag"
	"log"

	"meriter/internal/config"
	"meriter/internal/database"
	"meriter/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPublications := flag.Int("publications", 200, "Number of publications to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d publications, clean=%v\n", *numUsers, *numPublications, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	if err := seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		NumPublications: *numPublications,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: Password123!Seed")
}
