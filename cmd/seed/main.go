// Command main runs the database seeder for Pawfeed.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"pawfeed/internal/config"
	"pawfeed/internal/database"
	"pawfeed/internal/seed"

	"gopkg.in/yaml.v3"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	profilePath := flag.String("profile", "", "YAML seed profile (overrides the other flags)")
	flag.Parse()

	opts := seed.Options{
		Users: *numUsers,
		Posts: *numPosts,
		Clean: *shouldClean,
	}

	if *profilePath != "" {
		raw, err := os.ReadFile(*profilePath)
		if err != nil {
			log.Fatalf("Failed to read seed profile: %v", err)
		}
		if err := yaml.Unmarshal(raw, &opts); err != nil {
			log.Fatalf("Failed to parse seed profile: %v", err)
		}
		log.Printf("Loaded seed profile: %s", *profilePath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(context.Background(), opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with demo data.")
}
