// Command seed populates the database with demo data for development.
package main

import (
	"flag"
	"log"

	"entrelinhas/internal/bootstrap"
	"entrelinhas/internal/config"
	"entrelinhas/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 10, "number of anonymous profiles to create")
	numPosts := flag.Int("posts", 40, "number of posts to create")
	clean := flag.Bool("clean", false, "wipe board tables before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{EnsureDevAdmin: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumProfiles: *numProfiles,
		NumPosts:    *numPosts,
		Threshold:   cfg.ReportHideThreshold,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
