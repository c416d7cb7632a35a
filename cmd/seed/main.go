// Command main runs the database seeder for weave.
package main

import (
	"context"
	"flag"
	"log"

	"weave/internal/config"
	"weave/internal/database"
	"weave/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numOrgs := flag.Int("orgs", 10, "Number of organizations to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding %d users, %d organizations, %d posts (clean=%v)",
		*numUsers, *numOrgs, *numPosts, *clean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Seed(context.Background(), seed.Options{
		NumUsers: *numUsers,
		NumOrgs:  *numOrgs,
		NumPosts: *numPosts,
		Clean:    *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
