// Command seed populates the database with demo data for development.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of regular users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "number of posts per user")
	flag.IntVar(&opts.MaxLikes, "max-likes", opts.MaxLikes, "maximum likes per published post")
	flag.StringVar(&opts.AdminEmail, "admin-email", opts.AdminEmail, "email for the seeded admin account")
	flag.StringVar(&opts.AdminPassword, "admin-password", opts.AdminPassword, "password for the seeded admin account")
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

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
