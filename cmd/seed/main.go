// Command seed inserts a small set of sellers and listings so that
// /simple_predict has data to resolve in a fresh environment.
package main

import (
	"github.com/joho/godotenv"

	"github.com/itemguard/moderation-api/internal/database"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/pkg/config"
)

func main() {
	log := logger.NewStdLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg := config.New()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, is_verified_seller) VALUES
			(1, TRUE),
			(2, FALSE)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		log.Fatal("Failed to seed users", err)
	}

	_, err = db.Exec(`
		INSERT INTO items (id, seller_id, name, description, category, images_qty) VALUES
			(100, 1, 'Verified seller item', 'A listing from a verified seller', 1, 3),
			(101, 2, 'Unverified with images', 'A listing with photos', 2, 5),
			(102, 2, 'Unverified no images', 'A listing without photos', 2, 0)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		log.Fatal("Failed to seed items", err)
	}

	log.Info("Seed data inserted")
}
