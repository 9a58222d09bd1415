package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
	"github.com/ovalstats/cricket-data-api/internal/storage/postgres"
	"github.com/ovalstats/cricket-data-api/internal/util"
	"go.uber.org/zap"
)

// createapikey mints an API key directly against the database, for
// bootstrapping environments before the admin dashboard is reachable.
func main() {
	name := flag.String("name", "", "Human readable name for the key (required)")
	userID := flag.String("user", "", "Owner user id (uuid, optional; random when omitted)")
	rateLimit := flag.Int("rate-limit", apikey.DefaultRateLimitPerMinute, "Requests per minute allowed for this key")
	expiresDays := flag.Int("expires-days", 0, "Days until expiry (0 means the key never expires)")
	flag.Parse()

	if *name == "" {
		flag.Usage()
		log.Fatal("-name is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbCfg := config.DatabaseConfig{
		URL:             databaseURL,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	pool, err := postgres.NewPgxPool(ctx, &dbCfg, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	owner := uuid.New()
	if *userID != "" {
		owner, err = uuid.Parse(*userID)
		if err != nil {
			log.Fatalf("Invalid -user value: %v", err)
		}
	}

	fullKey, prefix, keyHash, err := util.GenerateAPIKey()
	if err != nil {
		log.Fatalf("Failed to generate key material: %v", err)
	}

	var expiresAt *time.Time
	if *expiresDays > 0 {
		t := time.Now().UTC().AddDate(0, 0, *expiresDays)
		expiresAt = &t
	}

	repo := postgres.NewAPIKeyRepository(pool, zap.NewNop())
	id, err := repo.Create(ctx, &apikey.APIKey{
		UserID:             owner,
		KeyHash:            keyHash,
		KeyPrefix:          prefix,
		Name:               *name,
		IsActive:           true,
		RateLimitPerMinute: *rateLimit,
		ExpiresAt:          expiresAt,
	})
	if err != nil {
		log.Fatalf("Failed to store api key: %v", err)
	}

	fmt.Printf("API key created\n")
	fmt.Printf("  id:         %s\n", id)
	fmt.Printf("  name:       %s\n", *name)
	fmt.Printf("  prefix:     %s\n", prefix)
	fmt.Printf("  rate limit: %d/min\n", *rateLimit)
	if expiresAt != nil {
		fmt.Printf("  expires:    %s\n", expiresAt.Format(time.RFC3339))
	} else {
		fmt.Printf("  expires:    never\n")
	}
	fmt.Printf("\nFull key (shown once, store it now):\n\n  %s\n", fullKey)
}
