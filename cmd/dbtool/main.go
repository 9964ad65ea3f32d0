package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"maritime-route-service/internal/adapters/repositories"
	"maritime-route-service/internal/config"
	"maritime-route-service/internal/platform/db"
)

// dbtool initializes and seeds the Postgres port catalog schema. It is
// the operator-run counterpart to cmd/server's own SQLite init-on-boot
// path, for deployments that point DB_DRIVER at postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("PORT_SEED_PATH", "data/seeds/ports.json")
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing port catalog schema...")
	if err := repositories.InitPostgresPortSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding port catalog...")
	if err := repositories.SeedPostgresPortsFromJSON(db, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
