package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a .env file into the environment if one exists. Analysis
// commands run fine without it; only the database-backed commands need
// DATABASE_URL.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}

// DatabaseURL returns the configured connection string. Offline commands never
// call this, so an unset URL is an error rather than a fatal.
func DatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL not set (in .env or environment)")
	}
	return url, nil
}
