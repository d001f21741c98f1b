package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file into the process environment when present.
// Missing files are not an error; deployments usually set real env vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to load .env: %v", err)
		}
	}
}

// GetEnv returns the value of the environment variable key, or fallback
// when unset or empty.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
