package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	APP_URL     string
	CORS_ORIGIN string
	UPLOADS_DIR string

	STRIPE_PRICE_PREMIUM_MONTHLY string
	STRIPE_PRICE_PREMIUM_YEARLY  string

	WORKERS_AI_ACCOUNT_ID string
	WORKERS_AI_API_TOKEN  string
	WORKERS_AI_MODEL      string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	APP_URL = getEnv("APP_URL", "http://localhost:5173")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	UPLOADS_DIR = getEnv("UPLOADS_DIR", "./uploads")

	STRIPE_PRICE_PREMIUM_MONTHLY = mustEnv("STRIPE_PRICE_PREMIUM_MONTHLY")
	STRIPE_PRICE_PREMIUM_YEARLY = mustEnv("STRIPE_PRICE_PREMIUM_YEARLY")

	WORKERS_AI_ACCOUNT_ID = mustEnv("WORKERS_AI_ACCOUNT_ID")
	WORKERS_AI_API_TOKEN = mustEnv("WORKERS_AI_API_TOKEN")
	WORKERS_AI_MODEL = getEnv("WORKERS_AI_MODEL", "@cf/stabilityai/stable-diffusion-xl-base-1.0")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
