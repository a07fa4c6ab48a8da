package database

import (
	"fmt"
	"log"
	"os"

	"pixeljournal/internal/domain/entries"
	"pixeljournal/internal/domain/subscriptions"
	"pixeljournal/internal/domain/usage"
	"pixeljournal/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&users.User{},
		&subscriptions.Subscription{},
		&usage.UsageEvent{},
		&entries.Entry{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}
