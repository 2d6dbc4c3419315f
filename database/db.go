package database

import (
	"log"
	"os"
	"strings"

	"enquiries-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the process-wide connection pool, constructed once at startup.
var DB *gorm.DB

// Connect opens the database named by DATABASE_URL. Postgres URLs/DSNs get
// the postgres driver; anything else is treated as a sqlite path (the
// "file:./dev.db" form used in local development).
func Connect() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "file:./dev.db"
	}

	var err error
	if strings.HasPrefix(url, "postgres") || strings.Contains(url, "host=") {
		DB, err = gorm.Open(postgres.Open(url), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(strings.TrimPrefix(url, "file:")), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
}

// AutoMigrate creates/updates the tables for every model.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.Enquiry{},
		&models.EnquiryContext{},
		&models.EnquiryPartEx{},
		&models.AuditLog{},
		&models.IdempotencyKey{},
	); err != nil {
		log.Fatalf("automigrate failed: %v", err)
	}
}
