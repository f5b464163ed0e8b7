package database

import (
	"errors"
	"log"
	"os"
	"time"

	"matchday/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors shared by the storage-backed components. Handlers map
// ErrNotFound to 404 and ErrValidation to 400; anything else is a storage
// failure reported generically with the cause logged.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid value")
)

// Connect opens the database connection and runs migrations. The returned
// handle is the process-wide storage resource; callers pass it down rather
// than reaching into a package global.
func Connect(dsn string) (*gorm.DB, error) {
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migrated successfully.")

	return db, nil
}

// Migrate runs the schema migrations for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.JoinRequest{},
		&models.ContactMessage{},
	)
}

// Close releases the underlying connection pool on shutdown.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
