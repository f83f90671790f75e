package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DB is the process-wide connection opened by SetupDatabase.
var DB *gorm.DB

func GetDB() *gorm.DB {
	return DB
}

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			if err = Migrate(DB); err != nil {
				log.Printf("AutoMigrate failed: %v", err)
			}
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// Migrate creates or updates every content table. Tests call it on sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Location{},
		&models.Event{},
		&models.Hiking{},
		&models.Ad{},
		&models.Partner{},
		&models.Sponsor{},
		&models.LocationImage{},
		&models.EventImage{},
		&models.HikingImage{},
		&models.AdImage{},
		&models.Page{},
	)
}

// OpenSQLite opens and migrates a sqlite database file. Tests and local
// tooling use it instead of MySQL.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return db, nil
}
