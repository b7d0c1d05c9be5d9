package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"contribution-service/internal/config"
	"contribution-service/internal/models"
)

var DB *gorm.DB

func Connect() {
	var err error

	cfg := config.AppConfig
	if cfg.DBUser == "" {
		// No MySQL configured, fall back to a local SQLite file for development
		log.Println("DB_USER not set, using SQLite for development")
		DB, err = gorm.Open(sqlite.Open("contribution-service.db"), &gorm.Config{})
	} else {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	log.Println("Database connection established")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Member{},
		&models.ContributionCategory{},
		&models.Contribution{},
		&models.C2BTransaction{},
		&models.C2BCallback{},
		&models.ArchivedC2BCallback{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database migration completed")
}
