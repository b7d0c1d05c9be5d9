package main

import (
	"log"

	"contribution-service/internal/config"
	"contribution-service/internal/database"
)

func main() {
	config.InitConfig()

	// Initialize Database
	database.Connect()

	// Run Migrations
	log.Println("Running database migrations...")
	database.Migrate()

	log.Println("Migrations completed successfully!")
}
