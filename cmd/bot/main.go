package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mvoronov/geobot/internal/config"
	"github.com/mvoronov/geobot/internal/database"
	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/internal/repositories"
	"github.com/mvoronov/geobot/pkg/logger"
	"github.com/mvoronov/geobot/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Geo quiz bot...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database with TLS
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the starter country catalog
	if err := database.SeedCountries(db); err != nil {
		logger.Warn("Failed to seed countries", "error", err)
	}

	reportPoolSizes(repositories.NewCountryRepository(db))

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	bot.Stop()
	logger.Info("Bot stopped")
}

// reportPoolSizes warns about difficulties with too few countries to fill a
// multiple-choice round without repeats.
func reportPoolSizes(countryRepo *repositories.CountryRepository) {
	for difficulty := models.MinDifficulty; difficulty <= models.MaxDifficulty; difficulty++ {
		for _, requireCapital := range []bool{false, true} {
			count, err := countryRepo.CountFor(difficulty, requireCapital)
			if err != nil {
				logger.Warn("Failed to count catalog pool", "difficulty", difficulty, "error", err)
				continue
			}
			if count < 12 {
				logger.Warn("Small country pool",
					"difficulty", difficulty,
					"capitals_only", requireCapital,
					"count", count,
				)
			}
		}
	}
}
