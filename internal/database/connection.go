package database

import (
	"fmt"
	"time"

	"github.com/mvoronov/geobot/internal/config"
	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// The bot is read-heavy (every question is a catalog draw); a modest
	// warm pool covers it.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Country{},
		&models.Score{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedCountries loads a starter catalog when the table is empty so a fresh
// deployment can play immediately. Real deployments import the full dataset
// with scripts/import_countries.
func SeedCountries(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Country{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding starter country catalog...")
	countries := []models.Country{
		{Code: "fr", Name: "France", Capital: "Paris", Region: "Europe", Subregion: "Western Europe", Difficulty: 1},
		{Code: "de", Name: "Germany", AltName: "Deutschland", Capital: "Berlin", Region: "Europe", Subregion: "Western Europe", Difficulty: 1},
		{Code: "it", Name: "Italy", Capital: "Rome", Region: "Europe", Subregion: "Southern Europe", Difficulty: 1},
		{Code: "es", Name: "Spain", Capital: "Madrid", Region: "Europe", Subregion: "Southern Europe", Difficulty: 1},
		{Code: "gb", Name: "United Kingdom", AltName: "Great Britain", Capital: "London", Region: "Europe", Subregion: "Northern Europe", Difficulty: 1},
		{Code: "us", Name: "United States", AltName: "USA", Capital: "Washington", Region: "Americas", Subregion: "Northern America", Difficulty: 1},
		{Code: "ru", Name: "Russia", AltName: "Russian Federation", Capital: "Moscow", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 1},
		{Code: "cn", Name: "China", Capital: "Beijing", Region: "Asia", Subregion: "Eastern Asia", Difficulty: 1},
		{Code: "jp", Name: "Japan", Capital: "Tokyo", Region: "Asia", Subregion: "Eastern Asia", Difficulty: 1},
		{Code: "br", Name: "Brazil", Capital: "Brasilia", Region: "Americas", Subregion: "South America", Difficulty: 1},
		{Code: "in", Name: "India", Capital: "New Delhi", Region: "Asia", Subregion: "Southern Asia", Difficulty: 1},
		{Code: "au", Name: "Australia", Capital: "Canberra", Region: "Oceania", Subregion: "Australia and New Zealand", Difficulty: 1},
		{Code: "ca", Name: "Canada", Capital: "Ottawa", Region: "Americas", Subregion: "Northern America", Difficulty: 1},
		{Code: "eg", Name: "Egypt", Capital: "Cairo", Region: "Africa", Subregion: "Northern Africa", Difficulty: 1},
		{Code: "mx", Name: "Mexico", Capital: "Mexico City", Region: "Americas", Subregion: "Central America", Difficulty: 1},
		{Code: "pl", Name: "Poland", Capital: "Warsaw", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 2},
		{Code: "pt", Name: "Portugal", Capital: "Lisbon", Region: "Europe", Subregion: "Southern Europe", Difficulty: 2},
		{Code: "gr", Name: "Greece", AltName: "Hellas", Capital: "Athens", Region: "Europe", Subregion: "Southern Europe", Difficulty: 2},
		{Code: "se", Name: "Sweden", Capital: "Stockholm", Region: "Europe", Subregion: "Northern Europe", Difficulty: 2},
		{Code: "no", Name: "Norway", Capital: "Oslo", Region: "Europe", Subregion: "Northern Europe", Difficulty: 2},
		{Code: "tr", Name: "Turkey", AltName: "Turkiye", Capital: "Ankara", Region: "Asia", Subregion: "Western Asia", Difficulty: 2},
		{Code: "ar", Name: "Argentina", Capital: "Buenos Aires", Region: "Americas", Subregion: "South America", Difficulty: 2},
		{Code: "za", Name: "South Africa", Capital: "Pretoria", Region: "Africa", Subregion: "Southern Africa", Difficulty: 2},
		{Code: "kr", Name: "South Korea", AltName: "Republic of Korea", Capital: "Seoul", Region: "Asia", Subregion: "Eastern Asia", Difficulty: 2},
		{Code: "th", Name: "Thailand", Capital: "Bangkok", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 2},
		{Code: "nl", Name: "Netherlands", AltName: "Holland", Capital: "Amsterdam", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "ch", Name: "Switzerland", Capital: "Bern", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "at", Name: "Austria", Capital: "Vienna", Region: "Europe", Subregion: "Western Europe", Difficulty: 2},
		{Code: "ua", Name: "Ukraine", Capital: "Kyiv", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 2},
		{Code: "id", Name: "Indonesia", Capital: "Jakarta", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 2},
		{Code: "pe", Name: "Peru", Capital: "Lima", Region: "Americas", Subregion: "South America", Difficulty: 3},
		{Code: "vn", Name: "Vietnam", Capital: "Hanoi", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 3},
		{Code: "ma", Name: "Morocco", Capital: "Rabat", Region: "Africa", Subregion: "Northern Africa", Difficulty: 3},
		{Code: "ke", Name: "Kenya", Capital: "Nairobi", Region: "Africa", Subregion: "Eastern Africa", Difficulty: 3},
		{Code: "nz", Name: "New Zealand", Capital: "Wellington", Region: "Oceania", Subregion: "Australia and New Zealand", Difficulty: 3},
		{Code: "cl", Name: "Chile", Capital: "Santiago", Region: "Americas", Subregion: "South America", Difficulty: 3},
		{Code: "fi", Name: "Finland", AltName: "Suomi", Capital: "Helsinki", Region: "Europe", Subregion: "Northern Europe", Difficulty: 3},
		{Code: "ie", Name: "Ireland", AltName: "Eire", Capital: "Dublin", Region: "Europe", Subregion: "Northern Europe", Difficulty: 3},
		{Code: "cu", Name: "Cuba", Capital: "Havana", Region: "Americas", Subregion: "Caribbean", Difficulty: 3},
		{Code: "is", Name: "Iceland", Capital: "Reykjavik", Region: "Europe", Subregion: "Northern Europe", Difficulty: 3},
		{Code: "hu", Name: "Hungary", Capital: "Budapest", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 3},
		{Code: "cz", Name: "Czechia", AltName: "Czech Republic", Capital: "Prague", Region: "Europe", Subregion: "Eastern Europe", Difficulty: 3},
		{Code: "ng", Name: "Nigeria", Capital: "Abuja", Region: "Africa", Subregion: "Western Africa", Difficulty: 3},
		{Code: "co", Name: "Colombia", Capital: "Bogota", Region: "Americas", Subregion: "South America", Difficulty: 3},
		{Code: "my", Name: "Malaysia", Capital: "Kuala Lumpur", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 3},
		{Code: "uz", Name: "Uzbekistan", Capital: "Tashkent", Region: "Asia", Subregion: "Central Asia", Difficulty: 4},
		{Code: "bo", Name: "Bolivia", Capital: "Sucre", Region: "Americas", Subregion: "South America", Difficulty: 4},
		{Code: "tn", Name: "Tunisia", Capital: "Tunis", Region: "Africa", Subregion: "Northern Africa", Difficulty: 4},
		{Code: "lk", Name: "Sri Lanka", Capital: "Colombo", Region: "Asia", Subregion: "Southern Asia", Difficulty: 4},
		{Code: "np", Name: "Nepal", Capital: "Kathmandu", Region: "Asia", Subregion: "Southern Asia", Difficulty: 4},
		{Code: "ee", Name: "Estonia", Capital: "Tallinn", Region: "Europe", Subregion: "Northern Europe", Difficulty: 4},
		{Code: "lv", Name: "Latvia", Capital: "Riga", Region: "Europe", Subregion: "Northern Europe", Difficulty: 4},
		{Code: "lt", Name: "Lithuania", Capital: "Vilnius", Region: "Europe", Subregion: "Northern Europe", Difficulty: 4},
		{Code: "gh", Name: "Ghana", Capital: "Accra", Region: "Africa", Subregion: "Western Africa", Difficulty: 4},
		{Code: "py", Name: "Paraguay", Capital: "Asuncion", Region: "Americas", Subregion: "South America", Difficulty: 4},
		{Code: "kh", Name: "Cambodia", AltName: "Kampuchea", Capital: "Phnom Penh", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 4},
		{Code: "sn", Name: "Senegal", Capital: "Dakar", Region: "Africa", Subregion: "Western Africa", Difficulty: 4},
		{Code: "mn", Name: "Mongolia", Capital: "Ulaanbaatar", Region: "Asia", Subregion: "Eastern Asia", Difficulty: 4},
		{Code: "uy", Name: "Uruguay", Capital: "Montevideo", Region: "Americas", Subregion: "South America", Difficulty: 4},
		{Code: "bt", Name: "Bhutan", Capital: "Thimphu", Region: "Asia", Subregion: "Southern Asia", Difficulty: 5},
		{Code: "sr", Name: "Suriname", Capital: "Paramaribo", Region: "Americas", Subregion: "South America", Difficulty: 5},
		{Code: "bj", Name: "Benin", AltName: "Dahomey", Capital: "Porto-Novo", Region: "Africa", Subregion: "Western Africa", Difficulty: 5},
		{Code: "tm", Name: "Turkmenistan", Capital: "Ashgabat", Region: "Asia", Subregion: "Central Asia", Difficulty: 5},
		{Code: "vu", Name: "Vanuatu", Capital: "Port Vila", Region: "Oceania", Subregion: "Melanesia", Difficulty: 5},
		{Code: "ls", Name: "Lesotho", Capital: "Maseru", Region: "Africa", Subregion: "Southern Africa", Difficulty: 5},
		{Code: "kg", Name: "Kyrgyzstan", AltName: "Kirghizia", Capital: "Bishkek", Region: "Asia", Subregion: "Central Asia", Difficulty: 5},
		{Code: "gy", Name: "Guyana", Capital: "Georgetown", Region: "Americas", Subregion: "South America", Difficulty: 5},
		{Code: "mw", Name: "Malawi", Capital: "Lilongwe", Region: "Africa", Subregion: "Eastern Africa", Difficulty: 5},
		{Code: "fj", Name: "Fiji", Capital: "Suva", Region: "Oceania", Subregion: "Melanesia", Difficulty: 5},
		{Code: "bn", Name: "Brunei", AltName: "Brunei Darussalam", Capital: "Bandar Seri Begawan", Region: "Asia", Subregion: "South-Eastern Asia", Difficulty: 5},
		{Code: "sm", Name: "San Marino", Capital: "San Marino", Region: "Europe", Subregion: "Southern Europe", Difficulty: 5},
		{Code: "mv", Name: "Maldives", Capital: "Male", Region: "Asia", Subregion: "Southern Asia", Difficulty: 5},
		{Code: "nr", Name: "Nauru", Region: "Oceania", Subregion: "Micronesia", Difficulty: 5},
	}

	if err := db.Create(&countries).Error; err != nil {
		return fmt.Errorf("failed to seed countries: %w", err)
	}

	logger.Info("Seeded starter catalog", "countries", len(countries))
	return nil
}
