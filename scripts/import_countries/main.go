package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mvoronov/geobot/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if len(os.Args) < 2 {
		log.Fatal("usage: import_countries <countries.xlsx>")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()

	totalImported := 0

	for _, sheetName := range sheets {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 7 { // Skip header or invalid rows
				continue
			}

			// row[0]: ISO code (flagpedia style, e.g. "fr")
			// row[1]: Name
			// row[2]: Alternative name (may be empty)
			// row[3]: Capital (may be empty)
			// row[4]: Region
			// row[5]: Subregion
			// row[6]: Difficulty 1-5

			code := strings.ToLower(strings.TrimSpace(row[0]))
			if code == "" {
				fmt.Printf("Missing country code in row %d\n", i)
				continue
			}

			difficulty, err := strconv.Atoi(strings.TrimSpace(row[6]))
			if err != nil || difficulty < models.MinDifficulty || difficulty > models.MaxDifficulty {
				fmt.Printf("Invalid difficulty %q in row %d\n", row[6], i)
				continue
			}

			country := models.Country{
				Code:       code,
				Name:       strings.TrimSpace(row[1]),
				AltName:    strings.TrimSpace(row[2]),
				Capital:    strings.TrimSpace(row[3]),
				Region:     strings.TrimSpace(row[4]),
				Subregion:  strings.TrimSpace(row[5]),
				Difficulty: difficulty,
			}

			err = db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "alt_name", "capital", "region", "subregion", "difficulty"}),
			}).Create(&country).Error
			if err != nil {
				fmt.Printf("Error importing country in row %d: %v\n", i, err)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d countries.\n", totalImported)
}
