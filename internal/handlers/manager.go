package handlers

import (
	"github.com/mvoronov/geobot/internal/config"
	"github.com/mvoronov/geobot/internal/game"
	"github.com/mvoronov/geobot/internal/geo"
	"github.com/mvoronov/geobot/internal/models"
	"gorm.io/gorm"
)

// BotInterface is the slice of the Telegram bot the handlers need. Tests
// substitute a recording fake.
type BotInterface interface {
	SendMessage(chatID int64, text string, keyboard interface{}) int
	SendPhoto(chatID int64, photoURL string, caption string, keyboard interface{}) int
}

// Ledger is the score store: finished games flush into it, the score and
// leaderboard commands read from it.
type Ledger interface {
	UpsertAdd(playerID int64, displayName string, delta int64) error
	GetTotal(playerID int64) (int64, error)
	GetTable() ([]models.Score, error)
}

type HandlerManager struct {
	Config      *config.Config
	DB          *gorm.DB
	CountryRepo game.Catalog
	ScoreRepo   Ledger
	Geocoder    geo.Geocoder
	Registry    *game.Registry
}

func NewHandlerManager(
	cfg *config.Config,
	db *gorm.DB,
	countryRepo game.Catalog,
	scoreRepo Ledger,
	geocoder geo.Geocoder,
) *HandlerManager {
	return &HandlerManager{
		Config:      cfg,
		DB:          db,
		CountryRepo: countryRepo,
		ScoreRepo:   scoreRepo,
		Geocoder:    geocoder,
		Registry:    game.NewRegistry(),
	}
}
