package repositories

import (
	"math/rand"

	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/pkg/errors"
	"gorm.io/gorm"
)

type CountryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// RandomUnused draws one random country of the given difficulty whose code is
// not in the exclusion set. requireCapital additionally filters out countries
// without a capital (the capitals game cannot ask about them).
// Fails with EMPTY_CATALOG when no row satisfies the filter.
func (r *CountryRepository) RandomUnused(difficulty int, requireCapital bool, excluding []string) (*models.Country, error) {
	var countries []models.Country

	query := r.db.Where("difficulty = ?", difficulty)
	if requireCapital {
		query = query.Where("capital <> ''")
	}
	if len(excluding) > 0 {
		query = query.Where("code NOT IN ?", excluding)
	}

	if err := query.Find(&countries).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to query countries")
	}
	if len(countries) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyCatalog, "no unused country for the active filter")
	}

	country := countries[rand.Intn(len(countries))]
	return &country, nil
}

// GetByCode retrieves a single country by its code.
func (r *CountryRepository) GetByCode(code string) (*models.Country, error) {
	var country models.Country
	result := r.db.Where("code = ?", code).First(&country)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "country not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get country")
	}

	return &country, nil
}

// CountFor reports how many countries satisfy the given filter. Used at
// startup to verify each difficulty pool is large enough for a full game
// plus its multiple-choice options.
func (r *CountryRepository) CountFor(difficulty int, requireCapital bool) (int64, error) {
	var count int64
	query := r.db.Model(&models.Country{}).Where("difficulty = ?", difficulty)
	if requireCapital {
		query = query.Where("capital <> ''")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count countries")
	}
	return count, nil
}
