package repositories

import (
	"github.com/mvoronov/geobot/internal/models"
	"github.com/mvoronov/geobot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// GetTotal returns the player's cumulative score. Fails with NOT_FOUND when
// the player has never finished a game.
func (r *ScoreRepository) GetTotal(playerID int64) (int64, error) {
	var score models.Score
	result := r.db.Where("player_id = ?", playerID).First(&score)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, errors.New(errors.ErrCodeNotFound, "no score recorded for player")
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get score")
	}

	return score.TotalScore, nil
}

// UpsertAdd adds delta to the player's total inside one transaction, creating
// the row on the player's first finished game. Concurrent completions for the
// same player serialize on the row lock.
func (r *ScoreRepository) UpsertAdd(playerID int64, displayName string, delta int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var score models.Score
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", playerID).First(&score).Error

		if err == gorm.ErrRecordNotFound {
			score = models.Score{
				PlayerID:    playerID,
				DisplayName: displayName,
				TotalScore:  delta,
			}
			if err := tx.Create(&score).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create score")
			}
			return nil
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get score")
		}

		updates := map[string]interface{}{
			"total_score":  score.TotalScore + delta,
			"display_name": displayName,
		}
		if err := tx.Model(&score).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update score")
		}
		return nil
	})
}

// GetTable returns every ledger row sorted by total descending.
func (r *ScoreRepository) GetTable() ([]models.Score, error) {
	var scores []models.Score
	if err := r.db.Order("total_score DESC").Find(&scores).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load score table")
	}
	return scores, nil
}
