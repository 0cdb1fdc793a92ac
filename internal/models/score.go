package models

import "time"

// Score is the cumulative ledger row, one per player. Totals only grow:
// every finished game adds its points to TotalScore.
type Score struct {
	ID          uint      `gorm:"primaryKey"`
	PlayerID    int64     `gorm:"uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(255);not null"`
	TotalScore  int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Score) TableName() string {
	return "scores"
}
