package models

import (
	"time"

	"github.com/mvoronov/geobot/pkg/fuzzy"
)

// Country is a row of the reference catalog the games draw questions from.
// Identity is the ISO-style short code.
type Country struct {
	ID         uint      `gorm:"primaryKey"`
	Code       string    `gorm:"uniqueIndex;type:varchar(3);not null"`
	Name       string    `gorm:"type:varchar(120);not null"`
	AltName    string    `gorm:"type:varchar(120)"` // second accepted name, optional
	Capital    string    `gorm:"type:varchar(120)"` // optional
	Region     string    `gorm:"type:varchar(80);not null"`
	Subregion  string    `gorm:"type:varchar(80);not null"`
	Difficulty int       `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Difficulty bounds accepted by the games.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

func (c *Country) HasAltName() bool {
	return c.AltName != ""
}

func (c *Country) HasCapital() bool {
	return c.Capital != ""
}

// MatchesName checks a guess against the primary name and, when present, the
// alternate name. Each name carries its own length-derived tolerance.
func (c *Country) MatchesName(guess string) bool {
	if fuzzy.Match(guess, c.Name) {
		return true
	}
	return c.HasAltName() && fuzzy.Match(guess, c.AltName)
}

func (c *Country) MatchesCapital(guess string) bool {
	if !c.HasCapital() {
		return false
	}
	return fuzzy.Match(guess, c.Capital)
}

func (Country) TableName() string {
	return "countries"
}
