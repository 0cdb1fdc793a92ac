// Package leaderboard ranks the score table and renders the window of it a
// player sees: the top three, the player's own neighborhood, and ellipsis
// markers for everything skipped.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mvoronov/geobot/internal/models"
)

// Entry is one rendered leaderboard row.
type Entry struct {
	PlayerID    int64
	DisplayName string
	TotalScore  int64
}

const ellipsis = ". . .\n"

// FromScores converts ledger rows (already sorted descending) into entries.
func FromScores(scores []models.Score) []Entry {
	entries := make([]Entry, len(scores))
	for i, s := range scores {
		entries[i] = Entry{
			PlayerID:    s.PlayerID,
			DisplayName: s.DisplayName,
			TotalScore:  s.TotalScore,
		}
	}
	return entries
}

// Rank returns the 0-based rank of the given score within the descending
// table: the number of entries with a strictly greater total. Players with
// equal totals share the highest position among them.
func Rank(table []Entry, score int64) int {
	return sort.Search(len(table), func(i int) bool {
		return table[i].TotalScore <= score
	})
}

// Render formats the table window around rank, per line "N. name: score".
// Small tables list everything; otherwise the top three always show, followed
// by the player's neighborhood and ellipsis markers for the gaps.
func Render(table []Entry, rank int) string {
	var b strings.Builder

	line := func(i int) {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, table[i].DisplayName, table[i].TotalScore)
	}

	if len(table) <= 3 {
		for i := range table {
			line(i)
		}
		return b.String()
	}

	for i := 0; i < 3; i++ {
		line(i)
	}

	if rank < 3 {
		b.WriteString(ellipsis)
		return b.String()
	}

	if rank <= 5 {
		for i := 3; i <= rank && i < len(table); i++ {
			line(i)
		}
		b.WriteString(ellipsis)
		return b.String()
	}

	b.WriteString(ellipsis)
	for i := rank - 2; i <= rank && i < len(table); i++ {
		line(i)
	}
	if len(table)-2 >= rank {
		b.WriteString(ellipsis)
	}
	return b.String()
}
