// Package roster derives filtered views and aggregate numbers from the player list.
package roster

import (
	"math"
	"sort"
	"strings"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
)

// AllPositions disables the position filter.
const AllPositions = "todos"

type SortKey string

const (
	SortByName       SortKey = "nome"
	SortByAttendance SortKey = "presenca"
	SortByAge        SortKey = "idade"
)

type Criteria struct {
	Search   string
	Position string
	SortBy   SortKey
}

type Stats struct {
	TotalPlayers      int `json:"totalJogadores"`
	AverageAttendance int `json:"presencaMedia"`
	TotalTrophies     int `json:"totalTrofeus"`
	TotalMedals       int `json:"totalMedalhas"`
}

// Filter returns a new slice; players is never reordered in place.
//
// Search is a case-insensitive substring match on name or position. Position
// matching is exact and case-sensitive. Name sorts ascending while attendance
// and age sort descending.
func Filter(players []model.Player, c Criteria) []model.Player {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Position), search) {
			continue
		}
		if c.Position != "" && c.Position != AllPositions && p.Position != c.Position {
			continue
		}
		out = append(out, p)
	}

	switch c.SortBy {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortByAttendance:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AttendancePercentage > out[j].AttendancePercentage })
	case SortByAge:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Age > out[j].Age })
	}
	return out
}

// Compute aggregates over the whole roster. The average is rounded and is 0
// for an empty roster.
func Compute(players []model.Player) Stats {
	stats := Stats{TotalPlayers: len(players)}
	sum := 0
	for _, p := range players {
		sum += p.AttendancePercentage
		stats.TotalTrophies += len(p.Trophies)
		stats.TotalMedals += len(p.Medals)
	}
	denominator := len(players)
	if denominator == 0 {
		denominator = 1
	}
	stats.AverageAttendance = int(math.Round(float64(sum) / float64(denominator)))
	return stats
}

// Positions lists the distinct positions in first-seen order.
func Positions(players []model.Player) []string {
	seen := make(map[string]bool, len(players))
	positions := make([]string, 0)
	for _, p := range players {
		if p.Position == "" || seen[p.Position] {
			continue
		}
		seen[p.Position] = true
		positions = append(positions, p.Position)
	}
	return positions
}
