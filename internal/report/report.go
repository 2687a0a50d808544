// Package report formats benchmark summaries for the terminal and for files.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"battlesim/internal/bench"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func line(b *strings.Builder, label, format string, args ...any) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", label)))
	b.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
	b.WriteString("\n")
}

// Render draws the boxed benchmark summary.
func Render(s bench.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BENCHMARK RESULTS"))
	b.WriteString("\n\n")

	games := s.Games
	pct := func(n int) float64 {
		if games == 0 {
			return 0
		}
		return 100 * float64(n) / float64(games)
	}
	line(&b, "Games played", "%d (%d workers, seed %d)", games, s.Workers, s.Seed)
	line(&b, s.Player+" wins", "%d (%.1f%%)", s.Wins, pct(s.Wins))
	line(&b, s.Opponent+" wins", "%d (%.1f%%)", s.Losses, pct(s.Losses))
	line(&b, "Ties", "%d", s.Ties)
	line(&b, "Avg moves per game", "%.1f (%.1f%% of max)", s.AvgMoves, s.MovesPercent)
	if s.Wins > 0 {
		line(&b, "Win move range", "%d-%d", s.MinMovesWin, s.MaxMovesWin)
	}
	if s.Losses > 0 {
		line(&b, "Loss move range", "%d-%d", s.MinMovesLoss, s.MaxMovesLoss)
	}
	line(&b, "Avg time per game", "%.3fms", s.AvgGameMs)
	line(&b, "Wall time", "%.0fms", s.WallMs)
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderGuards lists the records captured around a guard trip.
func RenderGuards(games int, entries []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("GUARD TRIPPED after %d games!", games)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Debug log (last %d entries):", len(entries))))
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(e)
	}
	return boxStyle.Render(b.String())
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
