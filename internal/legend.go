package internal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// PrintLegend writes the roster, grouped by team, with every player name
// printed in the colour it is drawn in, followed by the round list. Players
// and rounds which are not selected are marked as hidden.
func PrintLegend(w io.Writer, result *ParseResult, sel Selection) {
	roster := result.PlayerNames()

	nameWidth := 0
	for _, name := range roster {
		if width := runewidth.StringWidth(name); width > nameWidth {
			nameWidth = width
		}
	}

	fmt.Fprintf(w, "\n> Map: %s (%d tick)\n", result.MapName, result.TickRate)

	for _, team := range Teams(result) {
		fmt.Fprintf(w, "\n> Team %s\n\n", team)
		for _, p := range TeamPlayers(result, team) {
			c := PlayerColor(roster, p.Name)
			swatch := color.RGB(int(c.R), int(c.G), int(c.B))

			status := ""
			if !sel.Players.Has(p.Name) {
				status = "(hidden)"
			}
			samples := len(result.Positions[p.Name])
			fmt.Fprintf(w, "  %s  %8d samples  %s\n", swatch.Sprint(runewidth.FillRight(p.Name, nameWidth)), samples, status)
		}
	}

	if len(result.Rounds) == 0 {
		fmt.Fprintf(w, "\n> No rounds recorded\n\n")
		return
	}

	fmt.Fprintf(w, "\n> Rounds\n\n")
	for _, r := range result.Rounds {
		status := ""
		if !sel.HasRound(r.Index) {
			status = "(hidden)"
		}
		fmt.Fprintf(w, "  #%-3d ticks %7d - %-7d  %s %d : %d %s  winner: %s  %s\n",
			r.Index, r.StartTick, r.EndTick, r.TeamT, r.ScoreT, r.ScoreCT, r.TeamCT, r.WinnerTeam, status)
	}
	fmt.Fprintln(w)
}
