package internal

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
)

// Color is a plain RGB triple, opacity is supplied separately by the caller
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// UnknownColor is returned for players missing from the roster
var UnknownColor = Color{0, 0, 0}

// Palette holds the colours handed out to players, in roster order
var Palette = [...]Color{
	{0, 140, 255},
	{255, 140, 255},
	{255, 0, 255},
	{255, 0, 0},
	{255, 132, 97},
	{0, 183, 32},
	{238, 183, 32},
	{10, 183, 164},
	{198, 197, 0},
	{42, 197, 255},
	{221, 91, 90},
}

// PlayerColor returns the colour of player, chosen by its position within the
// sorted full roster. The roster (not a filtered selection) must be used so a
// player keeps the same colour whatever is selected.
func PlayerColor(sortedRoster []string, player string) Color {
	idx := sort.SearchStrings(sortedRoster, player)
	if idx >= len(sortedRoster) || sortedRoster[idx] != player {
		return UnknownColor
	}
	return Palette[idx%len(Palette)]
}

// ColorString formats the colour as a css rgba() string with the given opacity
func ColorString(c Color, alpha float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// NRGBA converts the colour to a non-premultiplied image colour with the given
// opacity, clamped to [0, 1]
func (c Color) NRGBA(alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

// SortedNames returns a sorted copy of names
func SortedNames(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return sorted
}

func sortPlayers(players []Player) {
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
}
