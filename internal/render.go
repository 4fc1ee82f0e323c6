package internal

import "fmt"

// StampAlpha returns the opacity of a single density stamp for a demo recorded
// at tickRate. Fewer samples per second means each one is painted more
// opaque, so heatmaps of demos with different tick rates read alike.
func StampAlpha(tickRate uint32) float64 {
	if tickRate == 0 {
		return BaseAlpha
	}
	return BaseAlpha * ReferenceTickRate / float64(tickRate)
}

// Render repaints the surface mounted under id with the selected part of the
// decoded match. The whole surface is cleared first, then one translucent
// stamp is painted per remaining sample, coloured by player.
func Render(surfaces Surfaces, id string, dim Dimensions, result *ParseResult, sel Selection) error {
	surface, err := surfaces.Surface(id, dim)
	if err != nil {
		return fmt.Errorf("unable to acquire surface: %w", err)
	}

	surface.Clear()

	size := surface.Size()
	height := float64(size.Height)
	targetMax := float64(size.Height)
	if size.Width < size.Height {
		targetMax = float64(size.Width)
	}

	normalized := NormalizePositions(targetMax, result.Positions)
	filtered := Filter(normalized, sel.Players, sel.TickRanges(result.Rounds))

	roster := result.PlayerNames()
	alpha := StampAlpha(result.TickRate)

	for name, samples := range filtered {
		fill := PlayerColor(roster, name).NRGBA(alpha)
		for _, s := range samples {
			surface.FillRect(s.X, height-s.Y, StampSize, StampSize, fill)
		}
	}

	return nil
}
