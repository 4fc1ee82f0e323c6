package internal

const (
	// Version denotes the current application version (following semantic
	// versioning)
	Version string = "0.1.0"

	// CanvasID is the identifier the heatmap surface is mounted under
	CanvasID string = "csgo-canvas"

	// StampSize is the width and height (in pixels) of the square painted for
	// every position sample
	StampSize float64 = 2

	// BaseAlpha is the opacity of a single density stamp for a demo recorded at
	// ReferenceTickRate
	BaseAlpha float64 = 0.05

	// ReferenceTickRate is the tick rate BaseAlpha is calibrated against, demos
	// recorded at a different rate have their stamp opacity scaled accordingly
	ReferenceTickRate float64 = 64

	// DefaultTickRate is used when the demo header does not carry a usable tick
	// rate
	DefaultTickRate uint32 = 64

	// MaxRounds is the number of rounds a team has to exceed to win the match
	// in regulation (mr15)
	MaxRounds int = 15

	// TeamSideT is the fallback team name for the terrorist side when a team
	// has no clan name set
	TeamSideT string = "T"

	// TeamSideCT is the fallback team name for the counter-terrorist side when
	// a team has no clan name set
	TeamSideCT string = "CT"
)
