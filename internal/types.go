package internal

// Sample holds a single recorded position of a player at a specific in-game
// tick
type Sample struct {
	Player string  `json:"player"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Tick   uint64  `json:"tick"`
}

// Player holds data describing a player within the match, the name doubles as
// the player's identity
type Player struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// Round holds data describing a single played round
type Round struct {
	Index      uint32 `json:"index"`
	StartTick  uint64 `json:"startTick"`
	EndTick    uint64 `json:"endTick"`
	WinnerTeam string `json:"winnerTeam"`
	TeamT      string `json:"teamT"`
	TeamCT     string `json:"teamCT"`
	ScoreT     uint32 `json:"scoreT"`
	ScoreCT    uint32 `json:"scoreCT"`
}

// TickRange returns the inclusive tick interval covered by the round
func (r Round) TickRange() TickRange {
	return TickRange{Start: r.StartTick, End: r.EndTick}
}

// ParseResult holds everything extracted from a single demo file - it is
// never modified once decoded
type ParseResult struct {
	Positions Dataset  `json:"positions"`
	Players   []Player `json:"players"`
	Rounds    []Round  `json:"rounds"`
	MapName   string   `json:"mapName"`
	TickRate  uint32   `json:"tickRate"`
}

// PlayerNames returns the names of every player in the roster, sorted
// lexicographically
func (r *ParseResult) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return SortedNames(names)
}

// RoundIndices returns the index of every decoded round
func (r *ParseResult) RoundIndices() []uint32 {
	indices := make([]uint32, 0, len(r.Rounds))
	for _, round := range r.Rounds {
		indices = append(indices, round.Index)
	}
	return indices
}

// Teams returns the distinct team names in the roster, sorted
func Teams(result *ParseResult) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, p := range result.Players {
		if !seen[p.Team] {
			seen[p.Team] = true
			teams = append(teams, p.Team)
		}
	}
	return SortedNames(teams)
}

// TeamPlayers returns the players belonging to the given team, sorted by name
func TeamPlayers(result *ParseResult, team string) []Player {
	var players []Player
	for _, p := range result.Players {
		if p.Team == team {
			players = append(players, p)
		}
	}
	sortPlayers(players)
	return players
}
