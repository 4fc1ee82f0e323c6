package internal

// Restrict returns the toggle events which narrow the default "everything
// selected" selection down to the given players and rounds. An empty list
// leaves that part of the selection untouched. Names and indices which are
// not part of the match are returned as unknown.
func Restrict(result *ParseResult, players []string, rounds []int) (toggles []Event, unknownPlayers []string, unknownRounds []int) {
	if len(players) > 0 {
		keep := NewPlayerSet(players...)
		roster := NewPlayerSet(result.PlayerNames()...)

		for _, name := range result.PlayerNames() {
			if !keep.Has(name) {
				toggles = append(toggles, PlayerToggled{Player: name})
			}
		}
		for _, name := range players {
			if !roster.Has(name) {
				unknownPlayers = append(unknownPlayers, name)
			}
		}
	}

	if len(rounds) > 0 {
		keep := make(map[uint32]bool, len(rounds))
		for _, r := range rounds {
			keep[uint32(r)] = true
		}
		known := make(map[uint32]bool, len(result.Rounds))

		for _, r := range result.Rounds {
			known[r.Index] = true
			if !keep[r.Index] {
				toggles = append(toggles, RoundToggled{Round: r.Index})
			}
		}
		for _, r := range rounds {
			if !known[uint32(r)] {
				unknownRounds = append(unknownRounds, r)
			}
		}
	}

	return toggles, unknownPlayers, unknownRounds
}
