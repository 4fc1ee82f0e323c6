package internal

import "sort"

// Selection holds the players and rounds currently chosen for display. It is
// treated as a value: toggling returns a new selection and leaves the
// receiver untouched.
type Selection struct {
	Players PlayerSet
	Rounds  map[uint32]struct{}
}

// SelectAll creates a selection holding every player and every round of the
// decoded match
func SelectAll(result *ParseResult) Selection {
	sel := Selection{
		Players: make(PlayerSet, len(result.Players)),
		Rounds:  make(map[uint32]struct{}, len(result.Rounds)),
	}
	for _, p := range result.Players {
		sel.Players[p.Name] = struct{}{}
	}
	for _, r := range result.Rounds {
		sel.Rounds[r.Index] = struct{}{}
	}
	return sel
}

// TogglePlayer returns a copy of the selection with player flipped in or out
func (s Selection) TogglePlayer(player string) Selection {
	players := make(PlayerSet, len(s.Players)+1)
	for name := range s.Players {
		players[name] = struct{}{}
	}
	if players.Has(player) {
		delete(players, player)
	} else {
		players[player] = struct{}{}
	}
	return Selection{Players: players, Rounds: s.Rounds}
}

// ToggleRound returns a copy of the selection with round flipped in or out
func (s Selection) ToggleRound(round uint32) Selection {
	rounds := make(map[uint32]struct{}, len(s.Rounds)+1)
	for idx := range s.Rounds {
		rounds[idx] = struct{}{}
	}
	if _, ok := rounds[round]; ok {
		delete(rounds, round)
	} else {
		rounds[round] = struct{}{}
	}
	return Selection{Players: s.Players, Rounds: rounds}
}

// HasRound returns true if the round index is selected
func (s Selection) HasRound(round uint32) bool {
	_, ok := s.Rounds[round]
	return ok
}

// SortedRounds returns the selected round indices in ascending order
func (s Selection) SortedRounds() []uint32 {
	rounds := make([]uint32, 0, len(s.Rounds))
	for idx := range s.Rounds {
		rounds = append(rounds, idx)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i] < rounds[j] })
	return rounds
}

// TickRanges translates the selected rounds into the tick intervals they
// cover. A match without any decoded round yields nil (no tick filtering), so
// positions are still shown for demos that never left warmup.
func (s Selection) TickRanges(rounds []Round) []TickRange {
	if len(rounds) == 0 {
		return nil
	}
	ranges := make([]TickRange, 0, len(s.Rounds))
	for _, r := range rounds {
		if s.HasRound(r.Index) {
			ranges = append(ranges, r.TickRange())
		}
	}
	return ranges
}
