package internal

import "sort"

// Dataset maps a player name to that player's samples, ordered by tick
type Dataset map[string][]Sample

// TickRange is an inclusive [Start, End] tick interval
type TickRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Contains returns true if tick lies within the range, bounds included
func (r TickRange) Contains(tick uint64) bool {
	return tick >= r.Start && tick <= r.End
}

// PlayerSet is a set of player names
type PlayerSet map[string]struct{}

// NewPlayerSet creates a set holding the given names
func NewPlayerSet(names ...string) PlayerSet {
	set := make(PlayerSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has returns true if name is in the set
func (s PlayerSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members of the set in lexicographic order
func (s PlayerSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter returns a new dataset holding only the players in players. If ranges
// is non-nil, only the samples whose tick falls inside at least one of the
// ranges are kept - a nil ranges slice applies no tick filtering at all, whilst
// an empty non-nil slice keeps no samples. The source dataset is not modified.
func Filter(ds Dataset, players PlayerSet, ranges []TickRange) Dataset {
	res := make(Dataset)
	for name, samples := range ds {
		if !players.Has(name) {
			continue
		}

		if ranges == nil {
			res[name] = samples
			continue
		}

		kept := make([]Sample, 0, len(samples))
		for _, s := range samples {
			if inAnyRange(s.Tick, ranges) {
				kept = append(kept, s)
			}
		}
		res[name] = kept
	}
	return res
}

func inAnyRange(tick uint64, ranges []TickRange) bool {
	for _, r := range ranges {
		if r.Contains(tick) {
			return true
		}
	}
	return false
}

// Len returns the total number of samples held across all players
func (ds Dataset) Len() int {
	n := 0
	for _, samples := range ds {
		n += len(samples)
	}
	return n
}
