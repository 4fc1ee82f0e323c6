package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	dem "github.com/markus-wa/demoinfocs-golang/v2/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v2/pkg/demoinfocs/common"
	events "github.com/markus-wa/demoinfocs-golang/v2/pkg/demoinfocs/events"
)

// DemoFile is a file handed to the application, typically by dropping it
type DemoFile interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a DemoFile read from disk
type LocalFile string

// Name returns the base name of the file
func (f LocalFile) Name() string {
	return filepath.Base(string(f))
}

// Open opens the file for reading
func (f LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

// MemoryFile is a DemoFile already held in memory (e.g. an upload)
type MemoryFile struct {
	FileName string
	Data     []byte
}

// Name returns the name the file was supplied under
func (f MemoryFile) Name() string {
	return f.FileName
}

// Open returns a reader over the file contents
func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// Decoder turns a demo file into the positions, players and rounds it holds
type Decoder interface {
	Decode(ctx context.Context, file DemoFile) (*ParseResult, error)
}

// DemoDecoder decodes CS:GO demo files using demoinfocs-golang
type DemoDecoder struct {
	// Progress, if set, is called with the fraction of the file parsed so far
	// (whenever it advances by at least a percent)
	Progress func(fraction float64)
}

// Decode parses the whole demo file. Every tick, the position of each alive
// human player is recorded; rounds are recorded from the start of the match
// until the match has been decided.
func (d *DemoDecoder) Decode(ctx context.Context, file DemoFile) (result *ParseResult, err error) {
	// demoinfocs panics on some corrupt or truncated demos
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: parser crashed (demo may be corrupted or incomplete): %v", ErrDecode, file.Name(), r)
		}
	}()

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, file.Name(), err)
	}
	defer f.Close()

	p := dem.NewParser(f)
	defer p.Close()

	var t tracker
	t.register(p)

	lastProgress := 0.0
	for {
		// a broken header is reported without any frame being parsed
		ok, parseErr := p.ParseNextFrame()
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, file.Name(), parseErr)
		}
		if !ok {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if d.Progress != nil {
			if progress := float64(p.Progress()); progress-lastProgress >= 0.01 {
				lastProgress = progress
				d.Progress(progress)
			}
		}
	}
	if d.Progress != nil {
		d.Progress(1)
	}

	tickRate := DefaultTickRate
	if tr := p.TickRate(); tr > 0 && !math.IsInf(tr, 0) {
		tickRate = uint32(math.Round(tr))
	}

	return t.result(p.Header().MapName, tickRate), nil
}

// tracker accumulates positions, rounds and the roster whilst a demo is parsed
type tracker struct {
	positions     Dataset
	roster        map[string]Player
	rounds        []Round
	current       *Round
	lastTick      int
	matchFinished bool
}

func (t *tracker) register(p dem.Parser) {
	t.positions = make(Dataset)
	t.roster = make(map[string]Player)
	t.lastTick = -1

	p.RegisterEventHandler(func(e events.MatchStart) {
		// discard anything recorded during warmup
		t.matchFinished = false
		t.rounds = nil
		t.current = nil

		for _, player := range p.GameState().Participants().Playing() {
			if player.IsBot {
				continue
			}
			t.roster[player.Name] = Player{
				Name: player.Name,
				Team: teamName(p.GameState().Team(player.Team), player.Team),
			}
		}
	})

	p.RegisterEventHandler(func(e events.RoundStart) {
		if t.matchFinished || !IsLive(p) {
			return
		}

		gs := p.GameState()
		teamT := gs.TeamTerrorists()
		teamCT := gs.TeamCounterTerrorists()

		t.current = &Round{
			Index:     uint32(len(t.rounds)),
			StartTick: ingameTick(p),
			TeamT:     teamName(teamT, common.TeamTerrorists),
			TeamCT:    teamName(teamCT, common.TeamCounterTerrorists),
			ScoreT:    uint32(teamT.Score()),
			ScoreCT:   uint32(teamCT.Score()),
		}
	})

	p.RegisterEventHandler(func(e events.RoundEnd) {
		if t.current == nil {
			return
		}

		round := *t.current
		t.current = nil

		round.EndTick = ingameTick(p)
		if round.EndTick < round.StartTick {
			round.EndTick = round.StartTick
		}

		// team scores are only updated after the round end event
		switch e.Winner {
		case common.TeamTerrorists:
			round.WinnerTeam = round.TeamT
			round.ScoreT++
		case common.TeamCounterTerrorists:
			round.WinnerTeam = round.TeamCT
			round.ScoreCT++
		}

		t.rounds = append(t.rounds, round)
		t.matchFinished = HasMatchFinished(int(round.ScoreCT), int(round.ScoreT), MaxRounds)
	})

	p.RegisterEventHandler(func(e events.RoundEndOfficial) {
		// players keep moving until the round is officially over
		if len(t.rounds) == 0 || t.current != nil {
			return
		}
		if tick := ingameTick(p); tick > t.rounds[len(t.rounds)-1].EndTick {
			t.rounds[len(t.rounds)-1].EndTick = tick
		}
	})

	p.RegisterEventHandler(func(e events.FrameDone) {
		tick := p.GameState().IngameTick()
		if tick < 0 || tick == t.lastTick {
			return
		}
		t.lastTick = tick

		for _, player := range p.GameState().Participants().Playing() {
			if player == nil || player.IsBot || !player.IsAlive() {
				continue
			}

			if _, ok := t.roster[player.Name]; !ok {
				t.roster[player.Name] = Player{
					Name: player.Name,
					Team: teamName(p.GameState().Team(player.Team), player.Team),
				}
			}

			pos := player.Position()
			t.positions[player.Name] = append(t.positions[player.Name], Sample{
				Player: player.Name,
				X:      pos.X,
				Y:      pos.Y,
				Tick:   uint64(tick),
			})
		}
	})
}

func (t *tracker) result(mapName string, tickRate uint32) *ParseResult {
	players := make([]Player, 0, len(t.roster))
	for _, player := range t.roster {
		players = append(players, player)
	}
	sortPlayers(players)

	rounds := t.rounds
	if rounds == nil {
		rounds = []Round{}
	}

	return &ParseResult{
		Positions: t.positions,
		Players:   players,
		Rounds:    rounds,
		MapName:   mapName,
		TickRate:  tickRate,
	}
}

// IsLive returns true if the parser is currently at a point where rounds
// should be recorded
func IsLive(p dem.Parser) bool {
	if !p.GameState().IsMatchStarted() {
		return false
	}

	if p.GameState().IsWarmupPeriod() {
		return false
	}

	if !(p.GameState().GamePhase() == common.GamePhaseStartGamePhase ||
		p.GameState().GamePhase() == common.GamePhaseTeamSideSwitch) {
		return false
	}

	return true
}

// HasMatchFinished returns true if one of the two teams has won the match (reached (mr+1) rounds or won in overtime)
func HasMatchFinished(score1 int, score2 int, mr int) bool {
	if score1 > mr {
		if (score1-(mr+1))%3 == 0 && score1-score2 > 1 {
			return true
		}
	}

	if score2 > mr {
		if (score2-(mr+1))%3 == 0 && score2-score1 > 1 {
			return true
		}
	}

	return false
}

func ingameTick(p dem.Parser) uint64 {
	tick := p.GameState().IngameTick()
	if tick < 0 {
		return 0
	}
	return uint64(tick)
}

// teamName returns the clan name of the team, falling back to the side it is
// currently playing on
func teamName(state *common.TeamState, side common.Team) string {
	if state != nil && state.ClanName() != "" {
		return state.ClanName()
	}
	switch side {
	case common.TeamTerrorists:
		return TeamSideT
	case common.TeamCounterTerrorists:
		return TeamSideCT
	}
	return ""
}
