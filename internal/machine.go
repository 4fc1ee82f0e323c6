package internal

import (
	"github.com/google/uuid"
)

// StateTag names the phase the application is in
type StateTag string

const (
	// StateFresh is waiting for a demo file to be dropped
	StateFresh StateTag = "fresh"

	// StateParsing is decoding a dropped demo file
	StateParsing StateTag = "parsing"

	// StateReady holds a decoded match which is displayed on the canvas
	StateReady StateTag = "ready"

	// StateError holds the error which ended the current load
	StateError StateTag = "error"
)

// State is the complete application state. Which fields are meaningful
// depends on Tag: DragOver for fresh, Load for parsing and ready, Dimensions,
// Result and Selection for ready, Err for error.
type State struct {
	Tag        StateTag
	DragOver   bool
	Load       uuid.UUID
	Dimensions Dimensions
	Result     *ParseResult
	Selection  Selection
	Err        error
}

// Event is something the state machine reacts to: user input, the window, or
// the outcome of an effect
type Event interface {
	event()
}

// DragOver reports a file being dragged over (or away from) the drop zone
type DragOver struct {
	Over bool
}

// FileDropped carries the files dropped onto the drop zone, only a drop of
// exactly one file starts a load
type FileDropped struct {
	Files []DemoFile
}

// DecodeSucceeded carries the result of a decode effect
type DecodeSucceeded struct {
	Load   uuid.UUID
	Result *ParseResult
}

// DecodeFailed carries the error of a decode effect
type DecodeFailed struct {
	Load uuid.UUID
	Err  error
}

// GeometrySucceeded carries the canvas dimensions read by a geometry effect
type GeometrySucceeded struct {
	Load       uuid.UUID
	Dimensions Dimensions
}

// GeometryFailed carries the error of a geometry effect
type GeometryFailed struct {
	Load uuid.UUID
	Err  error
}

// RenderFailed carries the error of a render effect
type RenderFailed struct {
	Load uuid.UUID
	Err  error
}

// PlayerToggled flips a player in or out of the selection
type PlayerToggled struct {
	Player string
}

// RoundToggled flips a round in or out of the selection
type RoundToggled struct {
	Round uint32
}

// WindowResized signals that the window (and so the canvas container) may
// have changed size
type WindowResized struct{}

// Reset discards the current match (or error) and waits for a new file
type Reset struct{}

func (DragOver) event()          {}
func (FileDropped) event()       {}
func (DecodeSucceeded) event()   {}
func (DecodeFailed) event()      {}
func (GeometrySucceeded) event() {}
func (GeometryFailed) event()    {}
func (RenderFailed) event()      {}
func (PlayerToggled) event()     {}
func (RoundToggled) event()      {}
func (WindowResized) event()     {}
func (Reset) event()             {}

// Effect is work requested by a transition, carried out by the Program
type Effect interface {
	effect()
}

// DecodeEffect requests the file to be decoded
type DecodeEffect struct {
	Load uuid.UUID
	File DemoFile
}

// ReadGeometryEffect requests the canvas container dimensions to be read
type ReadGeometryEffect struct {
	Load uuid.UUID
}

// RenderEffect requests the match to be drawn onto the canvas
type RenderEffect struct {
	Load       uuid.UUID
	Dimensions Dimensions
	Result     *ParseResult
	Selection  Selection
}

func (DecodeEffect) effect()       {}
func (ReadGeometryEffect) effect() {}
func (RenderEffect) effect()       {}

// Init returns the state the application starts in
func Init() State {
	return State{Tag: StateFresh}
}

// Update is the transition function of the application. It never blocks and
// never performs side effects itself, anything asynchronous is returned as an
// Effect whose outcome comes back as another Event. Results of a previous load
// (identified by a different load ID) are ignored.
func Update(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case DragOver:
		if s.Tag != StateFresh {
			return s, nil
		}
		s.DragOver = e.Over
		return s, nil

	case FileDropped:
		if s.Tag != StateFresh && s.Tag != StateError {
			return s, nil
		}
		if len(e.Files) != 1 || e.Files[0] == nil {
			// ErrEmptyDropSelection, reported by the program only
			if s.Tag == StateFresh {
				s.DragOver = false
			}
			return s, nil
		}
		load := uuid.New()
		return State{Tag: StateParsing, Load: load}, []Effect{DecodeEffect{Load: load, File: e.Files[0]}}

	case DecodeSucceeded:
		if s.Tag != StateParsing || e.Load != s.Load {
			return s, nil
		}
		ready := State{
			Tag:       StateReady,
			Load:      s.Load,
			Result:    e.Result,
			Selection: SelectAll(e.Result),
		}
		return ready, []Effect{ReadGeometryEffect{Load: s.Load}}

	case DecodeFailed:
		if s.Tag != StateParsing || e.Load != s.Load {
			return s, nil
		}
		return State{Tag: StateError, Err: e.Err}, nil

	case GeometrySucceeded:
		if s.Tag != StateReady || e.Load != s.Load {
			return s, nil
		}
		s.Dimensions = e.Dimensions
		return s, []Effect{renderEffect(s)}

	case GeometryFailed:
		if s.Tag != StateReady || e.Load != s.Load {
			return s, nil
		}
		return State{Tag: StateError, Err: e.Err}, nil

	case RenderFailed:
		if s.Tag != StateReady || e.Load != s.Load {
			return s, nil
		}
		return State{Tag: StateError, Err: e.Err}, nil

	case PlayerToggled:
		if s.Tag != StateReady {
			return s, nil
		}
		s.Selection = s.Selection.TogglePlayer(e.Player)
		return s, renderIfPlaced(s)

	case RoundToggled:
		if s.Tag != StateReady {
			return s, nil
		}
		s.Selection = s.Selection.ToggleRound(e.Round)
		return s, renderIfPlaced(s)

	case WindowResized:
		if s.Tag != StateReady {
			return s, nil
		}
		return s, []Effect{ReadGeometryEffect{Load: s.Load}}

	case Reset:
		if s.Tag != StateReady && s.Tag != StateError {
			return s, nil
		}
		return Init(), nil
	}

	return s, nil
}

func renderEffect(s State) RenderEffect {
	return RenderEffect{
		Load:       s.Load,
		Dimensions: s.Dimensions,
		Result:     s.Result,
		Selection:  s.Selection,
	}
}

// renderIfPlaced only renders once the canvas geometry is known, until then
// the pending geometry read will render the current selection
func renderIfPlaced(s State) []Effect {
	if s.Dimensions.IsZero() {
		return nil
	}
	return []Effect{renderEffect(s)}
}
