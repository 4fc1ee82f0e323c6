package internal

import (
	"context"
	"sync"
)

// ResizeSource delivers window resize signals. Subscribe registers fn and
// returns a function removing it again.
type ResizeSource interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Notification is sent to watchers after every transition, and again after
// each completed render
type Notification struct {
	State    State
	Rendered bool
}

// Program runs the state machine: it feeds events through Update one at a
// time on a single goroutine and carries out the returned effects. Decoding
// and geometry reads run in the background and report back as events, renders
// run inline.
type Program struct {
	decoder  Decoder
	surfaces Surfaces
	resize   ResizeSource
	reporter Reporter
	canvasID string

	events  chan Event
	resized chan struct{}
	done    chan struct{}

	mu       sync.RWMutex
	state    State
	watchers map[int]func(Notification)
	nextID   int
}

// ProgramConfig holds the collaborators of a Program
type ProgramConfig struct {
	Decoder  Decoder
	Surfaces Surfaces
	Resize   ResizeSource
	Reporter Reporter
	CanvasID string
}

// NewProgram creates a program in the initial state
func NewProgram(cfg ProgramConfig) *Program {
	canvasID := cfg.CanvasID
	if canvasID == "" {
		canvasID = CanvasID
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = NewConsoleReporter(false)
	}

	return &Program{
		decoder:  cfg.Decoder,
		surfaces: cfg.Surfaces,
		resize:   cfg.Resize,
		reporter: reporter,
		canvasID: canvasID,
		events:   make(chan Event, 64),
		resized:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		state:    Init(),
		watchers: make(map[int]func(Notification)),
	}
}

// State returns the current state
func (p *Program) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Watch registers fn to be notified of every state change and completed
// render, it returns a function removing fn again. fn is called on the
// program goroutine so it must not block or dispatch synchronously.
func (p *Program) Watch(fn func(Notification)) (unwatch func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.watchers, id)
	}
}

// Dispatch queues an event, it returns false if the program has stopped
func (p *Program) Dispatch(e Event) bool {
	select {
	case p.events <- e:
		return true
	case <-p.done:
		return false
	}
}

// Run processes events until ctx is cancelled. The resize source is
// subscribed to for the lifetime of the call.
func (p *Program) Run(ctx context.Context) error {
	defer close(p.done)

	if p.resize != nil {
		unsubscribe := p.resize.Subscribe(func() {
			// a resize already pending covers this one
			select {
			case p.resized <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-p.events:
			p.step(ctx, e)
		case <-p.resized:
			p.step(ctx, WindowResized{})
		}
	}
}

func (p *Program) step(ctx context.Context, e Event) {
	p.mu.Lock()
	prev := p.state
	next, effects := Update(prev, e)
	p.state = next
	p.mu.Unlock()

	if drop, ok := e.(FileDropped); ok && len(effects) == 0 && (prev.Tag == StateFresh || prev.Tag == StateError) {
		p.reporter.Warnf("%v (%d files)", ErrEmptyDropSelection, len(drop.Files))
	}
	if next.Tag == StateError && prev.Tag != StateError {
		p.reporter.Errorf("%v", next.Err)
	}
	if next.Tag != prev.Tag {
		p.reporter.Infof("State changed: %s -> %s", prev.Tag, next.Tag)
	}

	p.notify(Notification{State: next})

	for _, effect := range effects {
		p.execute(ctx, effect)
	}
}

func (p *Program) execute(ctx context.Context, effect Effect) {
	switch effect := effect.(type) {
	case DecodeEffect:
		p.reporter.Infof("Decoding demo file: \"%s\"", effect.File.Name())
		go func() {
			result, err := p.decoder.Decode(ctx, effect.File)
			if err != nil {
				p.Dispatch(DecodeFailed{Load: effect.Load, Err: err})
				return
			}
			p.Dispatch(DecodeSucceeded{Load: effect.Load, Result: result})
		}()

	case ReadGeometryEffect:
		go func() {
			dim, err := p.surfaces.Geometry(p.canvasID)
			if err != nil {
				p.Dispatch(GeometryFailed{Load: effect.Load, Err: err})
				return
			}
			p.Dispatch(GeometrySucceeded{Load: effect.Load, Dimensions: dim})
		}()

	case RenderEffect:
		err := Render(p.surfaces, p.canvasID, effect.Dimensions, effect.Result, effect.Selection)
		if err != nil {
			p.step(ctx, RenderFailed{Load: effect.Load, Err: err})
			return
		}
		p.notify(Notification{State: p.State(), Rendered: true})
	}
}

func (p *Program) notify(n Notification) {
	p.mu.RLock()
	watchers := make([]func(Notification), 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.RUnlock()

	for _, w := range watchers {
		w(n)
	}
}

// MountOnReady returns a watcher which keeps a surface mounted on canvas
// under id while the program is ready, and unmounted otherwise
func MountOnReady(canvas *Canvas, id string) func(Notification) {
	return func(n Notification) {
		if n.State.Tag == StateReady {
			canvas.Mount(id)
		} else {
			canvas.Unmount(id)
		}
	}
}

// ResizeSignal is a ResizeSource fired by hand, e.g. by the HTTP shell
type ResizeSignal struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// NewResizeSignal creates a signal without subscribers
func NewResizeSignal() *ResizeSignal {
	return &ResizeSignal{subs: make(map[int]func())}
}

// Subscribe registers fn to be called on every Fire
func (r *ResizeSignal) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Fire notifies every subscriber that the window has been resized
func (r *ResizeSignal) Fire() {
	r.mu.Lock()
	subs := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribers returns the number of registered subscribers
func (r *ResizeSignal) Subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
