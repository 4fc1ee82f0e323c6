package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// stubDecoder returns a fixed result (or error) for every file
type stubDecoder struct {
	result *ParseResult
	err    error
}

func (d stubDecoder) Decode(ctx context.Context, file DemoFile) (*ParseResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.result, nil
}

// brokenSurfaces reports a geometry but can never hand out a surface
type brokenSurfaces struct{}

func (brokenSurfaces) Geometry(id string) (Dimensions, error) {
	return Dimensions{Width: 10, Height: 10}, nil
}

func (brokenSurfaces) Surface(id string, dim Dimensions) (Surface, error) {
	return nil, ErrSurfaceNotFound
}

type programHarness struct {
	program       *Program
	canvas        *Canvas
	resize        *ResizeSignal
	notifications chan Notification
	output        *bytes.Buffer
	cancel        context.CancelFunc
	stopped       chan error
}

func startProgram(t *testing.T, decoder Decoder, surfaces Surfaces, canvas *Canvas) *programHarness {
	t.Helper()
	h := &programHarness{
		canvas:        canvas,
		resize:        NewResizeSignal(),
		notifications: make(chan Notification, 256),
		output:        &bytes.Buffer{},
		stopped:       make(chan error, 1),
	}
	h.program = NewProgram(ProgramConfig{
		Decoder:  decoder,
		Surfaces: surfaces,
		Resize:   h.resize,
		Reporter: NewReporter(h.output, true),
	})
	if canvas != nil {
		h.program.Watch(MountOnReady(canvas, CanvasID))
	}
	h.program.Watch(func(n Notification) {
		h.notifications <- n
	})

	var ctx context.Context
	ctx, h.cancel = context.WithCancel(context.Background())
	go func() {
		h.stopped <- h.program.Run(ctx)
	}()
	t.Cleanup(h.stop)
	return h
}

// stop cancels the program and waits for it to return, it is safe to call
// more than once
func (h *programHarness) stop() {
	h.cancel()
	select {
	case err, ok := <-h.stopped:
		if ok {
			h.stopped <- err
		}
	case <-time.After(5 * time.Second):
	}
}

func (h *programHarness) waitFor(t *testing.T, what string, match func(Notification) bool) Notification {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case n := <-h.notifications:
			if match(n) {
				return n
			}
		case <-timeout:
			t.Fatalf("Timed out waiting for %s", what)
		}
	}
}

func rendered(n Notification) bool {
	return n.Rendered
}

func inState(tag StateTag) func(Notification) bool {
	return func(n Notification) bool {
		return n.State.Tag == tag
	}
}

func dropFile(t *testing.T, h *programHarness) {
	t.Helper()
	if !h.program.Dispatch(FileDropped{Files: []DemoFile{MemoryFile{FileName: "match.dem"}}}) {
		t.Fatalf("Got Dispatch() = false, expected the program to be running")
	}
}

func TestProgramRenders(t *testing.T) {
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{result: testResult()}, canvas, canvas)

	dropFile(t, h)
	h.waitFor(t, "parsing", inState(StateParsing))
	n := h.waitFor(t, "render", rendered)

	if n.State.Tag != StateReady {
		t.Errorf("Got state %s, expected ready", n.State.Tag)
	}
	if n.State.Dimensions != (Dimensions{Width: 100, Height: 100}) {
		t.Errorf("Got dimensions %v, expected 100x100", n.State.Dimensions)
	}

	raster, err := canvas.Raster(CanvasID)
	if err != nil {
		t.Fatalf("Got Raster() error = %v, expected the canvas to be mounted", err)
	}
	if got := raster.At(50, 50); got.A == 0 {
		t.Errorf("Got pixel (50, 50) = %v, expected B to be drawn", got)
	}

	if state := h.program.State(); state.Tag != StateReady {
		t.Errorf("Got State() = %s, expected ready", state.Tag)
	}

	h.stop()
	if !strings.Contains(h.output.String(), "fresh -> parsing") {
		t.Errorf("Got output %q, expected the state change to be reported", h.output.String())
	}
}

func TestProgramToggleAndResize(t *testing.T) {
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{result: testResult()}, canvas, canvas)

	dropFile(t, h)
	h.waitFor(t, "first render", rendered)

	h.program.Dispatch(PlayerToggled{Player: "B"})
	n := h.waitFor(t, "render after toggle", rendered)
	if n.State.Selection.Players.Has("B") {
		t.Errorf("Got B selected, expected it to be toggled off")
	}
	raster, _ := canvas.Raster(CanvasID)
	if got := raster.At(50, 50); got.A != 0 {
		t.Errorf("Got pixel (50, 50) = %v, expected B to be hidden", got)
	}

	canvas.Resize(Dimensions{Width: 200, Height: 100})
	h.resize.Fire()
	n = h.waitFor(t, "render after resize", rendered)
	if n.State.Dimensions != (Dimensions{Width: 200, Height: 100}) {
		t.Errorf("Got dimensions %v, expected 200x100", n.State.Dimensions)
	}
	raster, _ = canvas.Raster(CanvasID)
	if raster.Size() != (Dimensions{Width: 200, Height: 100}) {
		t.Errorf("Got raster size %v, expected 200x100", raster.Size())
	}
}

func TestProgramDecodeFailure(t *testing.T) {
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{err: ErrDecode}, canvas, canvas)

	dropFile(t, h)
	n := h.waitFor(t, "error", inState(StateError))
	if !errors.Is(n.State.Err, ErrDecode) {
		t.Errorf("Got error %v, expected ErrDecode", n.State.Err)
	}
	if _, err := canvas.Raster(CanvasID); !errors.Is(err, ErrSurfaceNotFound) {
		t.Errorf("Got Raster() error = %v, expected nothing to be mounted", err)
	}

	// resizes are ignored outside of ready
	h.resize.Fire()
	h.program.Dispatch(PlayerToggled{Player: "A"})
	h.program.Dispatch(Reset{})
	h.waitFor(t, "reset", inState(StateFresh))

	h.stop()
	if !strings.Contains(h.output.String(), "ERROR:") {
		t.Errorf("Got output %q, expected the error to be reported", h.output.String())
	}
}

func TestProgramGeometryFailure(t *testing.T) {
	// nothing mounts the canvas
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{result: testResult()}, canvas, nil)

	dropFile(t, h)
	n := h.waitFor(t, "error", inState(StateError))
	if !errors.Is(n.State.Err, ErrSurfaceNotFound) {
		t.Errorf("Got error %v, expected ErrSurfaceNotFound", n.State.Err)
	}
}

func TestProgramRenderFailure(t *testing.T) {
	h := startProgram(t, stubDecoder{result: testResult()}, brokenSurfaces{}, nil)

	dropFile(t, h)
	n := h.waitFor(t, "error", inState(StateError))
	if !errors.Is(n.State.Err, ErrSurfaceNotFound) {
		t.Errorf("Got error %v, expected ErrSurfaceNotFound", n.State.Err)
	}
}

func TestProgramStop(t *testing.T) {
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{result: testResult()}, canvas, canvas)

	h.stop()

	err := <-h.stopped
	h.stopped <- err
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Got Run() error = %v, expected context.Canceled", err)
	}
	if h.resize.Subscribers() != 0 {
		t.Errorf("Got %d resize subscribers after stopping, expected 0", h.resize.Subscribers())
	}
	if h.program.Dispatch(Reset{}) {
		t.Errorf("Got Dispatch() = true after stopping, expected false")
	}
}

func TestResizeSignal(t *testing.T) {
	signal := NewResizeSignal()
	fired := 0
	unsubscribe := signal.Subscribe(func() { fired++ })

	signal.Fire()
	signal.Fire()
	if fired != 2 {
		t.Errorf("Got %d calls, expected 2", fired)
	}

	unsubscribe()
	signal.Fire()
	if fired != 2 || signal.Subscribers() != 0 {
		t.Errorf("Got %d calls and %d subscribers after unsubscribing, expected 2 and 0", fired, signal.Subscribers())
	}
}

func TestProgramEmptyDrop(t *testing.T) {
	canvas := NewCanvas(Dimensions{Width: 100, Height: 100})
	h := startProgram(t, stubDecoder{result: testResult()}, canvas, canvas)

	h.program.Dispatch(FileDropped{})
	n := h.waitFor(t, "drop", func(Notification) bool { return true })
	if n.State.Tag != StateFresh {
		t.Errorf("Got state %s, expected fresh", n.State.Tag)
	}

	h.stop()
	if !strings.Contains(h.output.String(), ErrEmptyDropSelection.Error()) {
		t.Errorf("Got output %q, expected the empty drop to be reported", h.output.String())
	}
}
