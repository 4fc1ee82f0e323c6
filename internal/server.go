package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Snapshot is the view of the application state sent to HTTP clients
type Snapshot struct {
	State      StateTag    `json:"state"`
	DragOver   bool        `json:"dragOver"`
	Error      string      `json:"error,omitempty"`
	Load       string      `json:"load,omitempty"`
	MapName    string      `json:"mapName,omitempty"`
	TickRate   uint32      `json:"tickRate,omitempty"`
	Dimensions Dimensions  `json:"dimensions"`
	Teams      []TeamView  `json:"teams,omitempty"`
	Rounds     []RoundView `json:"rounds,omitempty"`
	Rendered   bool        `json:"rendered"`
}

// TeamView lists the players of a single team
type TeamView struct {
	Name    string       `json:"name"`
	Players []PlayerView `json:"players"`
}

// PlayerView describes a single player and how it is drawn
type PlayerView struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
	Samples  int    `json:"samples"`
}

// RoundView describes a single round and whether it is drawn
type RoundView struct {
	Round
	Selected bool `json:"selected"`
}

// NewSnapshot builds the client view of a notification
func NewSnapshot(n Notification) Snapshot {
	s := n.State
	snap := Snapshot{
		State:      s.Tag,
		DragOver:   s.DragOver,
		Dimensions: s.Dimensions,
		Rendered:   n.Rendered,
	}
	if s.Err != nil {
		snap.Error = s.Err.Error()
	}
	if s.Tag == StateParsing || s.Tag == StateReady {
		snap.Load = s.Load.String()
	}
	if s.Result == nil {
		return snap
	}

	snap.MapName = s.Result.MapName
	snap.TickRate = s.Result.TickRate

	roster := s.Result.PlayerNames()
	for _, team := range Teams(s.Result) {
		view := TeamView{Name: team}
		for _, p := range TeamPlayers(s.Result, team) {
			view.Players = append(view.Players, PlayerView{
				Name:     p.Name,
				Color:    ColorString(PlayerColor(roster, p.Name), 1),
				Selected: s.Selection.Players.Has(p.Name),
				Samples:  len(s.Result.Positions[p.Name]),
			})
		}
		snap.Teams = append(snap.Teams, view)
	}
	for _, r := range s.Result.Rounds {
		snap.Rounds = append(snap.Rounds, RoundView{Round: r, Selected: s.Selection.HasRound(r.Index)})
	}
	return snap
}

// Server exposes a Program over HTTP: the requests stand in for the user
// (drops, toggles) and the window (resizes), the canvas is served as a PNG
type Server struct {
	program   *Program
	canvas    *Canvas
	resize    *ResizeSignal
	canvasID  string
	maxUpload int64
	logger    *log.Logger
	upgrader  websocket.Upgrader
}

// ServerConfig holds the collaborators of a Server
type ServerConfig struct {
	Program   *Program
	Canvas    *Canvas
	Resize    *ResizeSignal
	CanvasID  string
	MaxUpload int64
	Logger    *log.Logger
}

// NewServer creates a server driving the given program
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	canvasID := cfg.CanvasID
	if canvasID == "" {
		canvasID = CanvasID
	}
	maxUpload := cfg.MaxUpload
	if maxUpload <= 0 {
		maxUpload = 512 << 20
	}

	return &Server{
		program:   cfg.Program,
		canvas:    cfg.Canvas,
		resize:    cfg.Resize,
		canvasID:  canvasID,
		maxUpload: maxUpload,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Router returns the HTTP handler of the server
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", s.handlePing)
	r.Get("/state", s.handleState)
	r.Get("/surface.png", s.handleSurface)
	r.Get("/ws", s.handleWebsocket)

	r.Post("/dragover", s.handleDragOver)
	r.Post("/drop", s.handleDrop)
	r.Post("/players/{name}/toggle", s.handleTogglePlayer)
	r.Post("/rounds/{index}/toggle", s.handleToggleRound)
	r.Post("/resize", s.handleResize)
	r.Post("/reset", s.handleReset)

	return r
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewSnapshot(Notification{State: s.program.State()}))
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	raster, err := s.canvas.Raster(s.canvasID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := raster.WritePNG(w); err != nil {
		s.logger.Printf("failed to encode surface: %v", err)
	}
}

func (s *Server) handleDragOver(w http.ResponseWriter, r *http.Request) {
	over, err := strconv.ParseBool(r.URL.Query().Get("over"))
	if err != nil {
		http.Error(w, "invalid over parameter", http.StatusBadRequest)
		return
	}
	s.dispatch(w, DragOver{Over: over})
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	var files []DemoFile
	for _, header := range r.MultipartForm.File["demo"] {
		f, err := header.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("unable to read %s: %v", header.Filename, err), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, fmt.Sprintf("unable to read %s: %v", header.Filename, err), http.StatusBadRequest)
			return
		}
		files = append(files, MemoryFile{FileName: header.Filename, Data: data})
	}

	s.dispatch(w, FileDropped{Files: files})
}

func (s *Server) handleTogglePlayer(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, PlayerToggled{Player: chi.URLParam(r, "name")})
}

func (s *Server) handleToggleRound(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 32)
	if err != nil {
		http.Error(w, "invalid round index", http.StatusBadRequest)
		return
	}
	s.dispatch(w, RoundToggled{Round: uint32(index)})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var dim Dimensions
	if err := json.NewDecoder(r.Body).Decode(&dim); err != nil {
		http.Error(w, fmt.Sprintf("invalid dimensions: %v", err), http.StatusBadRequest)
		return
	}
	if dim.Width < 0 || dim.Height < 0 {
		http.Error(w, "invalid dimensions", http.StatusBadRequest)
		return
	}

	s.canvas.Resize(dim)
	if s.resize != nil {
		s.resize.Fire()
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, Reset{})
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan Snapshot, 16)
	unwatch := s.program.Watch(func(n Notification) {
		select {
		case updates <- NewSnapshot(n):
		default:
			// slow client, it catches up with the next notification
		}
	})
	defer unwatch()

	// the connection is read only to notice it being closed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(NewSnapshot(Notification{State: s.program.State()})); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case snap := <-updates:
			if err := conn.WriteJSON(snap); err != nil {
				s.logger.Printf("failed to write snapshot: %v", err)
				return
			}
		}
	}
}

func (s *Server) dispatch(w http.ResponseWriter, e Event) {
	if !s.program.Dispatch(e) {
		http.Error(w, "program stopped", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
