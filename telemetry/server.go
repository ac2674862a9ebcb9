package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solarsystem/config"
	"solarsystem/core"
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypeUpdate   = "update"
	TypeError    = "error"
	TypeEdit     = "edit"
)

const writeTimeout = 5 * time.Second

// Message is what the server sends. Snapshot carries the sphere mesh every
// body is drawn with so a client can render without generating it.
type Message struct {
	Type          string           `json:"type"`
	Time          float64          `json:"time"`
	Bodies        []core.BodyState `json:"bodies,omitempty"`
	SphereVerts   [][3]float32     `json:"sphereVertices,omitempty"`
	SphereIndices []uint32         `json:"sphereIndices,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// Edit is what clients send to change a body. Omitted fields are left alone.
type Edit struct {
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	Eccentricity  *float32 `json:"eccentricity,omitempty"`
	FocalDistance *float32 `json:"focalDistance,omitempty"`
	Mass          *float32 `json:"mass,omitempty"`
	Color         *string  `json:"color,omitempty"`
}

// Server streams world state over websockets and applies edits sent back.
type Server struct {
	world    *core.World
	interval time.Duration
	clock    func() float64

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewServer creates a server broadcasting world every interval. clock
// reports the simulation time stamped on every message.
func NewServer(world *core.World, interval time.Duration, clock func() float64) *Server {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Server{
		world:    world,
		interval: interval,
		clock:    clock,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // viewer clients are local tools
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler returns the HTTP routes: /ws for the stream and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// Run listens on addr and broadcasts until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		core.Logger().Info("telemetry server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("telemetry server: %w", err)
		}
		close(errCh)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			s.closeAll()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("telemetry shutdown: %w", err)
			}
			return nil
		case err, ok := <-errCh:
			if ok {
				return err
			}
			return nil
		case <-ticker.C:
			s.Broadcast()
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends the current body states to every client, dropping the
// ones that fail.
func (s *Server) Broadcast() {
	msg := Message{Type: TypeUpdate, Time: s.clock(), Bodies: s.world.Bodies()}

	s.mu.RLock()
	var failed []*websocket.Conn
	for conn, lock := range s.clients {
		if err := write(conn, lock, msg); err != nil {
			core.Logger().Warn("websocket write failed", "remote", conn.RemoteAddr(), "err", err)
			failed = append(failed, conn)
		}
	}
	s.mu.RUnlock()

	if len(failed) > 0 {
		s.mu.Lock()
		for _, conn := range failed {
			conn.Close()
			delete(s.clients, conn)
		}
		s.mu.Unlock()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		core.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	lock := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = lock
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	if err := write(conn, lock, s.snapshot()); err != nil {
		core.Logger().Warn("websocket snapshot failed", "err", err)
		return
	}

	for {
		var edit Edit
		if err := conn.ReadJSON(&edit); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				core.Logger().Debug("websocket read ended", "err", err)
			}
			return
		}
		if err := s.apply(edit); err != nil {
			core.Logger().Warn("rejected edit", "planet", edit.Name, "err", err)
			if err := write(conn, lock, Message{Type: TypeError, Time: s.clock(), Error: err.Error()}); err != nil {
				return
			}
		}
	}
}

func (s *Server) apply(e Edit) error {
	if e.Type != TypeEdit {
		return fmt.Errorf("unsupported message type %q", e.Type)
	}
	if _, err := s.world.Body(e.Name); err != nil {
		return err
	}

	var errs []error
	if e.Eccentricity != nil {
		errs = append(errs, s.world.SetEccentricity(e.Name, *e.Eccentricity))
	}
	if e.FocalDistance != nil {
		errs = append(errs, s.world.SetFocalDistance(e.Name, *e.FocalDistance))
	}
	if e.Mass != nil {
		errs = append(errs, s.world.SetMass(e.Name, *e.Mass))
	}
	if e.Color != nil {
		c, err := config.ParseColor(*e.Color)
		if err == nil {
			err = s.world.SetColor(e.Name, c)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) snapshot() Message {
	sphere := s.world.Sphere()
	verts := make([][3]float32, sphere.VertexCount())
	for i := range verts {
		verts[i] = sphere.Position(i)
	}
	return Message{
		Type:          TypeSnapshot,
		Time:          s.clock(),
		Bodies:        s.world.Bodies(),
		SphereVerts:   verts,
		SphereIndices: sphere.Indices,
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, lock := range s.clients {
		lock.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeTimeout))
		lock.Unlock()
		conn.Close()
	}
}

func write(conn *websocket.Conn, lock *sync.Mutex, msg Message) error {
	lock.Lock()
	defer lock.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
