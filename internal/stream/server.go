package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zaxpr/AIChat3D/internal/audio"
	"github.com/zaxpr/AIChat3D/internal/avatar"
	"github.com/zaxpr/AIChat3D/internal/bus"
	"github.com/zaxpr/AIChat3D/internal/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Renderer clients are served from anywhere during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server drives the animation loop and serves renderer clients.
type Server struct {
	addr      string
	frameRate int

	hub      *Hub
	session  *chat.Session
	animator *avatar.Animator
	tap      audio.Tap
	bus      *bus.EventBus
	logger   zerolog.Logger
}

// NewServer wires the serving surface.
func NewServer(addr string, frameRate int, session *chat.Session, animator *avatar.Animator,
	tap audio.Tap, eventBus *bus.EventBus, logger zerolog.Logger) *Server {
	if frameRate <= 0 {
		frameRate = 60
	}
	s := &Server{
		addr:      addr,
		frameRate: frameRate,
		hub:       NewHub(logger),
		session:   session,
		animator:  animator,
		tap:       tap,
		bus:       eventBus,
		logger:    logger.With().Str("component", "server").Logger(),
	}
	s.subscribe()
	return s
}

// subscribe fans conversation events out to connected renderer clients.
func (s *Server) subscribe() {
	s.bus.Subscribe(bus.EventTypeReply, func(e bus.Event) {
		text, _ := e.Data["text"].(string)
		if text == "" {
			return
		}
		s.broadcastMessage(ServerMessage{Type: MsgReply, Reply: text})
	})
	s.bus.Subscribe(bus.EventTypeSpeechFailed, func(e bus.Event) {
		msg, _ := e.Data["error"].(string)
		s.broadcastMessage(ServerMessage{Type: MsgError, Error: msg})
	})
}

func (s *Server) broadcastMessage(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.hub.Broadcast(payload)
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/transcript", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ServerMessage{
			Type:       MsgTranscript,
			Transcript: s.session.History().Exchanges(),
		})
	})
	return r
}

// Run serves HTTP and drives the frame loop until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.addr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	go s.runFrameLoop(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// runFrameLoop ticks the animator at the configured rate and broadcasts
// each frame. The animator is only ever touched from this goroutine.
func (s *Server) runFrameLoop(ctx context.Context) {
	interval := time.Second / time.Duration(s.frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	prevState := avatar.StateIdle

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			in := avatar.FrameInput{
				Elapsed:    now.Sub(start).Seconds(),
				Delta:      now.Sub(last).Seconds(),
				Signals:    s.session.Signals(),
				Magnitudes: s.tap.Magnitudes(),
			}
			last = now

			out := s.animator.Tick(in)

			if out.State != prevState {
				s.bus.Publish(bus.Event{
					Type: bus.EventTypeStateChanged,
					Data: map[string]any{"from": string(prevState), "to": string(out.State)},
				})
				prevState = out.State
			}

			payload, err := json.Marshal(ServerMessage{Type: MsgFrame, Frame: &out})
			if err != nil {
				continue
			}
			s.hub.Broadcast(payload)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	s.hub.add(c)
	s.bus.Publish(bus.Event{
		Type: bus.EventTypeClientConnected,
		Data: map[string]any{"client": c.id},
	})
	s.logger.Info().Str("client", c.id).Msg("renderer connected")

	go s.hub.writePump(c)
	s.readPump(r.Context(), c)
}

// readPump handles inbound control messages until the client goes away.
func (s *Server) readPump(ctx context.Context, c *client) {
	defer func() {
		s.hub.remove(c)
		s.bus.Publish(bus.Event{
			Type: bus.EventTypeClientDisconnected,
			Data: map[string]any{"client": c.id},
		})
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Debug().Err(err).Msg("ignoring malformed client message")
			continue
		}

		switch msg.Type {
		case MsgTyping:
			s.session.SetTyping(msg.Typing)
		case MsgReset:
			s.session.History().Clear()
		case MsgChat:
			s.bus.Publish(bus.Event{
				Type: bus.EventTypeMessageReceived,
				Data: map[string]any{"client": c.id, "text": msg.Text},
			})
			// One turn per goroutine; Send blocks for the whole round trip.
			go func(text string) {
				if _, err := s.session.Send(ctx, text); err != nil {
					s.logger.Error().Err(err).Msg("chat turn failed")
					s.sendError(c, err.Error())
				}
			}(msg.Text)
		}
	}
}

func (s *Server) sendError(c *client, msg string) {
	payload, err := json.Marshal(ServerMessage{Type: MsgError, Error: msg})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}
