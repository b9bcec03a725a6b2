package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Question is one inbound WebSocket frame.
type Question struct {
	Question string `json:"question"`
}

// Answer is one outbound WebSocket frame.
type Answer struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BotFactory builds a fresh Bot per connection so each WebSocket
// session gets its own conversation history.
type BotFactory func() *Bot

// Server exposes the chat bot over WebSocket.
type Server struct {
	addr     string
	factory  BotFactory
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
}

// NewServer creates a chat server listening on addr.
func NewServer(addr string, factory BotFactory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		factory: factory,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Listen binds the server's address. Binding is separate from serving
// so callers see a bad address or occupied port immediately instead of
// from a goroutine.
func (s *Server) Listen() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	s.logger.Info("chat server listening", "addr", ln.Addr())
	return nil
}

// Addr returns the bound address, empty before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts connections on the bound listener until Shutdown. It
// blocks; run it in a goroutine after Listen.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, ln := s.httpSrv, s.listener
	s.mu.Unlock()
	if srv == nil || ln == nil {
		return errors.New("serve before listen")
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start binds and serves in one call.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	bot := s.factory()
	s.logger.Info("chat session opened", "remote", conn.RemoteAddr())

	for {
		var q Question
		if err := conn.ReadJSON(&q); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("chat session error", "error", err)
			}
			return
		}

		answer, err := bot.Ask(r.Context(), q.Question)
		frame := Answer{Answer: answer}
		if err != nil {
			frame = Answer{Error: err.Error()}
		}
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Warn("chat write failed", "error", err)
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
