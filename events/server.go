package events

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server is the harness-side endpoint of the event channel. Every run
// binds a fresh ephemeral loopback port with a fresh bearer token, so
// concurrent runs cannot interfere on a shared endpoint. The address and
// token are handed to the runner as part of its invocation.
type Server struct {
	logger log.Logger
	queue  *Queue
	token  string
	ln     net.Listener
	server *http.Server
	closed atomic.Bool
}

// NewServer binds the channel endpoint and starts serving. Callers must
// Close the server at run end regardless of outcome.
func NewServer(logger log.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger: logger,
		queue:  &Queue{},
		token:  uuid.NewString(),
		ln:     ln,
	}

	r := mux.NewRouter()
	r.HandleFunc("/v1/events", s.handlePublish).Methods(http.MethodPost)
	r.HandleFunc("/v1/finished", s.handleFinished).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
	})
	s.server = &http.Server{
		Handler: c.Handler(s.authenticated(r)),
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("event channel server error", "err", err)
		}
	}()

	logger.Debug("event channel bound", "addr", s.Addr())
	return s, nil
}

// Addr returns the bound endpoint address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Token returns the pre-shared secret the publisher must present.
func (s *Server) Token() string {
	return s.token
}

// TryPopNext drains the next pending event, if any.
func (s *Server) TryPopNext() (Event, bool) {
	return s.queue.TryPopNext()
}

// IsFinished reports whether the publisher has signaled completion.
func (s *Server) IsFinished() bool {
	return s.queue.Finished()
}

// Close releases the bound endpoint. Safe to call more than once; only
// the first call tears the server down.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Debug("event channel released", "addr", s.Addr())
	return s.server.Close()
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}
	if ev.Name == "" {
		http.Error(w, "event name is required", http.StatusBadRequest)
		return
	}
	// Names outside the vocabulary are queued as-is; the bridge rejects
	// them at dispatch time and fails the run with a protocol error.
	s.queue.Push(ev)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleFinished(w http.ResponseWriter, r *http.Request) {
	s.queue.MarkFinished()
	w.WriteHeader(http.StatusAccepted)
}
