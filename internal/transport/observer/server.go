package observer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server serves one game to any number of observers.
type Server struct {
	game     *sim.GameState
	scenario string
	logger   *log.Logger

	upgrader websocket.Upgrader
}

// NewServer creates an observer for game. scenario is reported to clients.
func NewServer(game *sim.GameState, scenario string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		game:     game,
		scenario: scenario,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Handler returns a mux serving /state and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.StateHandler())
	mux.HandleFunc("/ws", s.WSHandler())
	return mux
}

// StateHandler answers GET with the current snapshot.
func (s *Server) StateHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(StateMsg{
			Type:     TypeState,
			Scenario: s.scenario,
			State:    s.game.Snapshot(),
		})
	}
}

// WSHandler upgrades to a websocket that pushes a snapshot after every
// change and accepts CLICK and BUY commands.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sid := uuid.NewString()
		logger := s.logger.With("session", sid)
		logger.Info("observer connected", "remote", r.RemoteAddr)
		defer logger.Info("observer disconnected")

		// Changes collapse into one pending push.
		changed := make(chan struct{}, 1)
		changed <- struct{}{}
		unsubscribe := s.game.OnStateChanged(func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		out := make(chan []byte, 8)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			writeErr <- s.writeLoop(ctx, conn, sid, changed, out)
		}()

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			reply, err := json.Marshal(s.handle(logger, msg))
			if err != nil {
				continue
			}
			select {
			case out <- reply:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// handle applies one client command and returns the reply.
func (s *Server) handle(logger *log.Logger, raw []byte) any {
	var msg ClientMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ErrorMsg{Type: TypeError, Message: "bad json"}
	}

	switch msg.Type {
	case TypeClick:
		s.game.PerformPrimaryAction()
		return ResultMsg{Type: TypeResult, Action: TypeClick, OK: true}
	case TypeBuy:
		res := s.game.Purchase(msg.ID)
		logger.Debug("purchase", "id", msg.ID, "ok", res.OK, "reason", res.Reason)
		return purchaseResult(res)
	default:
		return ErrorMsg{Type: TypeError, Message: "unknown type " + msg.Type}
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, sid string, changed <-chan struct{}, out <-chan []byte) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		var b []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
			continue
		case <-changed:
			var err error
			b, err = json.Marshal(StateMsg{
				Type:     TypeState,
				Session:  sid,
				Scenario: s.scenario,
				State:    s.game.Snapshot(),
			})
			if err != nil {
				return err
			}
		case b = <-out:
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return err
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("observer listening", "address", addr, "scenario", s.scenario)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down observer")
	return srv.Shutdown(shutdownCtx)
}
