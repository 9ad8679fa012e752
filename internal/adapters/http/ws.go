package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var wsUpgrader = websocket.Upgrader{
	// TODO: restrict origins once the bridge is exposed beyond local tooling.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSink serializes event frames onto one connection.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Emit(ev domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := s.conn.WriteJSON(ev); err != nil {
		utils.Logger.Info("websocket write failed", "id", ev.ID, "op", ev.Op, "err", err)
	}
}

// wsBridge upgrades to WebSocket and serves every request frame concurrently. Each request
// gets exactly one event frame, correlated by id. Pending requests are cancelled when the
// client disconnects.
func (s *Server) wsBridge(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Logger.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	sink := &wsSink{conn: conn}
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			utils.Logger.Info("websocket client disconnected", "remote", r.RemoteAddr, "err", err)
			return
		}

		var req domain.Request
		if err := json.Unmarshal(frame, &req); err != nil {
			sink.Emit(domain.Event{
				Type:  domain.EventError,
				Error: domain.NewFault(fmt.Errorf("%w: malformed request frame: %v", domain.ErrInvalidRequest, err)),
			})
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.bridge.Serve(ctx, req, sink)
		}()
	}
}
