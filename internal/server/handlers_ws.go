package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsUpdateInterval is the cadence of portfolio pushes to connected clients.
const wsUpdateInterval = 5 * time.Second

// handlePortfolioWS handles GET /api/ws/portfolio?token=...: streams the
// authenticated user's portfolio snapshot on a fixed cadence until the
// client disconnects. Browsers cannot set an Authorization header on a
// WebSocket, so the token travels as a query parameter.
func (s *Server) handlePortfolioWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := validateJWT(token, []byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	sub, _ := claims["sub"].(string)
	user, err := s.app.Storage.UserStore().GetUser(r.Context(), sub)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "User not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s.logger.Debug().Str("user_id", user.ID).Msg("Portfolio WebSocket connected")

	// Drain client frames so pings and close messages are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsUpdateInterval)
	defer ticker.Stop()

	send := func() bool {
		snapshot, err := s.portfolioSnapshot(r, user)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Portfolio snapshot failed for WebSocket")
			return true
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(snapshot); err != nil {
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-done:
			s.logger.Debug().Str("user_id", user.ID).Msg("Portfolio WebSocket disconnected")
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
