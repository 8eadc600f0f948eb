package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tcg-backend/internal/auth"
	"tcg-backend/internal/transport/http/response"
)

const (
	presenceWriteWait  = 10 * time.Second
	presencePongWait   = 60 * time.Second
	presencePingPeriod = presencePongWait * 9 / 10
	presenceReadLimit  = 4096

	// tokenSubprotocol lets browser clients pass the token as
	// Sec-WebSocket-Protocol: token, <jwt>
	tokenSubprotocol = "token"
)

// PresenceTracker records which users hold an open presence connection.
type PresenceTracker interface {
	MarkOnline(ctx context.Context, userID uint, connID string) error
	MarkOffline(ctx context.Context, userID uint, connID string) error
	Refresh(ctx context.Context, userID uint, connID string) error
	OnlineUsers(ctx context.Context) ([]uint, error)
}

type PresenceHandler struct {
	authenticator *auth.Authenticator
	tracker       PresenceTracker
	refreshEvery  time.Duration
	upgrader      websocket.Upgrader
}

// NewPresenceHandler accepts a nil tracker; connections are then only logged.
// refreshEvery must stay below the tracker's TTL; zero uses the ping period.
func NewPresenceHandler(authenticator *auth.Authenticator, tracker PresenceTracker, refreshEvery time.Duration, allowedOrigins []string) *PresenceHandler {
	if refreshEvery <= 0 {
		refreshEvery = presencePingPeriod
	}
	return &PresenceHandler{
		authenticator: authenticator,
		tracker:       tracker,
		refreshEvery:  refreshEvery,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{tokenSubprotocol},
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Connect authenticates the handshake and keeps the connection open until
// the peer leaves. Inbound frames are discarded.
func (h *PresenceHandler) Connect(c *gin.Context) {
	identity, err := h.authenticator.Authenticate(handshakeToken(c.Request))
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredential) {
			response.Error(c, http.StatusUnauthorized, auth.ErrMissingCredential.Error())
			return
		}
		response.Error(c, http.StatusUnauthorized, auth.ErrInvalidCredential.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		log.Printf("presence upgrade failed: user=%d err=%v", identity.UserID, err)
		return
	}

	connID := uuid.NewString()
	ctx := auth.WithIdentity(context.Background(), identity)
	log.Printf("presence connected conn=%s user=%d email=%s", connID, identity.UserID, identity.Email)

	if h.tracker != nil {
		if err := h.tracker.MarkOnline(ctx, identity.UserID, connID); err != nil {
			log.Printf("presence mark online failed: conn=%s err=%v", connID, err)
		}
	}

	h.serve(ctx, conn, func() {
		if h.tracker == nil {
			return
		}
		if err := h.tracker.Refresh(ctx, identity.UserID, connID); err != nil {
			log.Printf("presence refresh failed: conn=%s err=%v", connID, err)
		}
	})

	if h.tracker != nil {
		if err := h.tracker.MarkOffline(context.Background(), identity.UserID, connID); err != nil {
			log.Printf("presence mark offline failed: conn=%s err=%v", connID, err)
		}
	}
	log.Printf("presence disconnected conn=%s user=%d", connID, identity.UserID)
}

// serve runs the read loop. refresh is called every refreshEvery while the
// connection is open and never after serve returns.
func (h *PresenceHandler) serve(ctx context.Context, conn *websocket.Conn, refresh func()) {
	ctx, cancel := context.WithCancel(ctx)
	keepalive := make(chan struct{})
	defer func() {
		cancel()
		<-keepalive
		conn.Close()
	}()

	conn.SetReadLimit(presenceReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(presencePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(presencePongWait))
	})

	go func() {
		defer close(keepalive)
		pings := time.NewTicker(presencePingPeriod)
		defer pings.Stop()
		refreshes := time.NewTicker(h.refreshEvery)
		defer refreshes.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-refreshes.C:
				refresh()
			case <-pings.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(presenceWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Online lists the users that currently hold a presence connection.
func (h *PresenceHandler) Online(c *gin.Context) {
	if h.tracker == nil {
		response.JSON(c, http.StatusOK, gin.H{"users": []uint{}})
		return
	}
	users, err := h.tracker.OnlineUsers(c.Request.Context())
	if err != nil {
		log.Printf("list online users failed: %v", err)
		response.Error(c, http.StatusInternalServerError, "server error")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}

// handshakeToken reads the token from the "token" query field, falling back
// to the token subprotocol.
func handshakeToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	protocols := websocket.Subprotocols(r)
	if len(protocols) >= 2 && protocols[0] == tokenSubprotocol {
		return protocols[1]
	}
	return ""
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
