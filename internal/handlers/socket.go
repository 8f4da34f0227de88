package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/pushp314/bloodbridge-backend/pkg/logger"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
)

// FeedRoom receives public activity: new requests, camps and badges.
const FeedRoom = "feed"

var SocketServer *socketio.Server

var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

// handshakeToken reads the JWT the client passes as ?token= when connecting.
func handshakeToken(u url.URL) string {
	return u.Query().Get("token")
}

func OnlineCount() int {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	return len(onlineUsers)
}

// SendToUser emits an event to every socket the user has open.
func SendToUser(userID, event string, data interface{}) {
	if SocketServer != nil && userID != "" {
		SocketServer.BroadcastToRoom("/", userID, event, data)
	}
}

// BroadcastToFeed emits an event to all connected clients.
func BroadcastToFeed(event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", FeedRoom, event, data)
	}
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")

		token := handshakeToken(s.URL())
		if token == "" {
			logger.Debug().Str("socket_id", s.ID()).Msg("Socket rejected: no token")
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			logger.Debug().Str("socket_id", s.ID()).Msg("Socket rejected: invalid token")
			return fmt.Errorf("invalid token")
		}

		s.SetContext(claims.UserID)

		onlineUsersMu.Lock()
		onlineUsers[claims.UserID] = s.ID()
		onlineUsersMu.Unlock()

		s.Join(claims.UserID)
		s.Join(FeedRoom)

		logger.Debug().Str("socket_id", s.ID()).Str("user_id", claims.UserID).Msg("Socket authenticated")
		return nil
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		userID, _ := s.Context().(string)
		if userID == "" {
			return
		}

		onlineUsersMu.Lock()
		if onlineUsers[userID] == s.ID() {
			delete(onlineUsers, userID)
		}
		onlineUsersMu.Unlock()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Warn().Err(e).Msg("Socket error")
	})

	go func() {
		if err := server.Serve(); err != nil {
			logger.Error().Err(err).Msg("Socket server stopped")
		}
	}()
	SocketServer = server
	return server
}

func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
