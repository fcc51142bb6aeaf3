package socket

import (
	"log"

	"sparkd_server/models"
	"sparkd_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// Server is the Socket.IO notification emitter. Clients register their uid
// on connect and join a room per open match thread; match events and new
// messages are broadcast into those rooms. It implements services.Notifier.
type Server struct {
	io *socketio.Server
}

// NewServer initializes the Socket.IO server and its event handlers.
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// register puts the connection in a room named after the uid, so
	// match events can reach a user before they open any thread.
	io.OnEvent("/", "register", func(c socketio.Conn, uid string) {
		if uid == "" {
			return
		}
		c.Join(uid)
	})

	io.OnEvent("/", "join", func(c socketio.Conn, matchID string) {
		if matchID == "" {
			log.Println("❌ Invalid matchId in join request")
			return
		}
		c.Join(matchID)
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("👋 Socket disconnected:", reason)
	})

	return &Server{io: io}
}

// Handler exposes the underlying server for mounting at /socket.io/.
func (s *Server) Handler() *socketio.Server {
	return s.io
}

// Serve runs the Socket.IO event loop; call in its own goroutine.
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts the event loop down.
func (s *Server) Close() error {
	return s.io.Close()
}

// NotifyMatch pushes a match created/promoted event to both participants.
func (s *Server) NotifyMatch(event services.MatchEvent) {
	for _, uid := range event.Participants {
		s.io.BroadcastToRoom("/", uid, "matchEvent", event)
	}
}

// NotifyMessage pushes a new message into its match room.
func (s *Server) NotifyMessage(message models.Message) {
	s.io.BroadcastToRoom("/", message.MatchID, "newMessage", message)
}
