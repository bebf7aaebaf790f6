package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"bloom_server/models"
)

// Server wraps the Socket.IO server. Clients join a room named by their
// user id after authenticating; qualified signals are pushed to that room.
type Server struct {
	io *socketio.Server
}

// NewServer initializes and returns a new Socket.IO server
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in join request")
			return
		}
		log.Printf("👥 Socket %s joined room %s\n", c.ID(), userID)
		c.Join(userID)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return &Server{io: io}
}

// PushSignal broadcasts a qualified signal to the viewer's room.
func (s *Server) PushSignal(userID string, signal models.QualifiedSignal) {
	s.io.BroadcastToRoom("/", userID, "signal:new", signal)
}

// Handler exposes the underlying server for mounting on the router.
func (s *Server) Handler() *socketio.Server { return s.io }

// Serve runs the Socket.IO event loop.
func (s *Server) Serve() error { return s.io.Serve() }

// Close shuts the event loop down.
func (s *Server) Close() error { return s.io.Close() }
