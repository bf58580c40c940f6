package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// UserRoom names the per-user room every authenticated socket joins on
// connect. Cross-service relays and the notification fan-out target this.
func UserRoom(userID string) string {
	return "user:" + userID
}

// MatchRoom names the room for one After Hours chat. Sockets join it through
// after_hours:join_chat and drop out of it on disconnect.
func MatchRoom(matchID string) string {
	return "after_hours:match:" + matchID
}

// SocketServer is a struct that contains the socket.io server and a map of
// socket connections. It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track userID -> socket connections
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(userID string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = socket
}

// RemoveConnection drops the map entry only while it still points at this
// socket; a newer connection from another device keeps its entry.
func (s *SocketServer) RemoveConnection(userID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.UserConnections[userID] == client {
		delete(s.UserConnections, userID)
	}
}

func (s *SocketServer) GetConnection(userID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	conn, exists := s.UserConnections[userID]
	return conn, exists
}

// EmitToRoom broadcasts an event to every socket in a room. Satisfies the
// bridge's and the fan-out's emitter interfaces.
func (s *SocketServer) EmitToRoom(room string, event string, payload interface{}) {
	s.Sio_server.To(socket.Room(room)).Emit(event, payload)
}
