package socket

import (
	socketio "github.com/googollee/go-socket.io"

	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
)

// Room naming. Every client sits in its personal user room and the
// shared broadcast room; conversation rooms are joined on demand.
const (
	adminRoom     = "admins"
	broadcastRoom = "broadcast"
)

func userRoom(userID string) string {
	return "user:" + userID
}

func conversationRoom(conversationID string) string {
	return "conversation:" + conversationID
}

// Hub owns the socket.io server and adapts it to the services.Emitter
// interface. All emits are fire-and-forget room broadcasts.
type Hub struct {
	server *socketio.Server
}

func NewHub() *Hub {
	return &Hub{server: socketio.NewServer(nil)}
}

// Server exposes the underlying socket.io server for serving and
// mounting on the router.
func (h *Hub) Server() *socketio.Server {
	return h.server
}

func (h *Hub) ToUser(userID string, event services.EventType, payload interface{}) {
	h.server.BroadcastToRoom("/", userRoom(userID), string(event), payload)
}

func (h *Hub) ToConversation(conversationID string, event services.EventType, payload interface{}) {
	h.server.BroadcastToRoom("/", conversationRoom(conversationID), string(event), payload)
}

// ToConversationExcept emits to every member of the conversation room
// except the named user, typically the originator of the event.
func (h *Hub) ToConversationExcept(conversationID, exceptUserID string, event services.EventType, payload interface{}) {
	h.server.ForEach("/", conversationRoom(conversationID), func(c socketio.Conn) {
		if connUserID(c) == exceptUserID {
			return
		}
		c.Emit(string(event), payload)
	})
}

func (h *Hub) ToAdmins(event services.EventType, payload interface{}) {
	h.server.BroadcastToRoom("/", adminRoom, string(event), payload)
}

func (h *Hub) Broadcast(event services.EventType, payload interface{}) {
	h.server.BroadcastToRoom("/", broadcastRoom, string(event), payload)
}

func connUserID(c socketio.Conn) string {
	userID, _ := c.Context().(string)
	return userID
}
