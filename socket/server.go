package socket

import (
	"context"
	"errors"
	"log"
	"strings"

	socketio "github.com/googollee/go-socket.io"

	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
	"github.com/Harshvardhan-91/Gaming-website-sub000/utils"
)

// Client->server event payloads.

type roomRequest struct {
	RoomID string `json:"roomId"`
}

type typingRequest struct {
	ConversationID string `json:"conversationId"`
}

type reactionRequest struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	Reaction       string `json:"reaction"`
}

type ackRequest struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// bearerToken extracts the token from an Authorization header value.
// Clients send either "Bearer <token>" or the bare token.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}

// RegisterHandlers wires the channel event surface onto the hub's
// socket.io server. Connections are authenticated before any room join
// or event is accepted; the verified user id lives in the connection
// context afterwards.
func RegisterHandlers(
	hub *Hub,
	store *services.ConversationService,
	presence *services.PresenceTracker,
	delivery *services.DeliveryTracker,
	jwtService *utils.JWTService,
) {
	server := hub.server

	server.OnConnect("/", func(c socketio.Conn) error {
		connURL := c.URL()
		token := connURL.Query().Get("token")
		if token == "" {
			token = bearerToken(c.RemoteHeader().Get("Authorization"))
		}
		if token == "" {
			return errors.New("authentication required")
		}

		claims, err := jwtService.ParseClaims(token)
		if err != nil {
			log.Printf("Socket auth failed for %s: %v", c.ID(), err)
			return errors.New("invalid credentials")
		}

		userID := claims.UserID
		c.SetContext(userID)
		c.Join(userRoom(userID))
		c.Join(broadcastRoom)
		if claims.Role == utils.RoleAdmin {
			c.Join(adminRoom)
		}
		presence.MarkOnline(userID, c.ID())
		log.Printf("Socket connected: %s (user %s)", c.ID(), userID)
		return nil
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		userID := connUserID(c)
		if userID != "" {
			presence.MarkOffline(userID)
		}
		log.Printf("Socket disconnected: %s (user %s): %s", c.ID(), userID, reason)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Printf("Socket error: %v", err)
	})

	server.OnEvent("/", "join_room", func(c socketio.Conn, req roomRequest) {
		userID := connUserID(c)
		if req.RoomID == "" {
			return
		}
		if _, err := store.GetConversationForUser(context.Background(), req.RoomID, userID); err != nil {
			log.Printf("Rejected join of room %s by user %s: %v", req.RoomID, userID, err)
			return
		}
		c.Join(conversationRoom(req.RoomID))
	})

	server.OnEvent("/", "leave_room", func(c socketio.Conn, req roomRequest) {
		if req.RoomID == "" {
			return
		}
		c.Leave(conversationRoom(req.RoomID))
	})

	server.OnEvent("/", "typing_started", func(c socketio.Conn, req typingRequest) {
		userID := connUserID(c)
		if _, err := store.GetConversationForUser(context.Background(), req.ConversationID, userID); err != nil {
			return
		}
		presence.StartTyping(req.ConversationID, userID)
	})

	server.OnEvent("/", "typing_stopped", func(c socketio.Conn, req typingRequest) {
		presence.StopTyping(req.ConversationID, connUserID(c))
	})

	server.OnEvent("/", "add_reaction", func(c socketio.Conn, req reactionRequest) {
		userID := connUserID(c)
		message, err := store.AddReaction(context.Background(), req.ConversationID, req.MessageID, userID, req.Reaction)
		if err != nil {
			log.Printf("Failed to add reaction by user %s: %v", userID, err)
			return
		}
		hub.ToConversation(req.ConversationID, services.EventMessageReaction, services.ReactionPayload{
			ConversationID: req.ConversationID,
			MessageID:      req.MessageID,
			Reaction:       message.Reactions[len(message.Reactions)-1],
		})
	})

	server.OnEvent("/", "message_delivered", func(c socketio.Conn, req ackRequest) {
		userID := connUserID(c)
		if _, err := store.GetConversationForUser(context.Background(), req.ConversationID, userID); err != nil {
			return
		}
		if !delivery.Advance(req.MessageID, services.DeliveryDelivered) {
			return
		}
		hub.ToConversation(req.ConversationID, services.EventDeliveryStatus, services.DeliveryStatusPayload{
			ConversationID: req.ConversationID,
			MessageID:      req.MessageID,
			UserID:         userID,
			Status:         services.DeliveryDelivered,
		})
	})

	server.OnEvent("/", "message_read", func(c socketio.Conn, req ackRequest) {
		userID := connUserID(c)
		count, err := store.MarkRead(context.Background(), req.ConversationID, userID)
		if err != nil {
			log.Printf("Failed to mark conversation %s read for user %s: %v", req.ConversationID, userID, err)
			return
		}
		if delivery.Advance(req.MessageID, services.DeliveryRead) {
			hub.ToConversation(req.ConversationID, services.EventDeliveryStatus, services.DeliveryStatusPayload{
				ConversationID: req.ConversationID,
				MessageID:      req.MessageID,
				UserID:         userID,
				Status:         services.DeliveryRead,
			})
		}
		if count > 0 {
			hub.ToConversation(req.ConversationID, services.EventMessagesRead, services.MessagesReadPayload{
				ConversationID: req.ConversationID,
				ReaderID:       userID,
				Count:          count,
			})
		}
	})
}
