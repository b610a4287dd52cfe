package services

import "github.com/Harshvardhan-91/Gaming-website-sub000/models"

// EventType enumerates every event the realtime channel emits to
// clients. Handlers switch on these instead of bare strings.
type EventType string

const (
	EventNewConversation      EventType = "new_conversation"
	EventNewMessage           EventType = "new_message"
	EventMessagesRead         EventType = "messages_read"
	EventUserTyping           EventType = "user_typing"
	EventPresenceChanged      EventType = "presence_changed"
	EventMessageReaction      EventType = "message_reaction"
	EventDeliveryStatus       EventType = "delivery_status"
	EventConversationClosed   EventType = "conversation_closed"
	EventConversationDeleted  EventType = "conversation_deleted"
	EventConversationReported EventType = "conversation_reported"
)

// Typed payloads, one per event.

type PresencePayload struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Typing         bool   `json:"typing"`
}

type NewConversationPayload struct {
	Conversation models.Conversation `json:"conversation"`
}

type NewMessagePayload struct {
	ConversationID string         `json:"conversationId"`
	Message        models.Message `json:"message"`
}

type MessagesReadPayload struct {
	ConversationID string `json:"conversationId"`
	ReaderID       string `json:"readerId"`
	Count          int    `json:"count"`
}

type DeliveryStatusPayload struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	UserID         string `json:"userId"`
	Status         string `json:"status"`
}

type ReactionPayload struct {
	ConversationID string          `json:"conversationId"`
	MessageID      string          `json:"messageId"`
	Reaction       models.Reaction `json:"reaction"`
}

type ConversationStatusPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Status         string `json:"status"`
}

type ReportPayload struct {
	ConversationID string `json:"conversationId"`
	ReporterID     string `json:"reporterId"`
	Reason         string `json:"reason"`
	Description    string `json:"description,omitempty"`
}

// Emitter delivers events to rooms of connected clients. Delivery is
// fire-and-forget: a client that is offline simply misses the event and
// re-fetches state on reconnect. The socket hub implements this; tests
// inject a fake.
type Emitter interface {
	ToUser(userID string, event EventType, payload interface{})
	ToConversation(conversationID string, event EventType, payload interface{})
	ToConversationExcept(conversationID, exceptUserID string, event EventType, payload interface{})
	ToAdmins(event EventType, payload interface{})
	Broadcast(event EventType, payload interface{})
}
