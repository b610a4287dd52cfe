package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Harshvardhan-91/Gaming-website-sub000/middleware"
	"github.com/Harshvardhan-91/Gaming-website-sub000/models"
	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
)

// defaultMessageLimit bounds the message log returned on a single
// conversation fetch.
const defaultMessageLimit = 100

// ConversationStore is the slice of the conversation service the
// controller depends on. Tests substitute a fake.
type ConversationStore interface {
	CreateConversation(ctx context.Context, requesterID, participantID, listingID string) (*models.Conversation, bool, error)
	ListConversations(ctx context.Context, userID string) ([]models.ConversationDetails, error)
	GetConversationDetails(ctx context.Context, conversationID, userID string, limit int) (*models.ConversationDetails, error)
	AppendMessage(ctx context.Context, conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error)
	MarkRead(ctx context.Context, conversationID, readerID string) (int, error)
	SetStatus(ctx context.Context, conversationID, requesterID, status string) (*models.Conversation, error)
	SoftDelete(ctx context.Context, conversationID, requesterID string) error
}

// ChatController is the authorization and orchestration boundary for
// conversation commands: validate, mutate the store, then notify the
// realtime channel.
type ChatController struct {
	Store   ConversationStore
	Emitter services.Emitter
}

// NewChatController initializes the chat controller
func NewChatController(store ConversationStore, emitter services.Emitter) *ChatController {
	return &ChatController{Store: store, Emitter: emitter}
}

// HandleListConversations - GET /api/conversations
func (c *ChatController) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	conversations, err := c.Store.ListConversations(r.Context(), userID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// HandleGetConversation - GET /api/conversations/{id}. Fetching a
// conversation implicitly marks its inbound messages read.
func (c *ChatController) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	count, err := c.Store.MarkRead(r.Context(), conversationID, userID)
	if err != nil {
		c.writeError(w, err)
		return
	}
	if count > 0 {
		c.Emitter.ToConversation(conversationID, services.EventMessagesRead, services.MessagesReadPayload{
			ConversationID: conversationID,
			ReaderID:       userID,
			Count:          count,
		})
	}

	details, err := c.Store.GetConversationDetails(r.Context(), conversationID, userID, defaultMessageLimit)
	if err != nil {
		c.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// HandleCreateConversation - POST /api/conversations
func (c *ChatController) HandleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var request struct {
		ParticipantID string `json:"participantId"`
		ListingID     string `json:"listingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conversation, created, err := c.Store.CreateConversation(r.Context(), userID, request.ParticipantID, request.ListingID)
	if err != nil {
		c.writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		c.Emitter.ToUser(request.ParticipantID, services.EventNewConversation, services.NewConversationPayload{
			Conversation: *conversation,
		})
	}

	writeJSON(w, status, map[string]interface{}{
		"conversation": conversation,
		"isNew":        created,
	})
}

// HandleSendMessage - POST /api/conversations/{id}/messages
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	var request struct {
		Content     string   `json:"content"`
		Attachments []string `json:"attachments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, conversation, err := c.Store.AppendMessage(r.Context(), conversationID, userID, request.Content, request.Attachments)
	if err != nil {
		c.writeError(w, err)
		return
	}

	payload := services.NewMessagePayload{ConversationID: conversationID, Message: *message}
	c.Emitter.ToConversation(conversationID, services.EventNewMessage, payload)
	// The recipient's personal room doubles as the notification surface
	// for unread badges when they are outside the conversation room.
	c.Emitter.ToUser(conversation.OtherParticipant(userID), services.EventNewMessage, payload)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": message})
}

// HandleMarkRead - PUT /api/conversations/{id}/read
func (c *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	count, err := c.Store.MarkRead(r.Context(), conversationID, userID)
	if err != nil {
		c.writeError(w, err)
		return
	}
	if count > 0 {
		c.Emitter.ToConversation(conversationID, services.EventMessagesRead, services.MessagesReadPayload{
			ConversationID: conversationID,
			ReaderID:       userID,
			Count:          count,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": count})
}

// HandleCloseConversation - PUT /api/conversations/{id}/close
func (c *ChatController) HandleCloseConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	conversation, err := c.Store.SetStatus(r.Context(), conversationID, userID, models.ConversationStatusClosed)
	if err != nil {
		c.writeError(w, err)
		return
	}

	c.Emitter.ToConversation(conversationID, services.EventConversationClosed, services.ConversationStatusPayload{
		ConversationID: conversationID,
		UserID:         userID,
		Status:         conversation.Status,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"conversation": conversation})
}

// HandleReportConversation - POST /api/conversations/{id}/report.
// Blocks the conversation and notifies the admin room.
func (c *ChatController) HandleReportConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	var request struct {
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Reason == "" {
		writeJSONError(w, http.StatusBadRequest, "report reason is required")
		return
	}

	conversation, err := c.Store.SetStatus(r.Context(), conversationID, userID, models.ConversationStatusBlocked)
	if err != nil {
		c.writeError(w, err)
		return
	}

	c.Emitter.ToConversation(conversationID, services.EventConversationReported, services.ConversationStatusPayload{
		ConversationID: conversationID,
		UserID:         userID,
		Status:         conversation.Status,
	})
	c.Emitter.ToAdmins(services.EventConversationReported, services.ReportPayload{
		ConversationID: conversationID,
		ReporterID:     userID,
		Reason:         request.Reason,
		Description:    request.Description,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"conversation": conversation})
}

// HandleDeleteConversation - DELETE /api/conversations/{id}
func (c *ChatController) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	conversationID := mux.Vars(r)["id"]

	if err := c.Store.SoftDelete(r.Context(), conversationID, userID); err != nil {
		c.writeError(w, err)
		return
	}

	c.Emitter.ToConversation(conversationID, services.EventConversationDeleted, services.ConversationStatusPayload{
		ConversationID: conversationID,
		UserID:         userID,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// writeError maps the service error taxonomy onto HTTP responses.
func (c *ChatController) writeError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSONError(w, http.StatusBadRequest, validation.Reason)
	case errors.Is(err, services.ErrNotAuthorized):
		writeJSONError(w, http.StatusForbidden, "you are not a participant of this conversation")
	case errors.Is(err, services.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, services.ErrConversationClosed):
		writeJSONError(w, http.StatusConflict, "conversation no longer accepts messages")
	default:
		log.Printf("Internal error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}
