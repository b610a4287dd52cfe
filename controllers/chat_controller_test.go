package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/Harshvardhan-91/Gaming-website-sub000/controllers"
	"github.com/Harshvardhan-91/Gaming-website-sub000/middleware"
	"github.com/Harshvardhan-91/Gaming-website-sub000/models"
	"github.com/Harshvardhan-91/Gaming-website-sub000/routes"
	"github.com/Harshvardhan-91/Gaming-website-sub000/services"
)

type fakeStore struct {
	createConversation func(requesterID, participantID, listingID string) (*models.Conversation, bool, error)
	listConversations  func(userID string) ([]models.ConversationDetails, error)
	details            func(conversationID, userID string, limit int) (*models.ConversationDetails, error)
	appendMessage      func(conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error)
	markRead           func(conversationID, readerID string) (int, error)
	setStatus          func(conversationID, requesterID, status string) (*models.Conversation, error)
	softDelete         func(conversationID, requesterID string) error
}

func (f *fakeStore) CreateConversation(ctx context.Context, requesterID, participantID, listingID string) (*models.Conversation, bool, error) {
	return f.createConversation(requesterID, participantID, listingID)
}

func (f *fakeStore) ListConversations(ctx context.Context, userID string) ([]models.ConversationDetails, error) {
	return f.listConversations(userID)
}

func (f *fakeStore) GetConversationDetails(ctx context.Context, conversationID, userID string, limit int) (*models.ConversationDetails, error) {
	return f.details(conversationID, userID, limit)
}

func (f *fakeStore) AppendMessage(ctx context.Context, conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error) {
	return f.appendMessage(conversationID, senderID, content, attachments)
}

func (f *fakeStore) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	return f.markRead(conversationID, readerID)
}

func (f *fakeStore) SetStatus(ctx context.Context, conversationID, requesterID, status string) (*models.Conversation, error) {
	return f.setStatus(conversationID, requesterID, status)
}

func (f *fakeStore) SoftDelete(ctx context.Context, conversationID, requesterID string) error {
	return f.softDelete(conversationID, requesterID)
}

type emitted struct {
	room  string
	event services.EventType
}

type fakeEmitter struct {
	events []emitted
}

func (f *fakeEmitter) ToUser(userID string, event services.EventType, payload interface{}) {
	f.events = append(f.events, emitted{room: "user:" + userID, event: event})
}

func (f *fakeEmitter) ToConversation(conversationID string, event services.EventType, payload interface{}) {
	f.events = append(f.events, emitted{room: "conversation:" + conversationID, event: event})
}

func (f *fakeEmitter) ToConversationExcept(conversationID, exceptUserID string, event services.EventType, payload interface{}) {
	f.events = append(f.events, emitted{room: "conversation:" + conversationID, event: event})
}

func (f *fakeEmitter) ToAdmins(event services.EventType, payload interface{}) {
	f.events = append(f.events, emitted{room: "admins", event: event})
}

func (f *fakeEmitter) Broadcast(event services.EventType, payload interface{}) {
	f.events = append(f.events, emitted{room: "broadcast", event: event})
}

func (f *fakeEmitter) has(room string, event services.EventType) bool {
	for _, e := range f.events {
		if e.room == room && e.event == event {
			return true
		}
	}
	return false
}

// testAuth injects a fixed identity instead of validating a token.
func testAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	}
}

func newTestServer(store *fakeStore, emitter *fakeEmitter, userID string) *mux.Router {
	r := mux.NewRouter()
	routes.RegisterChatRoutes(r, controllers.NewChatController(store, emitter), testAuth(userID))
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateConversationNewEmitsToParticipant(t *testing.T) {
	conversation := &models.Conversation{ConversationID: "conv-1", Participants: []string{"u1", "u2"}, ListingID: "l42", Status: models.ConversationStatusOpen, IsActive: true}
	store := &fakeStore{
		createConversation: func(requesterID, participantID, listingID string) (*models.Conversation, bool, error) {
			if requesterID != "u1" || participantID != "u2" || listingID != "l42" {
				t.Fatalf("unexpected create args: %s %s %s", requesterID, participantID, listingID)
			}
			return conversation, true, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations", `{"participantId":"u2","listingId":"l42"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !emitter.has("user:u2", services.EventNewConversation) {
		t.Fatal("new conversation not announced to the other participant")
	}

	var body struct {
		IsNew bool `json:"isNew"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.IsNew {
		t.Fatal("isNew = false, want true")
	}
}

func TestCreateConversationExistingIsQuiet(t *testing.T) {
	conversation := &models.Conversation{ConversationID: "conv-1", Participants: []string{"u1", "u2"}}
	store := &fakeStore{
		createConversation: func(requesterID, participantID, listingID string) (*models.Conversation, bool, error) {
			return conversation, false, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations", `{"participantId":"u2","listingId":"l42"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(emitter.events) != 0 {
		t.Fatalf("existing conversation must not re-announce, got %v", emitter.events)
	}
}

func TestCreateConversationValidationError(t *testing.T) {
	store := &fakeStore{
		createConversation: func(requesterID, participantID, listingID string) (*models.Conversation, bool, error) {
			return nil, false, &services.ValidationError{Reason: "cannot start a conversation with yourself"}
		},
	}
	router := newTestServer(store, &fakeEmitter{}, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations", `{"participantId":"u1","listingId":"l42"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSendMessageFansOut(t *testing.T) {
	message := &models.Message{ConversationID: "conv-1", MessageID: "m1", SenderID: "u1", Content: "hi"}
	conversation := &models.Conversation{ConversationID: "conv-1", Participants: []string{"u1", "u2"}}
	store := &fakeStore{
		appendMessage: func(conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error) {
			return message, conversation, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations/conv-1/messages", `{"content":"hi"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !emitter.has("conversation:conv-1", services.EventNewMessage) {
		t.Fatal("message not fanned out to the conversation room")
	}
	if !emitter.has("user:u2", services.EventNewMessage) {
		t.Fatal("message not delivered to the recipient's personal room")
	}
}

func TestSendMessageErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not a participant", services.ErrNotAuthorized, http.StatusForbidden},
		{"missing conversation", services.ErrNotFound, http.StatusNotFound},
		{"closed conversation", services.ErrConversationClosed, http.StatusConflict},
		{"empty content", &services.ValidationError{Reason: "message content cannot be empty"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{
				appendMessage: func(conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error) {
					return nil, nil, tc.err
				},
			}
			emitter := &fakeEmitter{}
			router := newTestServer(store, emitter, "u1")

			rec := doJSON(t, router, "POST", "/api/conversations/conv-1/messages", `{"content":"x"}`)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			if len(emitter.events) != 0 {
				t.Fatal("failed send must not emit")
			}
		})
	}
}

func TestGetConversationMarksRead(t *testing.T) {
	details := &models.ConversationDetails{Conversation: models.Conversation{ConversationID: "conv-1", Participants: []string{"u1", "u2"}}}
	store := &fakeStore{
		markRead: func(conversationID, readerID string) (int, error) { return 2, nil },
		details: func(conversationID, userID string, limit int) (*models.ConversationDetails, error) {
			return details, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "GET", "/api/conversations/conv-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !emitter.has("conversation:conv-1", services.EventMessagesRead) {
		t.Fatal("read receipt not emitted")
	}
}

func TestMarkReadQuietWhenNothingChanges(t *testing.T) {
	store := &fakeStore{
		markRead: func(conversationID, readerID string) (int, error) { return 0, nil },
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "PUT", "/api/conversations/conv-1/read", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(emitter.events) != 0 {
		t.Fatal("no-op mark-read must not emit a receipt")
	}
}

func TestReportConversation(t *testing.T) {
	store := &fakeStore{
		setStatus: func(conversationID, requesterID, status string) (*models.Conversation, error) {
			if status != models.ConversationStatusBlocked {
				t.Fatalf("status = %q, want blocked", status)
			}
			return &models.Conversation{ConversationID: conversationID, Status: status}, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations/conv-1/report", `{"reason":"scam","description":"asked to pay off-platform"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !emitter.has("admins", services.EventConversationReported) {
		t.Fatal("report not escalated to admins")
	}
	if !emitter.has("conversation:conv-1", services.EventConversationReported) {
		t.Fatal("report not announced to the conversation")
	}
}

func TestReportConversationRequiresReason(t *testing.T) {
	router := newTestServer(&fakeStore{}, &fakeEmitter{}, "u1")

	rec := doJSON(t, router, "POST", "/api/conversations/conv-1/report", `{"description":"no reason given"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCloseConversation(t *testing.T) {
	store := &fakeStore{
		setStatus: func(conversationID, requesterID, status string) (*models.Conversation, error) {
			if status != models.ConversationStatusClosed {
				t.Fatalf("status = %q, want closed", status)
			}
			return &models.Conversation{ConversationID: conversationID, Status: status}, nil
		},
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "PUT", "/api/conversations/conv-1/close", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !emitter.has("conversation:conv-1", services.EventConversationClosed) {
		t.Fatal("close not announced")
	}
}

func TestCloseAlreadyClosedConversation(t *testing.T) {
	store := &fakeStore{
		setStatus: func(conversationID, requesterID, status string) (*models.Conversation, error) {
			return nil, &services.ValidationError{Reason: "cannot transition conversation from \"closed\" to \"closed\""}
		},
	}
	router := newTestServer(store, &fakeEmitter{}, "u1")

	rec := doJSON(t, router, "PUT", "/api/conversations/conv-1/close", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteConversation(t *testing.T) {
	store := &fakeStore{
		softDelete: func(conversationID, requesterID string) error { return nil },
	}
	emitter := &fakeEmitter{}
	router := newTestServer(store, emitter, "u1")

	rec := doJSON(t, router, "DELETE", "/api/conversations/conv-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !emitter.has("conversation:conv-1", services.EventConversationDeleted) {
		t.Fatal("deletion not announced")
	}
}

func TestDeleteConversationNotAuthorized(t *testing.T) {
	store := &fakeStore{
		softDelete: func(conversationID, requesterID string) error { return services.ErrNotAuthorized },
	}
	router := newTestServer(store, &fakeEmitter{}, "u3")

	rec := doJSON(t, router, "DELETE", "/api/conversations/conv-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestListConversations(t *testing.T) {
	store := &fakeStore{
		listConversations: func(userID string) ([]models.ConversationDetails, error) {
			return []models.ConversationDetails{
				{Conversation: models.Conversation{ConversationID: "conv-2", LastMessageAt: "2026-02-01T00:00:00.000000000Z"}},
				{Conversation: models.Conversation{ConversationID: "conv-1", LastMessageAt: "2026-01-01T00:00:00.000000000Z"}},
			}, nil
		},
	}
	router := newTestServer(store, &fakeEmitter{}, "u1")

	rec := doJSON(t, router, "GET", "/api/conversations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Count         int `json:"count"`
		Conversations []struct {
			ConversationID string `json:"conversationId"`
		} `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 2 || len(body.Conversations) != 2 {
		t.Fatalf("got %d conversations", body.Count)
	}
	if body.Conversations[0].ConversationID != "conv-2" {
		t.Fatalf("order not preserved: first is %s", body.Conversations[0].ConversationID)
	}
}
