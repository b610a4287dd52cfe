package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Harshvardhan-91/Gaming-website-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// messageTimeLayout is a fixed-width RFC3339 variant. Trailing zeros are
// kept so the string sort key orders chronologically.
const messageTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ConversationService is the durable conversation/message store. All
// reads come back hydrated with participant and listing summaries so
// transport handlers never assemble joins themselves.
type ConversationService struct {
	Dynamo   *DynamoService
	Users    *UserProfileService
	Listings *ListingService
}

// PairKey builds the order-independent participant key used by the
// idempotent-create index.
func PairKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "#")
}

// CreateConversation returns the existing active conversation for the
// (participant pair, listing) if one exists, else creates a new one.
// The boolean reports whether a conversation was created.
func (s *ConversationService) CreateConversation(ctx context.Context, requesterID, participantID, listingID string) (*models.Conversation, bool, error) {
	if requesterID == "" || participantID == "" {
		return nil, false, validationErr("participant id is required")
	}
	if requesterID == participantID {
		return nil, false, validationErr("cannot start a conversation with yourself")
	}
	if listingID == "" {
		return nil, false, validationErr("listing id is required")
	}

	for _, userID := range []string{requesterID, participantID} {
		exists, err := s.Users.Exists(ctx, userID)
		if err != nil {
			return nil, false, storageErr("lookup participant", err)
		}
		if !exists {
			return nil, false, validationErr("unknown participant %s", userID)
		}
	}

	listing, err := s.Listings.GetSummary(ctx, listingID)
	if err != nil {
		return nil, false, storageErr("lookup listing", err)
	}
	if listing == nil {
		return nil, false, validationErr("unknown listing %s", listingID)
	}

	pairKey := PairKey(requesterID, participantID)
	existing, err := s.findActiveConversation(ctx, pairKey, listingID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		log.Printf("Conversation already open for pair %s listing %s: %s", pairKey, listingID, existing.ConversationID)
		return existing, false, nil
	}

	conversation := models.Conversation{
		ConversationID: uuid.New().String(),
		PairKey:        pairKey,
		Participants:   []string{requesterID, participantID},
		ListingID:      listingID,
		Status:         models.ConversationStatusOpen,
		IsActive:       true,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.ConversationsTable, conversation); err != nil {
		return nil, false, storageErr("create conversation", err)
	}

	log.Printf("Created conversation %s for pair %s listing %s", conversation.ConversationID, pairKey, listingID)
	return &conversation, true, nil
}

func (s *ConversationService) findActiveConversation(ctx context.Context, pairKey, listingID string) (*models.Conversation, error) {
	keyCondition := "pairKey = :pairKey AND listingId = :listingId"
	expressionValues := map[string]types.AttributeValue{
		":pairKey":   &types.AttributeValueMemberS{Value: pairKey},
		":listingId": &types.AttributeValueMemberS{Value: listingID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ConversationsTable, models.ParticipantListingIndex, keyCondition, expressionValues, nil, 10)
	if err != nil {
		return nil, storageErr("query conversations by pair", err)
	}

	var conversations []models.Conversation
	if err := attributevalue.UnmarshalListOfMaps(items, &conversations); err != nil {
		return nil, storageErr("parse conversations", err)
	}

	for i := range conversations {
		if conversations[i].IsActive {
			return &conversations[i], nil
		}
	}
	return nil, nil
}

// GetConversation fetches a conversation by id. Soft-deleted
// conversations resolve to ErrNotFound.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ConversationsTable, key)
	if err != nil {
		return nil, storageErr("get conversation", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	var conversation models.Conversation
	if err := attributevalue.UnmarshalMap(item, &conversation); err != nil {
		return nil, storageErr("parse conversation", err)
	}
	if !conversation.IsActive {
		return nil, ErrNotFound
	}
	return &conversation, nil
}

// GetConversationForUser fetches a conversation and verifies that
// userID is one of its participants.
func (s *ConversationService) GetConversationForUser(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	conversation, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, ErrNotAuthorized
	}
	return conversation, nil
}

// GetConversationDetails returns the hydrated conversation with its
// message log in chronological order.
func (s *ConversationService) GetConversationDetails(ctx context.Context, conversationID, userID string, limit int) (*models.ConversationDetails, error) {
	conversation, err := s.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.getMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	details := s.hydrate(ctx, conversation)
	details.Messages = messages
	for _, msg := range messages {
		if msg.SenderID != userID && !msg.Read {
			details.UnreadCount++
		}
	}
	return details, nil
}

// ListConversations returns the caller's active conversations, newest
// activity first, each annotated with its unread count.
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]models.ConversationDetails, error) {
	filter := "contains(participants, :userId) AND isActive = :active"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
		":active": &types.AttributeValueMemberBOOL{Value: true},
	}

	items, err := s.Dynamo.ScanItems(ctx, models.ConversationsTable, filter, expressionValues, nil)
	if err != nil {
		return nil, storageErr("scan conversations", err)
	}

	var conversations []models.Conversation
	if err := attributevalue.UnmarshalListOfMaps(items, &conversations); err != nil {
		return nil, storageErr("parse conversations", err)
	}

	details := make([]models.ConversationDetails, 0, len(conversations))
	for i := range conversations {
		d := s.hydrate(ctx, &conversations[i])
		count, err := s.CountUnread(ctx, conversations[i].ConversationID, userID)
		if err != nil {
			log.Printf("Failed to count unread for conversation %s: %v", conversations[i].ConversationID, err)
		} else {
			d.UnreadCount = count
		}
		details = append(details, *d)
	}

	sort.SliceStable(details, func(i, j int) bool {
		left, right := details[i], details[j]
		if left.LastMessageAt != right.LastMessageAt {
			return left.LastMessageAt > right.LastMessageAt
		}
		return left.CreatedAt > right.CreatedAt
	})
	return details, nil
}

// hydrate attaches participant and listing summaries. Hydration is
// best-effort: a missing profile or listing leaves the field empty
// rather than failing the read.
func (s *ConversationService) hydrate(ctx context.Context, conversation *models.Conversation) *models.ConversationDetails {
	details := &models.ConversationDetails{Conversation: *conversation}

	for _, participantID := range conversation.Participants {
		summary, err := s.Users.GetSummary(ctx, participantID)
		if err != nil {
			log.Printf("Failed to hydrate participant %s: %v", participantID, err)
			continue
		}
		if summary != nil {
			details.ParticipantProfiles = append(details.ParticipantProfiles, *summary)
		}
	}

	listing, err := s.Listings.GetSummary(ctx, conversation.ListingID)
	if err != nil {
		log.Printf("Failed to hydrate listing %s: %v", conversation.ListingID, err)
	} else {
		details.Listing = listing
	}
	return details
}

// AppendMessage validates and persists a message, then bumps the
// conversation's last-message fields. Returns the stored message and
// the updated conversation.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID, senderID, content string, attachments []string) (*models.Message, *models.Conversation, error) {
	conversation, err := s.GetConversationForUser(ctx, conversationID, senderID)
	if err != nil {
		return nil, nil, err
	}
	if conversation.Status != models.ConversationStatusOpen {
		return nil, nil, ErrConversationClosed
	}
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return nil, nil, validationErr("message content cannot be empty")
	}

	now := time.Now()
	message := models.Message{
		ConversationID: conversationID,
		CreatedAt:      now.Format(messageTimeLayout),
		MessageID:      uuid.New().String(),
		SenderID:       senderID,
		Content:        content,
		Attachments:    attachments,
		Read:           false,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, nil, storageErr("store message", err)
	}

	preview := content
	if preview == "" {
		preview = "[attachment]"
	}
	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "SET lastMessageAt = :at, lastMessageText = :text"
	expressionValues := map[string]types.AttributeValue{
		":at":   &types.AttributeValueMemberS{Value: message.CreatedAt},
		":text": &types.AttributeValueMemberS{Value: preview},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, nil); err != nil {
		return nil, nil, storageErr("update conversation activity", err)
	}

	conversation.LastMessageAt = message.CreatedAt
	conversation.LastMessageText = preview
	return &message, conversation, nil
}

// getMessages returns the newest limit messages in chronological
// order. The query runs newest first so the limit keeps the latest
// window; the page is reversed before returning.
func (s *ConversationService) getMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	keyCondition := "conversationId = :conversationId"
	expressionValues := map[string]types.AttributeValue{
		":conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), false)
	if err != nil {
		return nil, storageErr("query messages", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, storageErr("parse messages", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flags every unread inbound message as read and returns the
// number of messages updated. Calling it twice is a no-op the second
// time.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	if _, err := s.GetConversationForUser(ctx, conversationID, readerID); err != nil {
		return 0, err
	}

	messages, err := s.getMessages(ctx, conversationID, 0)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, message := range messages {
		if message.SenderID == readerID || message.Read {
			continue
		}
		key := map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: conversationID},
			"createdAt":      &types.AttributeValueMemberS{Value: message.CreatedAt},
		}
		updateExpression := "SET isRead = :true"
		expressionValues := map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}
		if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil); err != nil {
			return updated, storageErr("mark message read", err)
		}
		updated++
	}
	return updated, nil
}

// CountUnread counts messages in the conversation that userID has not
// read and did not send.
func (s *ConversationService) CountUnread(ctx context.Context, conversationID, userID string) (int, error) {
	messages, err := s.getMessages(ctx, conversationID, 0)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, message := range messages {
		if message.SenderID != userID && !message.Read {
			count++
		}
	}
	return count, nil
}

// SetStatus transitions the conversation status. Only open->closed and
// open->blocked are valid; closing is terminal.
func (s *ConversationService) SetStatus(ctx context.Context, conversationID, requesterID, status string) (*models.Conversation, error) {
	conversation, err := s.GetConversationForUser(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}

	if status != models.ConversationStatusClosed && status != models.ConversationStatusBlocked {
		return nil, validationErr("unsupported status %q", status)
	}
	if conversation.Status != models.ConversationStatusOpen {
		return nil, validationErr("cannot transition conversation from %q to %q", conversation.Status, status)
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "SET #status = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionNames := map[string]string{
		"#status": "status",
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, expressionNames); err != nil {
		return nil, storageErr("update conversation status", err)
	}

	conversation.Status = status
	return conversation, nil
}

// SoftDelete hides the conversation without erasing it.
func (s *ConversationService) SoftDelete(ctx context.Context, conversationID, requesterID string) error {
	if _, err := s.GetConversationForUser(ctx, conversationID, requesterID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
	}
	updateExpression := "SET isActive = :inactive"
	expressionValues := map[string]types.AttributeValue{
		":inactive": &types.AttributeValueMemberBOOL{Value: false},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.ConversationsTable, updateExpression, key, expressionValues, nil); err != nil {
		return storageErr("soft delete conversation", err)
	}
	return nil
}

// AddReaction appends a (user, emoji) record to a message. Duplicate
// reactions from the same user are allowed.
func (s *ConversationService) AddReaction(ctx context.Context, conversationID, messageID, userID, emoji string) (*models.Message, error) {
	if emoji == "" {
		return nil, validationErr("reaction emoji is required")
	}
	if _, err := s.GetConversationForUser(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.getMessages(ctx, conversationID, 0)
	if err != nil {
		return nil, err
	}

	var target *models.Message
	for i := range messages {
		if messages[i].MessageID == messageID {
			target = &messages[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}

	reaction := models.Reaction{UserID: userID, Emoji: emoji}
	reactionItem, err := attributevalue.MarshalMap(reaction)
	if err != nil {
		return nil, storageErr("marshal reaction", err)
	}

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"createdAt":      &types.AttributeValueMemberS{Value: target.CreatedAt},
	}
	updateExpression := "SET reactions = list_append(if_not_exists(reactions, :empty), :reaction)"
	expressionValues := map[string]types.AttributeValue{
		":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		":reaction": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberM{Value: reactionItem},
		}},
	}
	if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, expressionValues, nil); err != nil {
		return nil, storageErr("add reaction", err)
	}

	target.Reactions = append(target.Reactions, reaction)
	return target, nil
}
