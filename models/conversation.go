package models

// ConversationsTable is the DynamoDB table name for buyer/seller conversations
const ConversationsTable = "Conversations"

// ParticipantListingIndex is the GSI used to look up a conversation by its
// participant pair and listing (pairKey HASH, listingId RANGE)
const ParticipantListingIndex = "ParticipantListingIndex"

// Conversation statuses
const (
	ConversationStatusOpen    = "open"
	ConversationStatusClosed  = "closed"
	ConversationStatusBlocked = "blocked"
)

type Conversation struct {
	ConversationID  string   `dynamodbav:"conversationId" json:"conversationId"`
	PairKey         string   `dynamodbav:"pairKey" json:"-"`
	Participants    []string `dynamodbav:"participants" json:"participants"`
	ListingID       string   `dynamodbav:"listingId" json:"listingId"`
	Status          string   `dynamodbav:"status" json:"status"`
	IsActive        bool     `dynamodbav:"isActive" json:"isActive"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
	LastMessageAt   string   `dynamodbav:"lastMessageAt" json:"lastMessageAt,omitempty"`
	LastMessageText string   `dynamodbav:"lastMessageText" json:"lastMessageText,omitempty"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ConversationDetails is the hydrated view returned to API callers:
// the conversation plus participant/listing summaries and the unread count.
type ConversationDetails struct {
	Conversation
	Messages            []Message            `json:"messages,omitempty"`
	ParticipantProfiles []ParticipantSummary `json:"participantProfiles,omitempty"`
	Listing             *ListingSummary      `json:"listing,omitempty"`
	UnreadCount         int                  `json:"unreadCount"`
}
