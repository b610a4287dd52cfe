package models

// MessagesTable is the DynamoDB table name for conversation messages.
// Partition key is conversationId, sort key is createdAt so the log
// reads back in chronological order.
const MessagesTable = "Messages"

// Reaction is a single (user, emoji) record on a message. Duplicates
// are permitted; every add is appended as-is.
type Reaction struct {
	UserID string `dynamodbav:"userId" json:"userId"`
	Emoji  string `dynamodbav:"emoji" json:"emoji"`
}

type Message struct {
	ConversationID string     `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      string     `dynamodbav:"createdAt" json:"createdAt"`
	MessageID      string     `dynamodbav:"messageId" json:"messageId"`
	SenderID       string     `dynamodbav:"senderId" json:"senderId"`
	Content        string     `dynamodbav:"content" json:"content"`
	Attachments    []string   `dynamodbav:"attachments,omitempty" json:"attachments,omitempty"`
	Read           bool       `dynamodbav:"isRead" json:"isRead"`
	Reactions      []Reaction `dynamodbav:"reactions,omitempty" json:"reactions,omitempty"`
}
