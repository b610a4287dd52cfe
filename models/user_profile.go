package models

// UserProfilesTable is the DynamoDB table name for user profiles. The
// chat service only reads summaries from it; profile management lives
// in the account service.
const UserProfilesTable = "UserProfiles"

// ParticipantSummary is the slice of a user profile shown next to a
// conversation (list rows, message headers).
type ParticipantSummary struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	Username  string `dynamodbav:"username" json:"username"`
	AvatarURL string `dynamodbav:"avatarUrl" json:"avatarUrl,omitempty"`
}
