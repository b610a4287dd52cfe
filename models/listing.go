package models

// ListingsTable is the DynamoDB table name for marketplace listings.
// Listings are owned by the listing service; conversations only
// reference them and read summaries for hydration.
const ListingsTable = "Listings"

// ListingSummary is the listing slice attached to a conversation.
type ListingSummary struct {
	ListingID string  `dynamodbav:"listingId" json:"listingId"`
	Title     string  `dynamodbav:"title" json:"title"`
	Game      string  `dynamodbav:"game" json:"game,omitempty"`
	Price     float64 `dynamodbav:"price" json:"price"`
	ImageURL  string  `dynamodbav:"imageUrl" json:"imageUrl,omitempty"`
}
