package services

import (
	"context"
	"fmt"

	"github.com/Harshvardhan-91/Gaming-website-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ListingService reads listing summaries for conversation hydration.
// Listing CRUD lives in the listing service; conversations only carry
// the reference.
type ListingService struct {
	Dynamo *DynamoService
}

// GetSummary retrieves a listing summary by ID. A missing listing is
// returned as (nil, nil).
func (s *ListingService) GetSummary(ctx context.Context, listingID string) (*models.ListingSummary, error) {
	key := map[string]types.AttributeValue{
		"listingId": &types.AttributeValueMemberS{Value: listingID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.ListingsTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", listingID, err)
	}
	if item == nil {
		return nil, nil
	}

	var summary models.ListingSummary
	if err := attributevalue.UnmarshalMap(item, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse listing %s: %w", listingID, err)
	}
	return &summary, nil
}
