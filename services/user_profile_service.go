package services

import (
	"context"
	"fmt"

	"github.com/Harshvardhan-91/Gaming-website-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads user summaries for conversation hydration.
// The account service owns the table; this is a read-only collaborator.
type UserProfileService struct {
	Dynamo *DynamoService
}

// GetSummary retrieves a user summary by ID. A missing user is returned
// as (nil, nil).
func (s *UserProfileService) GetSummary(ctx context.Context, userID string) (*models.ParticipantSummary, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	if item == nil {
		return nil, nil
	}

	var summary models.ParticipantSummary
	if err := attributevalue.UnmarshalMap(item, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse user %s: %w", userID, err)
	}
	return &summary, nil
}

// Exists reports whether a user profile is present.
func (s *UserProfileService) Exists(ctx context.Context, userID string) (bool, error) {
	summary, err := s.GetSummary(ctx, userID)
	if err != nil {
		return false, err
	}
	return summary != nil, nil
}
