package services

import (
	"context"
	"fmt"
	"log"

	"tably_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService reads registrant profiles from the external profile store
type UserProfileService struct {
	Dynamo *DynamoService
}

// GetRegistrantProfile fetches a single registrant profile by userId
func (s *UserProfileService) GetRegistrantProfile(ctx context.Context, userID string) (*models.RegistrantProfile, error) {
	item, err := s.Dynamo.GetItem(ctx, models.RegistrantProfilesTable, MarshalKey("userId", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}

	var profile models.RegistrantProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile data for %s: %w", userID, err)
	}
	return &profile, nil
}

// GetRegistrantProfiles batch-fetches the profiles for a set of userIds. A missing
// profile is an error: the caller cannot score a registrant it cannot read.
func (s *UserProfileService) GetRegistrantProfiles(ctx context.Context, userIDs []string) ([]*models.RegistrantProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	keys := make([]map[string]types.AttributeValue, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, MarshalKey("userId", userID))
	}

	items, err := s.Dynamo.BatchGetItems(ctx, models.RegistrantProfilesTable, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to batch fetch profiles: %w", err)
	}

	byID := make(map[string]*models.RegistrantProfile, len(items))
	for _, item := range items {
		var profile models.RegistrantProfile
		if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
			log.Printf("❌ Error unmarshalling registrant profile: %v", err)
			return nil, fmt.Errorf("failed to parse profile data: %w", err)
		}
		byID[profile.UserID] = &profile
	}

	profiles := make([]*models.RegistrantProfile, 0, len(userIDs))
	for _, userID := range userIDs {
		profile, ok := byID[userID]
		if !ok {
			return nil, fmt.Errorf("profile not found for registrant %s", userID)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
