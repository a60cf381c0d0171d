package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tably_server/models"
	"tably_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchStore is the DynamoDB-backed persistence layer for pools, registrations,
// invitation pairs, groups and scan logs. Registrations and groups are written
// only through CommitMatch.
type MatchStore struct {
	Dynamo *DynamoService
}

// GetPool fetches one pool by id
func (s *MatchStore) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	item, err := s.Dynamo.GetItem(ctx, models.PoolsTable, MarshalKey("poolId", poolID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pool %s: %w", poolID, err)
	}

	var pool models.Pool
	if err := attributevalue.UnmarshalMap(item, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse pool %s: %w", poolID, err)
	}
	return &pool, nil
}

// ListActivePools returns every pool still open for scanning
func (s *MatchStore) ListActivePools(ctx context.Context) ([]models.Pool, error) {
	var pools []models.Pool
	err := s.Dynamo.ScanWithFilter(ctx, models.PoolsTable,
		func(item map[string]types.AttributeValue) bool {
			return utils.ExtractString(item, "status") == models.PoolStatusActive
		}, nil, &pools)
	if err != nil {
		return nil, fmt.Errorf("failed to list active pools: %w", err)
	}
	return pools, nil
}

// ListRegistrations returns a pool's registrations, optionally filtered by match status
func (s *MatchStore) ListRegistrations(ctx context.Context, poolID, matchStatus string) ([]models.Registration, error) {
	keyCondition := "#poolId = :poolId"
	expressionValues := map[string]types.AttributeValue{
		":poolId": &types.AttributeValueMemberS{Value: poolID},
	}
	expressionNames := map[string]string{
		"#poolId": "poolId",
	}

	items, err := s.Dynamo.QueryItems(ctx, models.RegistrationsTable, keyCondition, expressionValues, expressionNames, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for pool %s: %w", poolID, err)
	}

	var registrations []models.Registration
	for _, item := range items {
		if matchStatus != "" && utils.ExtractString(item, "matchStatus") != matchStatus {
			continue
		}
		var registration models.Registration
		if err := attributevalue.UnmarshalMap(item, &registration); err != nil {
			log.Printf("❌ Error unmarshalling registration: %v", err)
			continue
		}
		registrations = append(registrations, registration)
	}
	return registrations, nil
}

// ListInvitationPairs returns the active invitation pairs within a pool
func (s *MatchStore) ListInvitationPairs(ctx context.Context, poolID string) ([]models.InvitationPair, error) {
	keyCondition := "#poolId = :poolId"
	expressionValues := map[string]types.AttributeValue{
		":poolId": &types.AttributeValueMemberS{Value: poolID},
	}
	expressionNames := map[string]string{
		"#poolId": "poolId",
	}

	items, err := s.Dynamo.QueryItems(ctx, models.InvitationPairsTable, keyCondition, expressionValues, expressionNames, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitation pairs for pool %s: %w", poolID, err)
	}

	var pairs []models.InvitationPair
	for _, item := range items {
		if utils.ExtractString(item, "status") != models.InvitationStatusActive {
			continue
		}
		var pair models.InvitationPair
		if err := attributevalue.UnmarshalMap(item, &pair); err != nil {
			log.Printf("❌ Error unmarshalling invitation pair: %v", err)
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// ListGroupsByPool returns a pool's committed groups via the poolId GSI
func (s *MatchStore) ListGroupsByPool(ctx context.Context, poolID string) ([]models.Group, error) {
	keyCondition := "#poolId = :poolId"
	expressionValues := map[string]types.AttributeValue{
		":poolId": &types.AttributeValueMemberS{Value: poolID},
	}
	expressionNames := map[string]string{
		"#poolId": "poolId",
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.GroupsTable, models.GroupPoolIndex, keyCondition, expressionValues, expressionNames, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for pool %s: %w", poolID, err)
	}

	var groups []models.Group
	for _, item := range items {
		var group models.Group
		if err := attributevalue.UnmarshalMap(item, &group); err != nil {
			log.Printf("❌ Error unmarshalling group: %v", err)
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// AppendScanLog writes one append-only scan audit row. The put is conditioned on
// the (poolId, createdAt) key being free, so an existing row is never overwritten;
// a key collision re-stamps the entry and retries.
func (s *MatchStore) AppendScanLog(ctx context.Context, entry *models.ScanLog) error {
	err := appendScanLog(entry, func(e *models.ScanLog) error {
		return s.Dynamo.PutItemWithCondition(ctx, models.ScanLogsTable, e, "attribute_not_exists(createdAt)")
	})
	if err != nil {
		return fmt.Errorf("failed to append scan log for pool %s: %w", entry.PoolID, err)
	}
	return nil
}

func appendScanLog(entry *models.ScanLog, put func(*models.ScanLog) error) error {
	for attempt := 0; ; attempt++ {
		err := put(entry)
		if err == nil || !IsConditionFailed(err) || attempt >= 2 {
			return err
		}
		entry.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
}

// ListScanLogs returns a pool's scan history, newest first
func (s *MatchStore) ListScanLogs(ctx context.Context, poolID string, limit int32) ([]models.ScanLog, error) {
	keyCondition := "#poolId = :poolId"
	expressionValues := map[string]types.AttributeValue{
		":poolId": &types.AttributeValueMemberS{Value: poolID},
	}
	expressionNames := map[string]string{
		"#poolId": "poolId",
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.ScanLogsTable, keyCondition, expressionValues, expressionNames, limit, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan logs for pool %s: %w", poolID, err)
	}

	var logs []models.ScanLog
	for _, item := range items {
		var entry models.ScanLog
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
			log.Printf("❌ Error unmarshalling scan log: %v", err)
			continue
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

// AcquireMatchingLock flips the pool from active to the transitional matching
// status. Losing the condition check means another commit holds the pool or the
// pool already resolved; the caller must abort without writing.
func (s *MatchStore) AcquireMatchingLock(ctx context.Context, poolID string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.PoolsTable,
		"SET #status = :matching",
		MarshalKey("poolId", poolID),
		map[string]types.AttributeValue{
			":matching": &types.AttributeValueMemberS{Value: models.PoolStatusMatching},
			":active":   &types.AttributeValueMemberS{Value: models.PoolStatusActive},
		},
		map[string]string{"#status": "status"},
		"#status = :active",
	)
	return err
}

// ReleaseMatchingLock returns a pool from matching to active after a failed or
// abandoned commit attempt
func (s *MatchStore) ReleaseMatchingLock(ctx context.Context, poolID string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.PoolsTable,
		"SET #status = :active",
		MarshalKey("poolId", poolID),
		map[string]types.AttributeValue{
			":active":   &types.AttributeValueMemberS{Value: models.PoolStatusActive},
			":matching": &types.AttributeValueMemberS{Value: models.PoolStatusMatching},
		},
		map[string]string{"#status": "status"},
		"#status = :matching",
	)
	return err
}

// MemberAssignment is one registrant's placement inside a committed group
type MemberAssignment struct {
	PoolID  string
	UserID  string
	GroupID string
	Score   int
}

// MatchCommit is the full set of writes for one accepted scan
type MatchCommit struct {
	Pool             *models.Pool
	Groups           []models.Group
	MatchedMembers   []MemberAssignment
	UnmatchedUserIDs []string
	UsedInvitations  []models.InvitationPair
	Entry            *models.ScanLog
}

// CommitMatch applies an accepted scan as a single all-or-nothing transaction:
// group rows, member assignments, leftover unmatched flips, used invitation
// marks, the pool's matched transition and the scan log row. The pool update is
// conditioned on the matching lock still being held, so a pool closed or
// cancelled mid-scan cancels the whole transaction.
func (s *MatchStore) CommitMatch(ctx context.Context, commit *MatchCommit) error {
	var items []types.TransactWriteItem

	for i := range commit.Groups {
		groupItem, err := attributevalue.MarshalMap(commit.Groups[i])
		if err != nil {
			return fmt.Errorf("failed to marshal group %s: %w", commit.Groups[i].GroupID, err)
		}
		tableName := models.GroupsTable
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{TableName: &tableName, Item: groupItem},
		})
	}

	registrationsTable := models.RegistrationsTable
	for _, member := range commit.MatchedMembers {
		updateExpression := "SET #matchStatus = :matched, #assignedGroupId = :groupId, #matchScore = :score"
		conditionExpression := "#matchStatus = :pending"
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &registrationsTable,
				Key: map[string]types.AttributeValue{
					"poolId": &types.AttributeValueMemberS{Value: member.PoolID},
					"userId": &types.AttributeValueMemberS{Value: member.UserID},
				},
				UpdateExpression:    &updateExpression,
				ConditionExpression: &conditionExpression,
				ExpressionAttributeNames: map[string]string{
					"#matchStatus":     "matchStatus",
					"#assignedGroupId": "assignedGroupId",
					"#matchScore":      "matchScore",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":matched": &types.AttributeValueMemberS{Value: models.MatchStatusMatched},
					":groupId": &types.AttributeValueMemberS{Value: member.GroupID},
					":score":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", member.Score)},
					":pending": &types.AttributeValueMemberS{Value: models.MatchStatusPending},
				},
			},
		})
	}

	for _, userID := range commit.UnmatchedUserIDs {
		updateExpression := "SET #matchStatus = :unmatched"
		conditionExpression := "#matchStatus = :pending"
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &registrationsTable,
				Key: map[string]types.AttributeValue{
					"poolId": &types.AttributeValueMemberS{Value: commit.Pool.PoolID},
					"userId": &types.AttributeValueMemberS{Value: userID},
				},
				UpdateExpression:    &updateExpression,
				ConditionExpression: &conditionExpression,
				ExpressionAttributeNames: map[string]string{
					"#matchStatus": "matchStatus",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":unmatched": &types.AttributeValueMemberS{Value: models.MatchStatusUnmatched},
					":pending":   &types.AttributeValueMemberS{Value: models.MatchStatusPending},
				},
			},
		})
	}

	invitationsTable := models.InvitationPairsTable
	for _, pair := range commit.UsedInvitations {
		updateExpression := "SET #status = :used"
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: &invitationsTable,
				Key: map[string]types.AttributeValue{
					"poolId": &types.AttributeValueMemberS{Value: pair.PoolID},
					"pairId": &types.AttributeValueMemberS{Value: pair.PairID},
				},
				UpdateExpression:         &updateExpression,
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":used": &types.AttributeValueMemberS{Value: models.InvitationStatusUsed},
				},
			},
		})
	}

	poolsTable := models.PoolsTable
	poolUpdateExpression := "SET #status = :matched"
	poolConditionExpression := "#status = :matching"
	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName:                &poolsTable,
			Key:                      MarshalKey("poolId", commit.Pool.PoolID),
			UpdateExpression:         &poolUpdateExpression,
			ConditionExpression:      &poolConditionExpression,
			ExpressionAttributeNames: map[string]string{"#status": "status"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":matched":  &types.AttributeValueMemberS{Value: models.PoolStatusMatched},
				":matching": &types.AttributeValueMemberS{Value: models.PoolStatusMatching},
			},
		},
	})

	logItem, err := attributevalue.MarshalMap(commit.Entry)
	if err != nil {
		return fmt.Errorf("failed to marshal scan log: %w", err)
	}
	logsTable := models.ScanLogsTable
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{TableName: &logsTable, Item: logItem},
	})

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		return fmt.Errorf("match commit for pool %s failed: %w", commit.Pool.PoolID, err)
	}

	log.Printf("✅ Committed %d groups (%d members matched) for pool %s",
		len(commit.Groups), len(commit.MatchedMembers), commit.Pool.PoolID)
	return nil
}
