package models

// Registration links a registrant to a pool. Created on sign-up, mutated only by
// the match ledger's commit.
type Registration struct {
	PoolID          string `dynamodbav:"poolId" json:"poolId"`         // ✅ Partition Key
	UserID          string `dynamodbav:"userId" json:"userId"`         // ✅ Sort Key
	MatchStatus     string `dynamodbav:"matchStatus" json:"matchStatus"` // pending, matched, unmatched
	AssignedGroupID string `dynamodbav:"assignedGroupId,omitempty" json:"assignedGroupId,omitempty"`
	MatchScore      int    `dynamodbav:"matchScore,omitempty" json:"matchScore,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// RegistrationsTable is the DynamoDB table name for pool registrations
const RegistrationsTable = "Registrations"
