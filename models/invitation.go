package models

// InvitationPair is a soft inviter→invitee link within a pool. It biases pairing
// toward keeping the two together; it never forces an assignment.
type InvitationPair struct {
	PoolID    string `dynamodbav:"poolId" json:"poolId"`         // ✅ Partition Key
	PairID    string `dynamodbav:"pairId" json:"pairId"`         // ✅ Sort Key: "<inviterId>#<inviteeId>"
	InviterID string `dynamodbav:"inviterId" json:"inviterId"`
	InviteeID string `dynamodbav:"inviteeId" json:"inviteeId"`
	Status    string `dynamodbav:"status" json:"status"` // active, used
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// InvitationPairsTable is the DynamoDB table name for invitation pairs
const InvitationPairsTable = "InvitationPairs"
