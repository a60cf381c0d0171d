package models

// Group is a committed dinner group. Immutable once created; a re-match creates a
// new pool or a new group, never mutates an existing one.
type Group struct {
	GroupID            string   `dynamodbav:"groupId" json:"groupId"` // ✅ Partition Key
	PoolID             string   `dynamodbav:"poolId" json:"poolId"`   // Indexed via GSI
	MemberIDs          []string `dynamodbav:"memberIds" json:"memberIds"`
	AvgPairScore       float64  `dynamodbav:"avgPairScore" json:"avgPairScore"`
	DiversityScore     int      `dynamodbav:"diversityScore" json:"diversityScore"`
	EnergyBalanceScore int      `dynamodbav:"energyBalanceScore" json:"energyBalanceScore"`
	OverallScore       int      `dynamodbav:"overallScore" json:"overallScore"`
	TemperatureLevel   string   `dynamodbav:"temperatureLevel" json:"temperatureLevel"` // fire, warm, mild, cold
	Explanation        string   `dynamodbav:"explanation,omitempty" json:"explanation,omitempty"`
	CreatedAt          string   `dynamodbav:"createdAt" json:"createdAt"`
}

// GroupsTable is the DynamoDB table name for committed groups
const GroupsTable = "Groups"

// GroupPoolIndex is the GSI for querying a pool's groups
const GroupPoolIndex = "poolId-index"
