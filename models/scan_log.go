package models

// ScanLog is one append-only audit record per scan attempt. Never mutated or deleted.
// CreatedAt is the sort key, so per-pool log order is timestamp order.
type ScanLog struct {
	PoolID           string  `dynamodbav:"poolId" json:"poolId"`       // ✅ Partition Key
	CreatedAt        string  `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key (RFC3339Nano)
	ScanID           string  `dynamodbav:"scanId" json:"scanId"`
	ScanType         string  `dynamodbav:"scanType" json:"scanType"` // realtime, scheduled, manual
	PendingCount     int     `dynamodbav:"pendingCount" json:"pendingCount"`
	CurrentThreshold int     `dynamodbav:"currentThreshold" json:"currentThreshold"`
	HoursUntilEvent  float64 `dynamodbav:"hoursUntilEvent" json:"hoursUntilEvent"`
	GroupsFormed     int     `dynamodbav:"groupsFormed" json:"groupsFormed"`
	UsersMatched     int     `dynamodbav:"usersMatched" json:"usersMatched"`
	AvgGroupScore    float64 `dynamodbav:"avgGroupScore" json:"avgGroupScore"`
	Decision         string  `dynamodbav:"decision" json:"decision"` // matched, waiting, insufficient, noop, failed
	Reason           string  `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	TriggeredBy      string  `dynamodbav:"triggeredBy,omitempty" json:"triggeredBy,omitempty"`
}

// ScanLogsTable is the DynamoDB table name for scan audit logs
const ScanLogsTable = "ScanLogs"
