package models

// Pool is one time-boxed dinner/drinks slot that registrants compete to be grouped in
type Pool struct {
	PoolID                 string   `dynamodbav:"poolId" json:"poolId"` // ✅ Partition Key
	Title                  string   `dynamodbav:"title,omitempty" json:"title,omitempty"`
	GenderRestriction      string   `dynamodbav:"genderRestriction,omitempty" json:"genderRestriction,omitempty"`
	AllowedIndustries      []string `dynamodbav:"allowedIndustries,omitempty" json:"allowedIndustries,omitempty"`
	AllowedSeniorities     []string `dynamodbav:"allowedSeniorities,omitempty" json:"allowedSeniorities,omitempty"`
	AllowedEducationLevels []string `dynamodbav:"allowedEducationLevels,omitempty" json:"allowedEducationLevels,omitempty"`
	MinAge                 int      `dynamodbav:"minAge,omitempty" json:"minAge,omitempty"`
	MaxAge                 int      `dynamodbav:"maxAge,omitempty" json:"maxAge,omitempty"`
	MinGroupSize           int      `dynamodbav:"minGroupSize" json:"minGroupSize"`
	MaxGroupSize           int      `dynamodbav:"maxGroupSize" json:"maxGroupSize"`
	TargetGroupCount       int      `dynamodbav:"targetGroupCount" json:"targetGroupCount"`
	EventTime              string   `dynamodbav:"eventTime" json:"eventTime"` // RFC3339
	Status                 string   `dynamodbav:"status" json:"status"`       // active, matching, matched, closed, cancelled
	CreatedAt              string   `dynamodbav:"createdAt" json:"createdAt"`
}

// IsOpenForMatching reports whether a scan may still act on this pool
func (p *Pool) IsOpenForMatching() bool {
	return p.Status == PoolStatusActive || p.Status == PoolStatusMatching
}

// PoolsTable is the DynamoDB table name for pools
const PoolsTable = "Pools"
