package models

// ScanResult is what a scan trigger call returns to its caller
type ScanResult struct {
	PoolID           string  `json:"poolId"`
	Decision         string  `json:"decision"`
	Reason           string  `json:"reason,omitempty"`
	GroupsFormed     int     `json:"groupsFormed"`
	UsersMatched     int     `json:"usersMatched"`
	AvgGroupScore    float64 `json:"avgGroupScore"`
	CurrentThreshold int     `json:"currentThreshold"`
}

// GroupFormedEvent is emitted once per committed group. External collaborators
// deliver notifications idempotently keyed by groupId.
type GroupFormedEvent struct {
	PoolID           string   `json:"poolId"`
	GroupID          string   `json:"groupId"`
	MemberIDs        []string `json:"memberIds"`
	OverallScore     int      `json:"overallScore"`
	TemperatureLevel string   `json:"temperatureLevel"`
}

// InvitationRewardEvent is emitted when an inviter and invitee land in the same
// committed group. Reward issuance is idempotent on the pair id.
type InvitationRewardEvent struct {
	PoolID    string `json:"poolId"`
	PairID    string `json:"pairId"`
	InviterID string `json:"inviterId"`
	InviteeID string `json:"inviteeId"`
	GroupID   string `json:"groupId"`
}
