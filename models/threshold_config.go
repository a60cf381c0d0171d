package models

// ThresholdConfig tunes the matching acceptance policy. Exactly one row is active
// at a time; when none exists the engine falls back to DefaultThresholdConfig.
type ThresholdConfig struct {
	ConfigID                     string `dynamodbav:"configId" json:"configId"` // ✅ Partition Key
	Active                       bool   `dynamodbav:"active" json:"active"`
	HighCompatibilityThreshold   int    `dynamodbav:"highCompatibilityThreshold" json:"highCompatibilityThreshold"`
	MediumCompatibilityThreshold int    `dynamodbav:"mediumCompatibilityThreshold" json:"mediumCompatibilityThreshold"`
	LowCompatibilityThreshold    int    `dynamodbav:"lowCompatibilityThreshold" json:"lowCompatibilityThreshold"` // retained for policy tuning, unused by the decision rule
	TimeDecayEnabled             bool   `dynamodbav:"timeDecayEnabled" json:"timeDecayEnabled"`
	TimeDecayRatePerDay          int    `dynamodbav:"timeDecayRatePerDay" json:"timeDecayRatePerDay"`
	TimeDecayWindowDays          int    `dynamodbav:"timeDecayWindowDays" json:"timeDecayWindowDays"` // days before the event over which decay accumulates
	MinThresholdFloor            int    `dynamodbav:"minThresholdFloor" json:"minThresholdFloor"`
	MinGroupSizeForMatch         int    `dynamodbav:"minGroupSizeForMatch" json:"minGroupSizeForMatch"`
	OptimalGroupSize             int    `dynamodbav:"optimalGroupSize" json:"optimalGroupSize"`
}

// DefaultThresholdConfig returns the documented fallback policy used when no
// active config row exists.
func DefaultThresholdConfig() *ThresholdConfig {
	return &ThresholdConfig{
		ConfigID:                     "default",
		Active:                       true,
		HighCompatibilityThreshold:   85,
		MediumCompatibilityThreshold: 70,
		LowCompatibilityThreshold:    55,
		TimeDecayEnabled:             true,
		TimeDecayRatePerDay:          5,
		TimeDecayWindowDays:          7,
		MinThresholdFloor:            50,
		MinGroupSizeForMatch:         4,
		OptimalGroupSize:             6,
	}
}

// ThresholdConfigsTable is the DynamoDB table name for threshold configs
const ThresholdConfigsTable = "ThresholdConfigs"
