package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"tably_server/models"
	"tably_server/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ThresholdService loads the active matching policy and applies the
// time-decaying acceptance bar to a scan's candidate groups.
type ThresholdService struct {
	Dynamo *DynamoService
}

// ThresholdDecision is the outcome of one scan attempt's quality check
type ThresholdDecision struct {
	Decision         string
	Reason           string
	CurrentThreshold int
	AvgGroupScore    float64
}

// GetActiveConfig returns the single active threshold config row. A missing or
// unreadable row falls back to the documented defaults rather than failing the
// scan. Refreshed explicitly at scan start; never mutated during a scan.
func (ts *ThresholdService) GetActiveConfig(ctx context.Context) *models.ThresholdConfig {
	var configs []models.ThresholdConfig
	err := ts.Dynamo.ScanWithFilter(ctx, models.ThresholdConfigsTable,
		func(item map[string]types.AttributeValue) bool {
			return utils.ExtractBool(item, "active")
		}, nil, &configs)
	if err != nil {
		log.Printf("⚠️ Failed to load threshold config, using defaults: %v", err)
		return models.DefaultThresholdConfig()
	}
	if len(configs) == 0 {
		return models.DefaultThresholdConfig()
	}
	if len(configs) > 1 {
		log.Printf("⚠️ %d active threshold configs found, using %s", len(configs), configs[0].ConfigID)
	}

	cfg := configs[0]
	normalizeConfig(&cfg)
	return &cfg
}

// normalizeConfig backfills unset numeric fields from the defaults so a sparse
// config row cannot zero out the policy.
func normalizeConfig(cfg *models.ThresholdConfig) {
	defaults := models.DefaultThresholdConfig()
	if cfg.HighCompatibilityThreshold == 0 {
		cfg.HighCompatibilityThreshold = defaults.HighCompatibilityThreshold
	}
	if cfg.MediumCompatibilityThreshold == 0 {
		cfg.MediumCompatibilityThreshold = defaults.MediumCompatibilityThreshold
	}
	if cfg.LowCompatibilityThreshold == 0 {
		cfg.LowCompatibilityThreshold = defaults.LowCompatibilityThreshold
	}
	if cfg.TimeDecayRatePerDay == 0 {
		cfg.TimeDecayRatePerDay = defaults.TimeDecayRatePerDay
	}
	if cfg.TimeDecayWindowDays == 0 {
		cfg.TimeDecayWindowDays = defaults.TimeDecayWindowDays
	}
	if cfg.MinThresholdFloor == 0 {
		cfg.MinThresholdFloor = defaults.MinThresholdFloor
	}
	if cfg.MinGroupSizeForMatch == 0 {
		cfg.MinGroupSizeForMatch = defaults.MinGroupSizeForMatch
	}
	if cfg.OptimalGroupSize == 0 {
		cfg.OptimalGroupSize = defaults.OptimalGroupSize
	}
}

// DecayedThreshold lowers the medium acceptance bar by one rate-step for each
// day inside the decay window before the event, never dropping below the floor.
// With decay disabled the medium threshold applies unchanged.
func DecayedThreshold(cfg *models.ThresholdConfig, hoursUntilEvent float64) int {
	if !cfg.TimeDecayEnabled {
		return cfg.MediumCompatibilityThreshold
	}

	daysUntil := int(math.Floor(hoursUntilEvent / 24))
	if daysUntil < 0 {
		daysUntil = 0
	}
	decayDays := cfg.TimeDecayWindowDays - daysUntil
	if decayDays < 0 {
		decayDays = 0
	}

	threshold := cfg.MediumCompatibilityThreshold - decayDays*cfg.TimeDecayRatePerDay
	if threshold < cfg.MinThresholdFloor {
		threshold = cfg.MinThresholdFloor
	}
	return threshold
}

// Decide applies the acceptance policy to one scan attempt's candidates
func (ts *ThresholdService) Decide(cfg *models.ThresholdConfig, pendingCount int, hoursUntilEvent float64, groups []CandidateGroup) ThresholdDecision {
	threshold := DecayedThreshold(cfg, hoursUntilEvent)

	if pendingCount < cfg.MinGroupSizeForMatch {
		return ThresholdDecision{
			Decision:         models.DecisionInsufficient,
			Reason:           fmt.Sprintf("%d pending registrants, need at least %d", pendingCount, cfg.MinGroupSizeForMatch),
			CurrentThreshold: threshold,
		}
	}

	if len(groups) == 0 {
		return ThresholdDecision{
			Decision:         models.DecisionWaiting,
			Reason:           "no viable candidate groups",
			CurrentThreshold: threshold,
		}
	}

	total := 0
	for _, g := range groups {
		total += g.OverallScore
	}
	avg := float64(total) / float64(len(groups))

	switch {
	case avg >= float64(cfg.HighCompatibilityThreshold):
		return ThresholdDecision{
			Decision:         models.DecisionMatched,
			Reason:           fmt.Sprintf("avg group score %.1f meets high threshold %d", avg, cfg.HighCompatibilityThreshold),
			CurrentThreshold: threshold,
			AvgGroupScore:    avg,
		}
	case avg >= float64(threshold):
		return ThresholdDecision{
			Decision:         models.DecisionMatched,
			Reason:           fmt.Sprintf("avg group score %.1f meets decayed threshold %d", avg, threshold),
			CurrentThreshold: threshold,
			AvgGroupScore:    avg,
		}
	default:
		return ThresholdDecision{
			Decision:         models.DecisionWaiting,
			Reason:           fmt.Sprintf("avg group score %.1f below threshold %d", avg, threshold),
			CurrentThreshold: threshold,
			AvgGroupScore:    avg,
		}
	}
}
