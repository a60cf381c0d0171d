package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tably_server/models"

	"github.com/google/uuid"
)

// ScanStore is the slice of persistence a scan needs to read, plus the audit log
type ScanStore interface {
	GetPool(ctx context.Context, poolID string) (*models.Pool, error)
	ListActivePools(ctx context.Context) ([]models.Pool, error)
	ListRegistrations(ctx context.Context, poolID, matchStatus string) ([]models.Registration, error)
	ListInvitationPairs(ctx context.Context, poolID string) ([]models.InvitationPair, error)
	AppendScanLog(ctx context.Context, entry *models.ScanLog) error
}

// ProfileReader reads registrant profiles from the external profile store
type ProfileReader interface {
	GetRegistrantProfiles(ctx context.Context, userIDs []string) ([]*models.RegistrantProfile, error)
}

// PolicyProvider supplies the active threshold policy and its decision rule
type PolicyProvider interface {
	GetActiveConfig(ctx context.Context) *models.ThresholdConfig
	Decide(cfg *models.ThresholdConfig, pendingCount int, hoursUntilEvent float64, groups []CandidateGroup) ThresholdDecision
}

// Ledger applies a scan decision atomically
type Ledger interface {
	Apply(ctx context.Context, pool *models.Pool, candidates []CandidateGroup, pending []models.Registration,
		invitations []models.InvitationPair, decision ThresholdDecision, entry models.ScanLog) (*ScanOutcome, error)
}

// EventEmitter hands committed-match events to external collaborators
type EventEmitter interface {
	EmitGroupFormed(event models.GroupFormedEvent)
	EmitInvitationReward(event models.InvitationRewardEvent)
}

// ScanCoordinator owns per-pool scan exclusivity and runs the scan pipeline:
// eligible set, candidate groups, threshold decision, ledger commit, events.
type ScanCoordinator struct {
	Store    ScanStore
	Profiles ProfileReader
	Policy   PolicyProvider
	Builder  *GroupBuilder
	Ledger   Ledger
	Events   EventEmitter

	mu    sync.Mutex
	pools map[string]*poolScanState
}

type poolScanState struct {
	scanMu  sync.Mutex // serializes scans for one pool
	running bool       // a realtime-requested scan is in flight
	queued  bool       // at most one follow-up scan is queued; extra triggers drop
}

func (sc *ScanCoordinator) state(poolID string) *poolScanState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.pools == nil {
		sc.pools = make(map[string]*poolScanState)
	}
	state, ok := sc.pools[poolID]
	if !ok {
		state = &poolScanState{}
		sc.pools[poolID] = state
	}
	return state
}

// RequestScan is the realtime trigger, fired once per new registration. Triggers
// arriving while a scan for the pool is in flight coalesce into at most one
// queued follow-up; the follow-up sees the latest registration count anyway.
func (sc *ScanCoordinator) RequestScan(poolID, triggeredBy string) {
	state := sc.state(poolID)

	sc.mu.Lock()
	if state.running {
		state.queued = true
		sc.mu.Unlock()
		return
	}
	state.running = true
	sc.mu.Unlock()

	go sc.runRequested(poolID, triggeredBy)
}

func (sc *ScanCoordinator) runRequested(poolID, triggeredBy string) {
	state := sc.state(poolID)
	for {
		if _, err := sc.ScanPoolAndMatch(context.Background(), poolID, models.ScanTypeRealtime, triggeredBy); err != nil {
			log.Printf("❌ Realtime scan for pool %s failed: %v", poolID, err)
		}

		sc.mu.Lock()
		if state.queued {
			state.queued = false
			sc.mu.Unlock()
			continue
		}
		state.running = false
		sc.mu.Unlock()
		return
	}
}

// ScanPoolAndMatch runs one scan attempt for a pool. Scans for the same pool
// serialize; scans for different pools run freely in parallel.
func (sc *ScanCoordinator) ScanPoolAndMatch(ctx context.Context, poolID, scanType, triggeredBy string) (*models.ScanResult, error) {
	state := sc.state(poolID)
	state.scanMu.Lock()
	defer state.scanMu.Unlock()

	return sc.scan(ctx, poolID, scanType, triggeredBy)
}

func (sc *ScanCoordinator) scan(ctx context.Context, poolID, scanType, triggeredBy string) (*models.ScanResult, error) {
	pool, err := sc.Store.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("scan aborted, pool unreadable: %w", err)
	}

	entry := models.ScanLog{
		PoolID:      poolID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
		ScanID:      uuid.NewString(),
		ScanType:    scanType,
		TriggeredBy: triggeredBy,
	}

	if !pool.IsOpenForMatching() {
		// Pool already resolved or abandoned: idempotent no-op, logged as such
		entry.Decision = models.DecisionNoop
		entry.Reason = fmt.Sprintf("pool status is %s", pool.Status)
		if logErr := sc.Store.AppendScanLog(ctx, &entry); logErr != nil {
			log.Printf("⚠️ Failed to log no-op scan for pool %s: %v", poolID, logErr)
		}
		return &models.ScanResult{PoolID: poolID, Decision: models.DecisionNoop, Reason: entry.Reason}, nil
	}

	cfg := sc.Policy.GetActiveConfig(ctx)
	hours := hoursUntilEvent(pool.EventTime)
	entry.HoursUntilEvent = hours

	pending, err := sc.Store.ListRegistrations(ctx, poolID, models.MatchStatusPending)
	if err != nil {
		return nil, sc.failScan(ctx, entry, fmt.Errorf("failed to read registrations: %w", err))
	}
	entry.PendingCount = len(pending)

	if len(pending) < cfg.MinGroupSizeForMatch {
		decision := sc.Policy.Decide(cfg, len(pending), hours, nil)
		outcome, err := sc.Ledger.Apply(ctx, pool, nil, pending, nil, decision, entry)
		if err != nil {
			return nil, err
		}
		return outcome.Result, nil
	}

	userIDs := make([]string, 0, len(pending))
	for _, registration := range pending {
		userIDs = append(userIDs, registration.UserID)
	}
	profiles, err := sc.Profiles.GetRegistrantProfiles(ctx, userIDs)
	if err != nil {
		// AlgorithmFailure: abort this attempt only, the pool retries on the next trigger
		return nil, sc.failScan(ctx, entry, fmt.Errorf("failed to read profiles: %w", err))
	}

	eligible := make([]*models.RegistrantProfile, 0, len(profiles))
	for _, profile := range profiles {
		if IsEligible(profile, pool) {
			eligible = append(eligible, profile)
		}
	}

	invitations, err := sc.Store.ListInvitationPairs(ctx, poolID)
	if err != nil {
		return nil, sc.failScan(ctx, entry, fmt.Errorf("failed to read invitation pairs: %w", err))
	}

	candidates := sc.Builder.BuildGroups(effectiveBounds(pool, cfg), eligible, invitations)
	decision := sc.Policy.Decide(cfg, len(pending), hours, candidates)

	outcome, err := sc.Ledger.Apply(ctx, pool, candidates, pending, invitations, decision, entry)
	if err != nil {
		return nil, err
	}

	if sc.Events != nil {
		for _, event := range outcome.Events {
			sc.Events.EmitGroupFormed(event)
		}
		for _, reward := range outcome.Rewards {
			sc.Events.EmitInvitationReward(reward)
		}
	}

	log.Printf("🔎 Scan %s for pool %s: %s (%d groups, %d matched)",
		entry.ScanID, poolID, outcome.Result.Decision, outcome.Result.GroupsFormed, outcome.Result.UsersMatched)
	return outcome.Result, nil
}

// ScanAllActivePools runs a scheduled scan over every open pool. Driven by the
// periodic timer; per-pool failures don't stop the sweep.
func (sc *ScanCoordinator) ScanAllActivePools(ctx context.Context, triggeredBy string) {
	pools, err := sc.Store.ListActivePools(ctx)
	if err != nil {
		log.Printf("❌ Scheduled sweep failed to list pools: %v", err)
		return
	}

	log.Printf("⏰ Scheduled sweep over %d active pools", len(pools))
	for _, pool := range pools {
		if _, err := sc.ScanPoolAndMatch(ctx, pool.PoolID, models.ScanTypeScheduled, triggeredBy); err != nil {
			log.Printf("❌ Scheduled scan for pool %s failed: %v", pool.PoolID, err)
		}
	}
}

// failScan logs an aborted attempt so the audit trail shows it; pool state is untouched
func (sc *ScanCoordinator) failScan(ctx context.Context, entry models.ScanLog, cause error) error {
	entry.Decision = models.DecisionFailed
	entry.Reason = cause.Error()
	if logErr := sc.Store.AppendScanLog(ctx, &entry); logErr != nil {
		log.Printf("⚠️ Failed to log failed scan for pool %s: %v", entry.PoolID, logErr)
	}
	return cause
}

// effectiveBounds derives build limits from the pool, backfilled by the policy config
func effectiveBounds(pool *models.Pool, cfg *models.ThresholdConfig) GroupBounds {
	bounds := GroupBounds{
		MinSize:     pool.MinGroupSize,
		MaxSize:     pool.MaxGroupSize,
		TargetCount: pool.TargetGroupCount,
	}
	if bounds.MinSize <= 0 {
		bounds.MinSize = cfg.MinGroupSizeForMatch
	}
	if bounds.MaxSize <= 0 {
		bounds.MaxSize = cfg.OptimalGroupSize
	}
	return bounds
}

func hoursUntilEvent(eventTime string) float64 {
	t, err := time.Parse(time.RFC3339, eventTime)
	if err != nil {
		log.Printf("⚠️ Unparseable event time %q, treating as now", eventTime)
		return 0
	}
	hours := time.Until(t).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}
