package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"tably_server/models"

	"github.com/google/uuid"
)

// LedgerStore is the slice of persistence the ledger needs
type LedgerStore interface {
	AcquireMatchingLock(ctx context.Context, poolID string) error
	ReleaseMatchingLock(ctx context.Context, poolID string) error
	CommitMatch(ctx context.Context, commit *MatchCommit) error
	AppendScanLog(ctx context.Context, entry *models.ScanLog) error
}

// MatchLedger applies a scan's decision. Accepted scans commit atomically under
// the pool's matching lock; every other decision only appends an audit row.
type MatchLedger struct {
	Store LedgerStore
}

// ScanOutcome is what applying one scan decision produced
type ScanOutcome struct {
	Result  *models.ScanResult
	Groups  []models.Group
	Events  []models.GroupFormedEvent
	Rewards []models.InvitationRewardEvent
}

// Apply persists one scan attempt's decision. entry arrives prefilled with the
// scan metadata (ids, type, counts, threshold, hours); the ledger fills in the
// outcome fields before writing it.
func (l *MatchLedger) Apply(
	ctx context.Context,
	pool *models.Pool,
	candidates []CandidateGroup,
	pending []models.Registration,
	invitations []models.InvitationPair,
	decision ThresholdDecision,
	entry models.ScanLog,
) (*ScanOutcome, error) {
	entry.Decision = decision.Decision
	entry.Reason = decision.Reason
	entry.CurrentThreshold = decision.CurrentThreshold
	entry.AvgGroupScore = decision.AvgGroupScore

	if decision.Decision != models.DecisionMatched {
		// waiting / insufficient: log-only, no other state changes
		if err := l.Store.AppendScanLog(ctx, &entry); err != nil {
			return nil, err
		}
		return &ScanOutcome{Result: resultFromEntry(&entry)}, nil
	}

	if err := l.Store.AcquireMatchingLock(ctx, pool.PoolID); err != nil {
		if IsConditionFailed(err) {
			// Pool resolved or another commit holds it: discard silently as a no-op
			entry.Decision = models.DecisionNoop
			entry.Reason = "pool no longer active at commit time"
			entry.AvgGroupScore = 0
			if logErr := l.Store.AppendScanLog(ctx, &entry); logErr != nil {
				log.Printf("⚠️ Failed to log no-op scan for pool %s: %v", pool.PoolID, logErr)
			}
			return &ScanOutcome{Result: resultFromEntry(&entry)}, nil
		}
		return nil, fmt.Errorf("failed to lock pool %s for commit: %w", pool.PoolID, err)
	}

	commit, outcome := l.buildCommit(pool, candidates, pending, invitations, &entry)

	if err := l.Store.CommitMatch(ctx, commit); err != nil {
		if releaseErr := l.Store.ReleaseMatchingLock(ctx, pool.PoolID); releaseErr != nil {
			log.Printf("⚠️ Failed to release matching lock on pool %s: %v", pool.PoolID, releaseErr)
		}
		failedEntry := entry
		failedEntry.Decision = models.DecisionFailed
		failedEntry.Reason = fmt.Sprintf("commit failed: %v", err)
		failedEntry.GroupsFormed = 0
		failedEntry.UsersMatched = 0
		if logErr := l.Store.AppendScanLog(ctx, &failedEntry); logErr != nil {
			log.Printf("⚠️ Failed to log failed scan for pool %s: %v", pool.PoolID, logErr)
		}
		return nil, fmt.Errorf("match commit for pool %s: %w", pool.PoolID, err)
	}

	return outcome, nil
}

// buildCommit turns accepted candidates into the concrete rows of one commit
func (l *MatchLedger) buildCommit(
	pool *models.Pool,
	candidates []CandidateGroup,
	pending []models.Registration,
	invitations []models.InvitationPair,
	entry *models.ScanLog,
) (*MatchCommit, *ScanOutcome) {
	now := time.Now().UTC().Format(time.RFC3339)

	var groups []models.Group
	var events []models.GroupFormedEvent
	var assignments []MemberAssignment
	groupOfUser := make(map[string]string)

	for _, candidate := range candidates {
		group := models.Group{
			GroupID:            uuid.NewString(),
			PoolID:             pool.PoolID,
			MemberIDs:          candidate.MemberIDs,
			AvgPairScore:       candidate.AvgPairScore,
			DiversityScore:     candidate.DiversityScore,
			EnergyBalanceScore: candidate.EnergyBalanceScore,
			OverallScore:       candidate.OverallScore,
			TemperatureLevel:   candidate.TemperatureLevel,
			Explanation:        candidate.Explanation,
			CreatedAt:          now,
		}
		groups = append(groups, group)
		events = append(events, models.GroupFormedEvent{
			PoolID:           pool.PoolID,
			GroupID:          group.GroupID,
			MemberIDs:        group.MemberIDs,
			OverallScore:     group.OverallScore,
			TemperatureLevel: group.TemperatureLevel,
		})

		for _, userID := range candidate.MemberIDs {
			groupOfUser[userID] = group.GroupID
			assignments = append(assignments, MemberAssignment{
				PoolID:  pool.PoolID,
				UserID:  userID,
				GroupID: group.GroupID,
				Score:   candidate.OverallScore,
			})
		}
	}

	var unmatched []string
	for _, registration := range pending {
		if _, ok := groupOfUser[registration.UserID]; !ok {
			unmatched = append(unmatched, registration.UserID)
		}
	}

	var usedInvitations []models.InvitationPair
	var rewards []models.InvitationRewardEvent
	for _, pair := range invitations {
		inviterGroup, inviterOK := groupOfUser[pair.InviterID]
		inviteeGroup, inviteeOK := groupOfUser[pair.InviteeID]
		if inviterOK && inviteeOK && inviterGroup == inviteeGroup {
			usedInvitations = append(usedInvitations, pair)
			rewards = append(rewards, models.InvitationRewardEvent{
				PoolID:    pool.PoolID,
				PairID:    pair.PairID,
				InviterID: pair.InviterID,
				InviteeID: pair.InviteeID,
				GroupID:   inviterGroup,
			})
		}
	}

	entry.GroupsFormed = len(groups)
	entry.UsersMatched = len(assignments)

	commit := &MatchCommit{
		Pool:             pool,
		Groups:           groups,
		MatchedMembers:   assignments,
		UnmatchedUserIDs: unmatched,
		UsedInvitations:  usedInvitations,
		Entry:            entry,
	}
	outcome := &ScanOutcome{
		Result:  resultFromEntry(entry),
		Groups:  groups,
		Events:  events,
		Rewards: rewards,
	}
	return commit, outcome
}

func resultFromEntry(entry *models.ScanLog) *models.ScanResult {
	return &models.ScanResult{
		PoolID:           entry.PoolID,
		Decision:         entry.Decision,
		Reason:           entry.Reason,
		GroupsFormed:     entry.GroupsFormed,
		UsersMatched:     entry.UsersMatched,
		AvgGroupScore:    entry.AvgGroupScore,
		CurrentThreshold: entry.CurrentThreshold,
	}
}
