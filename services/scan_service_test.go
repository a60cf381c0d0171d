package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tably_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanStore struct {
	pool          *models.Pool
	pools         []models.Pool
	registrations []models.Registration
	invitations   []models.InvitationPair
	listRegErr    error
	logEntries    []models.ScanLog
}

func (f *fakeScanStore) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	if f.pool == nil {
		return nil, errors.New("pool not found")
	}
	return f.pool, nil
}

func (f *fakeScanStore) ListActivePools(ctx context.Context) ([]models.Pool, error) {
	return f.pools, nil
}

func (f *fakeScanStore) ListRegistrations(ctx context.Context, poolID, matchStatus string) ([]models.Registration, error) {
	if f.listRegErr != nil {
		return nil, f.listRegErr
	}
	return f.registrations, nil
}

func (f *fakeScanStore) ListInvitationPairs(ctx context.Context, poolID string) ([]models.InvitationPair, error) {
	return f.invitations, nil
}

func (f *fakeScanStore) AppendScanLog(ctx context.Context, entry *models.ScanLog) error {
	f.logEntries = append(f.logEntries, *entry)
	return nil
}

type fakeProfiles struct {
	profiles []*models.RegistrantProfile
	err      error
}

func (f *fakeProfiles) GetRegistrantProfiles(ctx context.Context, userIDs []string) ([]*models.RegistrantProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

// stubPolicy serves a fixed config but keeps the real decision rule
type stubPolicy struct {
	cfg *models.ThresholdConfig
}

func (s *stubPolicy) GetActiveConfig(ctx context.Context) *models.ThresholdConfig {
	return s.cfg
}

func (s *stubPolicy) Decide(cfg *models.ThresholdConfig, pendingCount int, hoursUntilEvent float64, groups []CandidateGroup) ThresholdDecision {
	return (&ThresholdService{}).Decide(cfg, pendingCount, hoursUntilEvent, groups)
}

type fakeEmitter struct {
	groups  []models.GroupFormedEvent
	rewards []models.InvitationRewardEvent
}

func (f *fakeEmitter) EmitGroupFormed(event models.GroupFormedEvent) {
	f.groups = append(f.groups, event)
}

func (f *fakeEmitter) EmitInvitationReward(event models.InvitationRewardEvent) {
	f.rewards = append(f.rewards, event)
}

func newTestCoordinator(store ScanStore, profiles *fakeProfiles, ledgerStore *fakeLedgerStore, emitter *fakeEmitter) *ScanCoordinator {
	return &ScanCoordinator{
		Store:    store,
		Profiles: profiles,
		Policy:   &stubPolicy{cfg: models.DefaultThresholdConfig()},
		Builder:  testBuilder(),
		Ledger:   &MatchLedger{Store: ledgerStore},
		Events:   emitter,
	}
}

func eventTimeIn(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

func pendingRegistrations(poolID string, userIDs []string) []models.Registration {
	out := make([]models.Registration, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, models.Registration{PoolID: poolID, UserID: id, MatchStatus: models.MatchStatusPending})
	}
	return out
}

func TestScanInsufficientPending(t *testing.T) {
	ids := []string{"u1", "u2", "u3"}
	store := &fakeScanStore{
		pool: &models.Pool{
			PoolID:    "p1",
			Status:    models.PoolStatusActive,
			EventTime: eventTimeIn(10 * 24 * time.Hour),
		},
		registrations: pendingRegistrations("p1", ids),
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{}, ledgerStore, &fakeEmitter{})

	result, err := coordinator.ScanPoolAndMatch(context.Background(), "p1", models.ScanTypeManual, "test")

	require.NoError(t, err)
	assert.Equal(t, models.DecisionInsufficient, result.Decision)
	assert.Equal(t, 0, result.GroupsFormed)
	assert.Empty(t, ledgerStore.commits)
	require.Len(t, ledgerStore.logEntries, 1)
	entry := ledgerStore.logEntries[0]
	assert.Equal(t, models.DecisionInsufficient, entry.Decision)
	assert.Equal(t, 3, entry.PendingCount)
	assert.Equal(t, models.ScanTypeManual, entry.ScanType)
	assert.NotEmpty(t, entry.ScanID)
}

func TestScanMatchesAndEmitsEvents(t *testing.T) {
	ids := []string{"u1", "u2", "u3", "u4"}
	profiles := make([]*models.RegistrantProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, sparkTwin(id))
	}
	store := &fakeScanStore{
		pool: &models.Pool{
			PoolID:       "p1",
			Status:       models.PoolStatusActive,
			MinGroupSize: 4,
			MaxGroupSize: 6,
			EventTime:    eventTimeIn(10 * 24 * time.Hour),
		},
		registrations: pendingRegistrations("p1", ids),
		invitations:   allPairInvitations("p1", ids),
	}
	ledgerStore := &fakeLedgerStore{}
	emitter := &fakeEmitter{}
	coordinator := newTestCoordinator(store, &fakeProfiles{profiles: profiles}, ledgerStore, emitter)

	result, err := coordinator.ScanPoolAndMatch(context.Background(), "p1", models.ScanTypeRealtime, "registration:u4")

	require.NoError(t, err)
	// Ten days out the decayed threshold is still 70; the group scores 78
	assert.Equal(t, models.DecisionMatched, result.Decision)
	assert.Equal(t, 1, result.GroupsFormed)
	assert.Equal(t, 4, result.UsersMatched)
	assert.InDelta(t, 78.0, result.AvgGroupScore, 0.001)
	assert.Equal(t, 70, result.CurrentThreshold)

	require.Len(t, ledgerStore.commits, 1)
	commit := ledgerStore.commits[0]
	require.Len(t, commit.Groups, 1)
	assert.Equal(t, ids, commit.Groups[0].MemberIDs)
	assert.Empty(t, commit.UnmatchedUserIDs)
	assert.Len(t, commit.UsedInvitations, 6, "every pair landed in the same group")

	require.Len(t, emitter.groups, 1)
	assert.Equal(t, commit.Groups[0].GroupID, emitter.groups[0].GroupID)
	assert.Len(t, emitter.rewards, 6)
}

func TestScanResolvedPoolIsIdempotentNoop(t *testing.T) {
	store := &fakeScanStore{
		pool: &models.Pool{PoolID: "p1", Status: models.PoolStatusMatched},
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{}, ledgerStore, &fakeEmitter{})

	for i := 0; i < 2; i++ {
		result, err := coordinator.ScanPoolAndMatch(context.Background(), "p1", models.ScanTypeScheduled, "timer")
		require.NoError(t, err)
		assert.Equal(t, models.DecisionNoop, result.Decision)
	}

	assert.Empty(t, ledgerStore.locked)
	assert.Empty(t, ledgerStore.commits)
	require.Len(t, store.logEntries, 2)
	for _, entry := range store.logEntries {
		assert.Equal(t, models.DecisionNoop, entry.Decision)
	}
}

func TestScanProfileReadFailureIsLogged(t *testing.T) {
	ids := []string{"u1", "u2", "u3", "u4"}
	store := &fakeScanStore{
		pool: &models.Pool{
			PoolID:    "p1",
			Status:    models.PoolStatusActive,
			EventTime: eventTimeIn(48 * time.Hour),
		},
		registrations: pendingRegistrations("p1", ids),
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{err: errors.New("profile store down")}, ledgerStore, &fakeEmitter{})

	_, err := coordinator.ScanPoolAndMatch(context.Background(), "p1", models.ScanTypeRealtime, "registration:u4")

	require.Error(t, err)
	assert.Empty(t, ledgerStore.locked, "aborted scan must not touch pool state")
	require.Len(t, store.logEntries, 1)
	assert.Equal(t, models.DecisionFailed, store.logEntries[0].Decision)
	assert.Contains(t, store.logEntries[0].Reason, "profile store down")
}

func TestScanIneligibleProfilesAreExcluded(t *testing.T) {
	ids := []string{"u1", "u2", "u3", "u4", "u5"}
	profiles := make([]*models.RegistrantProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, sparkTwin(id))
	}
	profiles[4].Age = 55 // outside the pool's age band

	store := &fakeScanStore{
		pool: &models.Pool{
			PoolID:       "p1",
			Status:       models.PoolStatusActive,
			MinGroupSize: 4,
			MaxGroupSize: 4,
			MinAge:       20,
			MaxAge:       40,
			EventTime:    eventTimeIn(10 * 24 * time.Hour),
		},
		registrations: pendingRegistrations("p1", ids),
		invitations:   allPairInvitations("p1", ids[:4]),
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{profiles: profiles}, ledgerStore, &fakeEmitter{})

	result, err := coordinator.ScanPoolAndMatch(context.Background(), "p1", models.ScanTypeManual, "test")

	require.NoError(t, err)
	assert.Equal(t, models.DecisionMatched, result.Decision)
	require.Len(t, ledgerStore.commits, 1)
	commit := ledgerStore.commits[0]
	require.Len(t, commit.Groups, 1)
	assert.NotContains(t, commit.Groups[0].MemberIDs, "u5")
	assert.Equal(t, []string{"u5"}, commit.UnmatchedUserIDs)
}

// gatedScanStore blocks every scan inside GetPool until released, so the test
// can pile up triggers while one scan is provably in flight
type gatedScanStore struct {
	fakeScanStore
	mu      sync.Mutex
	scans   int
	started chan struct{}
	release chan struct{}
}

func (g *gatedScanStore) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	g.mu.Lock()
	g.scans++
	g.mu.Unlock()
	g.started <- struct{}{}
	<-g.release
	return g.fakeScanStore.GetPool(ctx, poolID)
}

func (g *gatedScanStore) scanCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scans
}

func TestRequestScanCoalescesConcurrentTriggers(t *testing.T) {
	store := &gatedScanStore{
		fakeScanStore: fakeScanStore{pool: &models.Pool{PoolID: "p1", Status: models.PoolStatusMatched}},
		started:       make(chan struct{}, 16),
		release:       make(chan struct{}),
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{}, ledgerStore, &fakeEmitter{})

	coordinator.RequestScan("p1", "registration:u1")
	<-store.started // first scan is in flight

	// Nine more triggers arrive while it runs: they collapse into one queued follow-up
	for i := 0; i < 9; i++ {
		coordinator.RequestScan("p1", "registration:burst")
	}

	close(store.release)
	<-store.started // the single queued follow-up begins

	state := coordinator.state("p1")
	require.Eventually(t, func() bool {
		coordinator.mu.Lock()
		defer coordinator.mu.Unlock()
		return !state.running
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, store.scanCount(), "ten triggers must run exactly two scans")
}

func TestScanAllActivePools(t *testing.T) {
	store := &fakeScanStore{
		pool: &models.Pool{PoolID: "p1", Status: models.PoolStatusMatched},
		pools: []models.Pool{
			{PoolID: "p1", Status: models.PoolStatusActive},
		},
	}
	ledgerStore := &fakeLedgerStore{}
	coordinator := newTestCoordinator(store, &fakeProfiles{}, ledgerStore, &fakeEmitter{})

	// GetPool reports the pool as already matched, so the sweep no-ops it
	coordinator.ScanAllActivePools(context.Background(), "timer")
	require.Len(t, store.logEntries, 1)
	assert.Equal(t, models.DecisionNoop, store.logEntries[0].Decision)
}
