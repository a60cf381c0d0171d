package services

import (
	"testing"

	"tably_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allPairInvitations(poolID string, userIDs []string) []models.InvitationPair {
	var pairs []models.InvitationPair
	for i := 0; i < len(userIDs); i++ {
		for j := i + 1; j < len(userIDs); j++ {
			pairs = append(pairs, models.InvitationPair{
				PoolID:    poolID,
				PairID:    userIDs[i] + "#" + userIDs[j],
				InviterID: userIDs[i],
				InviteeID: userIDs[j],
				Status:    models.InvitationStatusActive,
			})
		}
	}
	return pairs
}

func TestBuildGroupsFormsOneFullGroup(t *testing.T) {
	gb := testBuilder()

	// Four registrants whose every pair scores 100 (85 base, +20 capped)
	ids := []string{"u1", "u2", "u3", "u4"}
	profiles := make([]*models.RegistrantProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, sparkTwin(id))
	}

	groups := gb.BuildGroups(GroupBounds{MinSize: 4, MaxSize: 6, TargetCount: 1}, profiles, allPairInvitations("p1", ids))

	require.Len(t, groups, 1)
	group := groups[0]
	assert.Equal(t, ids, group.MemberIDs)
	assert.Equal(t, 100.0, group.AvgPairScore)
	assert.Equal(t, 25, group.DiversityScore) // identical members across every dimension
	assert.Equal(t, 76, group.EnergyBalanceScore)
	assert.Equal(t, 78, group.OverallScore)
	assert.Equal(t, models.TemperatureWarm, group.TemperatureLevel)
	assert.NotEmpty(t, group.Explanation)
}

func TestBuildGroupsDeterministic(t *testing.T) {
	gb := testBuilder()

	ids := []string{"u4", "u2", "u3", "u1"} // shuffled input order
	profiles := make([]*models.RegistrantProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, sparkTwin(id))
	}
	bounds := GroupBounds{MinSize: 4, MaxSize: 6}

	first := gb.BuildGroups(bounds, profiles, nil)
	second := gb.BuildGroups(bounds, profiles, nil)

	require.Len(t, first, 1)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, first[0].MemberIDs, "ties break toward ascending userId")
	assert.Equal(t, first, second)
}

func TestBuildGroupsReleasesUndersizedGroups(t *testing.T) {
	gb := testBuilder()

	// Two clusters of three; cross-cluster pairs score well below the growth bar
	profiles := []*models.RegistrantProfile{
		clusterProfile("a1", "hiking", "en", "mid"),
		clusterProfile("a2", "hiking", "en", "mid"),
		clusterProfile("a3", "hiking", "en", "mid"),
		clusterProfile("b1", "chess", "fr", "high"),
		clusterProfile("b2", "chess", "fr", "high"),
		clusterProfile("b3", "chess", "fr", "high"),
	}

	// Min size 4: each cluster stalls at 3 members and gets released
	groups := gb.BuildGroups(GroupBounds{MinSize: 4, MaxSize: 6}, profiles, nil)
	assert.Empty(t, groups)

	// Min size 3: both clusters commit
	groups = gb.BuildGroups(GroupBounds{MinSize: 3, MaxSize: 6}, profiles, nil)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a1", "a2", "a3"}, groups[0].MemberIDs)
	assert.Equal(t, []string{"b1", "b2", "b3"}, groups[1].MemberIDs)
}

func TestBuildGroupsHonorsTargetCount(t *testing.T) {
	gb := testBuilder()

	profiles := []*models.RegistrantProfile{
		clusterProfile("a1", "hiking", "en", "mid"),
		clusterProfile("a2", "hiking", "en", "mid"),
		clusterProfile("a3", "hiking", "en", "mid"),
		clusterProfile("b1", "chess", "fr", "high"),
		clusterProfile("b2", "chess", "fr", "high"),
		clusterProfile("b3", "chess", "fr", "high"),
	}

	groups := gb.BuildGroups(GroupBounds{MinSize: 3, MaxSize: 3, TargetCount: 1}, profiles, nil)
	require.Len(t, groups, 1)
}

func TestBuildGroupsRespectsMaxSize(t *testing.T) {
	gb := testBuilder()

	ids := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	profiles := make([]*models.RegistrantProfile, 0, len(ids))
	for _, id := range ids {
		profiles = append(profiles, sparkTwin(id))
	}

	groups := gb.BuildGroups(GroupBounds{MinSize: 2, MaxSize: 4}, profiles, nil)
	require.NotEmpty(t, groups)
	for _, group := range groups {
		assert.LessOrEqual(t, len(group.MemberIDs), 4)
	}
}

func TestBuildGroupsTooFewProfiles(t *testing.T) {
	gb := testBuilder()

	assert.Nil(t, gb.BuildGroups(GroupBounds{MinSize: 4, MaxSize: 6}, []*models.RegistrantProfile{sparkTwin("u1")}, nil))
	assert.Nil(t, gb.BuildGroups(GroupBounds{MinSize: 4, MaxSize: 6}, nil, nil))
}
