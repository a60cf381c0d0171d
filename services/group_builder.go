package services

import (
	"fmt"
	"sort"

	"tably_server/models"
)

// minGrowthScore is the average-compatibility bar a candidate must clear against
// all current members before joining a growing group.
const minGrowthScore = 60

// GroupBounds are the effective size limits a build runs under, derived from the
// pool with threshold-config fallbacks.
type GroupBounds struct {
	MinSize     int
	MaxSize     int
	TargetCount int // 0 = no target, build until pairs run out
}

// CandidateGroup is an assembled group that has not been persisted yet
type CandidateGroup struct {
	Members            []*models.RegistrantProfile
	MemberIDs          []string
	AvgPairScore       float64
	DiversityScore     int
	EnergyBalanceScore int
	OverallScore       int
	TemperatureLevel   string
	Explanation        string
}

// GroupBuilder assembles candidate groups greedily from an eligible registrant set
type GroupBuilder struct {
	Compatibility *CompatibilityService
	Quality       *GroupScoreService
}

type scoredPair struct {
	i, j  int
	score int
}

// BuildGroups runs the greedy pair-seed / grow / release assembly:
// best unassigned pair seeds a group, the group grows while the best remaining
// candidate averages ≥ minGrowthScore against its members, and undersized groups
// release their members back into the arena. Deterministic: profiles are ordered
// by userId and all ties break toward the ascending id.
func (gb *GroupBuilder) BuildGroups(bounds GroupBounds, profiles []*models.RegistrantProfile, invitations []models.InvitationPair) []CandidateGroup {
	if len(profiles) < 2 || bounds.MinSize < 2 {
		return nil
	}

	members := make([]*models.RegistrantProfile, len(profiles))
	copy(members, profiles)
	sort.Slice(members, func(a, b int) bool { return members[a].UserID < members[b].UserID })

	invited := invitationKeys(invitations)
	scores := gb.scoreMatrix(members, invited)

	pairs := make([]scoredPair, 0, len(members)*(len(members)-1)/2)
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pairs = append(pairs, scoredPair{i: i, j: j, score: scores[i][j]})
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score > pairs[b].score
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	used := make([]bool, len(members)) // assignment arena

	var groups []CandidateGroup
	for _, pair := range pairs {
		if bounds.TargetCount > 0 && len(groups) >= bounds.TargetCount {
			break
		}
		if used[pair.i] || used[pair.j] {
			continue
		}

		groupIdx := []int{pair.i, pair.j}
		used[pair.i] = true
		used[pair.j] = true

		for len(groupIdx) < bounds.MaxSize {
			candidate, avg := bestCandidate(scores, used, groupIdx)
			if candidate < 0 || avg < minGrowthScore {
				break
			}
			groupIdx = append(groupIdx, candidate)
			used[candidate] = true
		}

		if len(groupIdx) < bounds.MinSize {
			// Undersized: release the members so a later pair can pick them up
			for _, idx := range groupIdx {
				used[idx] = false
			}
			continue
		}

		groups = append(groups, gb.assemble(members, scores, groupIdx))
	}
	return groups
}

// bestCandidate finds the unused member with the highest average score against
// the current group, ties broken by arena index (ascending userId).
func bestCandidate(scores [][]int, used []bool, groupIdx []int) (int, float64) {
	best := -1
	bestAvg := -1.0
	for k := range used {
		if used[k] {
			continue
		}
		total := 0
		for _, idx := range groupIdx {
			total += scores[k][idx]
		}
		avg := float64(total) / float64(len(groupIdx))
		if avg > bestAvg {
			best = k
			bestAvg = avg
		}
	}
	return best, bestAvg
}

func (gb *GroupBuilder) assemble(members []*models.RegistrantProfile, scores [][]int, groupIdx []int) CandidateGroup {
	sort.Ints(groupIdx)

	groupMembers := make([]*models.RegistrantProfile, 0, len(groupIdx))
	memberIDs := make([]string, 0, len(groupIdx))
	for _, idx := range groupIdx {
		groupMembers = append(groupMembers, members[idx])
		memberIDs = append(memberIDs, members[idx].UserID)
	}

	total := 0
	pairCount := 0
	for a := 0; a < len(groupIdx); a++ {
		for b := a + 1; b < len(groupIdx); b++ {
			total += scores[groupIdx[a]][groupIdx[b]]
			pairCount++
		}
	}
	avgPair := float64(total) / float64(pairCount)

	diversity := gb.Quality.DiversityScore(groupMembers)
	energy := gb.Quality.EnergyBalanceScore(groupMembers)
	overall := OverallScore(avgPair, diversity, energy)
	temperature := TemperatureLevel(overall)

	return CandidateGroup{
		Members:            groupMembers,
		MemberIDs:          memberIDs,
		AvgPairScore:       avgPair,
		DiversityScore:     diversity,
		EnergyBalanceScore: energy,
		OverallScore:       overall,
		TemperatureLevel:   temperature,
		Explanation: fmt.Sprintf("%d members, avg pair score %.1f, diversity %d, energy balance %d, %s",
			len(groupMembers), avgPair, diversity, energy, temperature),
	}
}

func (gb *GroupBuilder) scoreMatrix(members []*models.RegistrantProfile, invited map[string]bool) [][]int {
	scores := make([][]int, len(members))
	for i := range scores {
		scores[i] = make([]int, len(members))
	}
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pairInvited := invited[invitationKey(members[i].UserID, members[j].UserID)]
			score := gb.Compatibility.PairScore(members[i], members[j], pairInvited)
			scores[i][j] = score
			scores[j][i] = score
		}
	}
	return scores
}

// invitationKey is direction-independent: the bonus applies whichever side invited
func invitationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func invitationKeys(invitations []models.InvitationPair) map[string]bool {
	keys := make(map[string]bool, len(invitations))
	for _, inv := range invitations {
		if inv.Status != "" && inv.Status != models.InvitationStatusActive {
			continue
		}
		keys[invitationKey(inv.InviterID, inv.InviteeID)] = true
	}
	return keys
}
