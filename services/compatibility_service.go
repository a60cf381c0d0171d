package services

import (
	"math"

	"tably_server/models"
)

// Sub-score weights for the pairwise compatibility blend
const (
	weightChemistry  = 0.35
	weightInterests  = 0.30
	weightPreference = 0.20
	weightLanguage   = 0.15

	// InvitationBonus is added flat after the weighted sum for an active
	// invitation pair, capped at 100. Kept flat (no taper) as a tunable policy.
	InvitationBonus = 20
)

// CompatibilityService computes pairwise 0-100 compatibility scores
type CompatibilityService struct {
	Archetypes *models.ArchetypeTable
}

// PairScore returns the weighted pairwise score between two registrants.
// invited marks an active invitation pair between them (either direction).
func (cs *CompatibilityService) PairScore(u1, u2 *models.RegistrantProfile, invited bool) int {
	chemistry := cs.chemistryScore(u1, u2)
	interests := interestScore(u1.Interests, u2.Interests)
	preference := preferenceScore(u1, u2)
	language := languageScore(u1.Languages, u2.Languages)

	score := roundHalfUp(weightChemistry*chemistry +
		weightInterests*interests +
		weightPreference*preference +
		weightLanguage*language)

	if invited {
		score += InvitationBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// chemistryScore blends primary/primary with the two primary/secondary cross
// lookups. Profiles without a primary archetype fall back to the neutral one.
func (cs *CompatibilityService) chemistryScore(u1, u2 *models.RegistrantProfile) float64 {
	p1 := u1.PrimaryArchetype
	if p1 == "" {
		p1 = models.DefaultArchetype
	}
	p2 := u2.PrimaryArchetype
	if p2 == "" {
		p2 = models.DefaultArchetype
	}

	score := 0.70 * float64(cs.Archetypes.ChemistryScore(p1, p2))
	score += 0.15 * float64(cs.Archetypes.ChemistryScore(p1, secondaryOr(u2)))
	score += 0.15 * float64(cs.Archetypes.ChemistryScore(secondaryOr(u1), p2))
	return score
}

// secondaryOr falls back to the neutral archetype, whose lookups all resolve to
// the default chemistry score.
func secondaryOr(u *models.RegistrantProfile) string {
	if u.SecondaryArchetype != "" {
		return u.SecondaryArchetype
	}
	return models.DefaultArchetype
}

// interestScore is Jaccard-style: both empty 70, one empty 30, else scaled overlap
func interestScore(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 70
	}
	if len(a) == 0 || len(b) == 0 {
		return 30
	}
	intersection, union := setOverlap(a, b)
	return float64(roundHalfUp(85*float64(intersection)/float64(union) + 15))
}

// preferenceScore averages per-dimension overlap over whichever of budget,
// cuisine and social-goal dimensions both users filled in. Both sides are treated
// as sets: normalization divides by the larger deduplicated size, so the result
// is identical regardless of argument order and unaffected by repeated entries.
func preferenceScore(u1, u2 *models.RegistrantProfile) float64 {
	dimensions := [][2][]string{
		{u1.BudgetTiers, u2.BudgetTiers},
		{u1.CuisinePreferences, u2.CuisinePreferences},
		{u1.SocialGoals, u2.SocialGoals},
	}

	total := 0.0
	counted := 0
	for _, dim := range dimensions {
		a, b := dim[0], dim[1]
		if len(a) == 0 || len(b) == 0 {
			continue
		}
		intersection, _ := setOverlap(a, b)
		larger := uniqueCount(a)
		if ub := uniqueCount(b); ub > larger {
			larger = ub
		}
		total += 100 * float64(intersection) / float64(larger)
		counted++
	}

	if counted == 0 {
		return 60
	}
	return total / float64(counted)
}

// languageScore: any shared comfortable language 100; both recorded but disjoint
// 30; either side unrecorded gets the benefit of the doubt at 70.
func languageScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 70
	}
	intersection, _ := setOverlap(a, b)
	if intersection > 0 {
		return 100
	}
	return 30
}

// setOverlap returns |A∩B| and |A∪B|, deduplicating each side
func setOverlap(a, b []string) (intersection, union int) {
	setA := make(map[string]bool, len(a))
	for _, v := range a {
		setA[v] = true
	}
	setB := make(map[string]bool, len(b))
	for _, v := range b {
		setB[v] = true
	}

	union = len(setB)
	for v := range setA {
		if setB[v] {
			intersection++
		} else {
			union++
		}
	}
	return intersection, union
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
