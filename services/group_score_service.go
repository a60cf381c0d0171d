package services

import (
	"math"

	"tably_server/models"
)

// Group-level score weights
const (
	weightAvgPair       = 0.60
	weightDiversity     = 0.25
	weightEnergyBalance = 0.15
)

// GroupScoreService computes group-level quality scores
type GroupScoreService struct {
	Archetypes *models.ArchetypeTable
}

// DiversityScore rewards spread across industry, seniority, gender and primary
// archetype: each dimension contributes up to 25 points at full uniqueness.
func (gs *GroupScoreService) DiversityScore(members []*models.RegistrantProfile) int {
	if len(members) == 0 {
		return 0
	}

	dimensions := [][]string{
		make([]string, 0, len(members)),
		make([]string, 0, len(members)),
		make([]string, 0, len(members)),
		make([]string, 0, len(members)),
	}
	for _, m := range members {
		dimensions[0] = append(dimensions[0], m.Industry)
		dimensions[1] = append(dimensions[1], m.Seniority)
		dimensions[2] = append(dimensions[2], m.Gender)
		dimensions[3] = append(dimensions[3], m.PrimaryArchetype)
	}

	size := float64(len(members))
	total := 0.0
	for _, values := range dimensions {
		total += 25 * float64(uniqueCount(values)) / size
	}
	return roundHalfUp(total)
}

// EnergyBalanceScore scores the group's archetype energy mix: the mean should sit
// in a comfortable band and the spread should stay tight.
func (gs *GroupScoreService) EnergyBalanceScore(members []*models.RegistrantProfile) int {
	if len(members) == 0 {
		return 0
	}

	energies := make([]float64, 0, len(members))
	for _, m := range members {
		energies = append(energies, float64(gs.Archetypes.EnergyLevel(m.PrimaryArchetype)))
	}

	mean := 0.0
	for _, e := range energies {
		mean += e
	}
	mean /= float64(len(energies))

	variance := 0.0
	for _, e := range energies {
		variance += (e - mean) * (e - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(energies)))

	return roundHalfUp(0.6*avgEnergyScore(mean) + 0.4*stdDevScore(stdDev))
}

// avgEnergyScore is a piecewise band around a comfortable 50-70 mean energy
func avgEnergyScore(mean float64) float64 {
	switch {
	case mean >= 50 && mean <= 70:
		return 100
	case mean >= 30 && mean < 50:
		return 60 + (mean-30)/20*40
	case mean > 70 && mean <= 90:
		return 100 - (mean-70)/20*40
	default:
		return math.Max(0, 100-2*math.Abs(mean-60))
	}
}

// stdDevScore is flat up to σ=15, decays to 60 by σ=25, then keeps falling
func stdDevScore(stdDev float64) float64 {
	switch {
	case stdDev <= 15:
		return 100
	case stdDev <= 25:
		return 100 - (stdDev-15)*4
	default:
		return math.Max(0, 60-2*(stdDev-25))
	}
}

// OverallScore blends avg pair score, diversity and energy balance
func OverallScore(avgPairScore float64, diversityScore, energyBalanceScore int) int {
	return roundHalfUp(weightAvgPair*avgPairScore +
		weightDiversity*float64(diversityScore) +
		weightEnergyBalance*float64(energyBalanceScore))
}

// TemperatureLevel maps an overall score to its presentation band. It never
// feeds back into scoring.
func TemperatureLevel(overallScore int) string {
	switch {
	case overallScore >= 85:
		return models.TemperatureFire
	case overallScore >= 70:
		return models.TemperatureWarm
	case overallScore >= 55:
		return models.TemperatureMild
	default:
		return models.TemperatureCold
	}
}

func uniqueCount(values []string) int {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}
