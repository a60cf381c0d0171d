package services

import (
	"testing"

	"tably_server/models"

	"github.com/stretchr/testify/assert"
)

func TestDiversityScore(t *testing.T) {
	gs := &GroupScoreService{Archetypes: testArchetypes()}

	allDistinct := []*models.RegistrantProfile{
		{UserID: "u1", Industry: "tech", Seniority: "junior", Gender: "female", PrimaryArchetype: "spark"},
		{UserID: "u2", Industry: "finance", Seniority: "mid", Gender: "male", PrimaryArchetype: "sage"},
		{UserID: "u3", Industry: "health", Seniority: "senior", Gender: "nonbinary", PrimaryArchetype: "host"},
		{UserID: "u4", Industry: "media", Seniority: "exec", Gender: "other", PrimaryArchetype: "anchor"},
	}
	assert.Equal(t, 100, gs.DiversityScore(allDistinct))

	allSame := []*models.RegistrantProfile{
		{UserID: "u1", Industry: "tech", Seniority: "mid", Gender: "male", PrimaryArchetype: "spark"},
		{UserID: "u2", Industry: "tech", Seniority: "mid", Gender: "male", PrimaryArchetype: "spark"},
		{UserID: "u3", Industry: "tech", Seniority: "mid", Gender: "male", PrimaryArchetype: "spark"},
		{UserID: "u4", Industry: "tech", Seniority: "mid", Gender: "male", PrimaryArchetype: "spark"},
	}
	assert.Equal(t, 25, gs.DiversityScore(allSame))

	assert.Equal(t, 0, gs.DiversityScore(nil))
}

func TestEnergyBalanceScore(t *testing.T) {
	gs := &GroupScoreService{Archetypes: testArchetypes()}

	// Four dreamers: energy 55 each, μ=55 in the comfort band, σ=0
	comfortable := []*models.RegistrantProfile{
		{UserID: "u1", PrimaryArchetype: "dreamer"},
		{UserID: "u2", PrimaryArchetype: "dreamer"},
		{UserID: "u3", PrimaryArchetype: "dreamer"},
		{UserID: "u4", PrimaryArchetype: "dreamer"},
	}
	assert.Equal(t, 100, gs.EnergyBalanceScore(comfortable))

	// Four sparks: μ=90 gives avgEnergyScore 60, σ=0 keeps stdDevScore 100
	wired := []*models.RegistrantProfile{
		{UserID: "u1", PrimaryArchetype: "spark"},
		{UserID: "u2", PrimaryArchetype: "spark"},
		{UserID: "u3", PrimaryArchetype: "spark"},
		{UserID: "u4", PrimaryArchetype: "spark"},
	}
	assert.Equal(t, 76, gs.EnergyBalanceScore(wired)) // 0.6·60 + 0.4·100

	// Unknown archetypes fall back to energy 50
	unknown := []*models.RegistrantProfile{{UserID: "u1"}, {UserID: "u2"}}
	assert.Equal(t, 100, gs.EnergyBalanceScore(unknown))
}

func TestAvgEnergyScoreBands(t *testing.T) {
	assert.Equal(t, 100.0, avgEnergyScore(50))
	assert.Equal(t, 100.0, avgEnergyScore(60))
	assert.Equal(t, 100.0, avgEnergyScore(70))
	assert.Equal(t, 60.0, avgEnergyScore(30))
	assert.InDelta(t, 98.0, avgEnergyScore(49), 0.001)
	assert.Equal(t, 60.0, avgEnergyScore(90))
	assert.InDelta(t, 80.0, avgEnergyScore(80), 0.001)
	assert.Equal(t, 20.0, avgEnergyScore(20)) // 100 − 2·40
	assert.Equal(t, 30.0, avgEnergyScore(95)) // 100 − 2·35
}

func TestStdDevScoreBands(t *testing.T) {
	assert.Equal(t, 100.0, stdDevScore(0))
	assert.Equal(t, 100.0, stdDevScore(15))
	assert.InDelta(t, 80.0, stdDevScore(20), 0.001)
	assert.InDelta(t, 60.0, stdDevScore(25), 0.001)
	assert.InDelta(t, 50.0, stdDevScore(30), 0.001)
	assert.Equal(t, 0.0, stdDevScore(100))
}

func TestOverallScore(t *testing.T) {
	// Worked example: 70·0.6 + 40·0.25 + 80·0.15 = 64
	assert.Equal(t, 64, OverallScore(70, 40, 80))
	assert.Equal(t, 100, OverallScore(100, 100, 100))
	assert.Equal(t, 0, OverallScore(0, 0, 0))
}

func TestTemperatureLevel(t *testing.T) {
	assert.Equal(t, models.TemperatureFire, TemperatureLevel(100))
	assert.Equal(t, models.TemperatureFire, TemperatureLevel(85))
	assert.Equal(t, models.TemperatureWarm, TemperatureLevel(84))
	assert.Equal(t, models.TemperatureWarm, TemperatureLevel(70))
	assert.Equal(t, models.TemperatureMild, TemperatureLevel(69))
	assert.Equal(t, models.TemperatureMild, TemperatureLevel(55))
	assert.Equal(t, models.TemperatureCold, TemperatureLevel(54))
	assert.Equal(t, models.TemperatureCold, TemperatureLevel(0))
}
