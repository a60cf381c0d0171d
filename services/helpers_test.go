package services

import (
	"tably_server/models"
)

func testArchetypes() *models.ArchetypeTable {
	return models.NewArchetypeTable(models.DefaultArchetypeCatalog())
}

func testCompatibility() *CompatibilityService {
	return &CompatibilityService{Archetypes: testArchetypes()}
}

func testBuilder() *GroupBuilder {
	return &GroupBuilder{
		Compatibility: testCompatibility(),
		Quality:       &GroupScoreService{Archetypes: testArchetypes()},
	}
}

// sparkTwin is a profile that scores 85 against another sparkTwin: chemistry 57,
// full interest, preference and language overlap.
func sparkTwin(id string) *models.RegistrantProfile {
	return &models.RegistrantProfile{
		UserID:             id,
		Gender:             "female",
		Age:                30,
		Industry:           "tech",
		Seniority:          "senior",
		PrimaryArchetype:   "spark",
		Interests:          []string{"hiking", "jazz"},
		Languages:          []string{"en"},
		BudgetTiers:        []string{"mid"},
		CuisinePreferences: []string{"thai"},
		SocialGoals:        []string{"networking"},
	}
}

func clusterProfile(id, interest, language, budget string) *models.RegistrantProfile {
	return &models.RegistrantProfile{
		UserID:      id,
		Interests:   []string{interest},
		Languages:   []string{language},
		BudgetTiers: []string{budget},
	}
}
