package models

// RegistrantProfile is the already-validated profile the engine reads for matching.
// Owned by the external profile store; read-only to the engine.
type RegistrantProfile struct {
	UserID             string   `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Gender             string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	Age                int      `dynamodbav:"age,omitempty" json:"age,omitempty"`
	Industry           string   `dynamodbav:"industry,omitempty" json:"industry,omitempty"`
	Seniority          string   `dynamodbav:"seniority,omitempty" json:"seniority,omitempty"`
	EducationLevel     string   `dynamodbav:"educationLevel,omitempty" json:"educationLevel,omitempty"`
	PrimaryArchetype   string   `dynamodbav:"primaryArchetype,omitempty" json:"primaryArchetype,omitempty"`
	SecondaryArchetype string   `dynamodbav:"secondaryArchetype,omitempty" json:"secondaryArchetype,omitempty"`
	Interests          []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Languages          []string `dynamodbav:"languages,omitempty" json:"languages,omitempty"` // comfortable languages
	BudgetTiers        []string `dynamodbav:"budgetTiers,omitempty" json:"budgetTiers,omitempty"`
	CuisinePreferences []string `dynamodbav:"cuisinePreferences,omitempty" json:"cuisinePreferences,omitempty"`
	SocialGoals        []string `dynamodbav:"socialGoals,omitempty" json:"socialGoals,omitempty"`
}

// RegistrantProfilesTable is the DynamoDB table name for registrant profiles
const RegistrantProfilesTable = "RegistrantProfiles"
