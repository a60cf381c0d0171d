package services

import "tably_server/models"

// IsEligible checks a registrant profile against a pool's hard constraints.
// Pure predicate: a mismatch is a normal false, never an error.
func IsEligible(profile *models.RegistrantProfile, pool *models.Pool) bool {
	if pool.GenderRestriction != "" && profile.Gender != pool.GenderRestriction {
		return false
	}
	if len(pool.AllowedIndustries) > 0 && !containsString(pool.AllowedIndustries, profile.Industry) {
		return false
	}
	if len(pool.AllowedSeniorities) > 0 && !containsString(pool.AllowedSeniorities, profile.Seniority) {
		return false
	}
	if len(pool.AllowedEducationLevels) > 0 && !containsString(pool.AllowedEducationLevels, profile.EducationLevel) {
		return false
	}
	if profile.Age > 0 {
		if pool.MinAge > 0 && profile.Age < pool.MinAge {
			return false
		}
		if pool.MaxAge > 0 && profile.Age > pool.MaxAge {
			return false
		}
	}
	return true
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
