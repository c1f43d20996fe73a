package booking

import "connectify/models"

// MatchPriceTier resolves a requested duration against the configured tiers.
// The match is exact; there is no interpolation between tiers.
func MatchPriceTier(tiers []models.PriceTier, durationMinutes int) (models.PriceTier, error) {
	for _, tier := range tiers {
		if tier.DurationMinutes == durationMinutes {
			return tier, nil
		}
	}
	return models.PriceTier{}, &NoMatchingPriceTierError{DurationMinutes: durationMinutes}
}
