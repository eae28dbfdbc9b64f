package tiers

import (
	"strings"

	"lingohub_backend/app/models"
)

// tierRanks is the fixed total order over tiers. It never changes at runtime;
// OrderRank treats unknown names as free so ordering comparisons cannot fail.
var tierRanks = map[string]int{
	models.TierFree:       0,
	models.TierPro:        1,
	models.TierTeam:       2,
	models.TierEnterprise: 3,
}

// Definition is the canonical, code-owned description of a tier. The database
// rows in the tiers table are seeded from these at startup.
type Definition struct {
	Name              string
	DisplayName       string
	PriceMonthlyCents int64
	PriceYearlyCents  int64
	Features          models.TierFeatures
}

var definitions = []Definition{
	{
		Name:        models.TierFree,
		DisplayName: "Free",
		Features: models.TierFeatures{
			QueriesPerDay: 10,
			FileUploadMB:  5,
		},
	},
	{
		Name:              models.TierPro,
		DisplayName:       "Pro",
		PriceMonthlyCents: 999,
		PriceYearlyCents:  9990,
		Features: models.TierFeatures{
			QueriesPerDay:   200,
			AdvancedRAG:     true,
			FileUploadMB:    50,
			ListeningLabs:   true,
			WritingFeedback: true,
		},
	},
	{
		Name:              models.TierTeam,
		DisplayName:       "Team",
		PriceMonthlyCents: 2999,
		PriceYearlyCents:  29990,
		Features: models.TierFeatures{
			QueriesPerDay:   1000,
			AdvancedRAG:     true,
			FileUploadMB:    200,
			ListeningLabs:   true,
			WritingFeedback: true,
			PrioritySupport: true,
		},
	},
	{
		// No dedicated yearly price; yearly billing falls back to 12 monthly payments.
		Name:              models.TierEnterprise,
		DisplayName:       "Enterprise",
		PriceMonthlyCents: 9999,
		Features: models.TierFeatures{
			QueriesPerDay:   10000,
			AdvancedRAG:     true,
			FileUploadMB:    1024,
			ListeningLabs:   true,
			WritingFeedback: true,
			PrioritySupport: true,
		},
	},
}

// Definitions returns the seedable tier catalog.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// FindDefinition looks up a canonical tier definition by name.
func FindDefinition(name string) (Definition, bool) {
	n := Normalize(name)
	for _, d := range definitions {
		if d.Name == n {
			return d, true
		}
	}
	return Definition{}, false
}

// OrderRank returns the tier's position in the upgrade order. Unknown names
// rank as free rather than failing.
func OrderRank(name string) int {
	return tierRanks[Normalize(name)]
}

func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
