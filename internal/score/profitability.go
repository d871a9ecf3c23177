package score

import (
	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/stats"
)

// profitabilityScore ranks a surgeon's median margin-per-minute against
// peers, procedure type by procedure type, then blends the per-procedure
// scores with volume weighting. Procedures with fewer than
// MinProcedureCases margin values are skipped, for the surgeon and for
// cohort membership alike. With no qualifying procedure at all the pillar
// is neutral: insufficient data is not poor performance.
func profitabilityScore(surgeonID uuid.UUID, pop *population) float64 {
	var weightedSum, totalWeight float64

	for _, procID := range pop.procedureIDs(surgeonID) {
		margins := pop.caseMargins(pop.byProcedure[surgeonID][procID])
		if len(margins) < pop.settings.MinProcedureCases {
			continue
		}
		median := stats.Median(margins)

		cohort := []float64{median}
		for _, peerID := range pop.surgeons {
			if peerID == surgeonID {
				continue
			}
			peerMargins := pop.caseMargins(pop.byProcedure[peerID][procID])
			if len(peerMargins) < pop.settings.MinProcedureCases {
				continue
			}
			cohort = append(cohort, stats.Median(peerMargins))
		}

		procScore := rankAgainst(median, cohort, false)
		weight := float64(len(margins))
		weightedSum += procScore * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return neutralScore
	}
	return weightedSum / totalWeight
}
