package score

import (
	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/stats"
)

// consistencyScore ranks how repeatable a surgeon's case durations are
// per procedure type, using the coefficient of variation of patient-in to
// patient-out time. Lower variation is better. Grouping, the minimum-case
// gate, and volume weighting mirror the profitability pillar.
func consistencyScore(surgeonID uuid.UUID, pop *population) float64 {
	var weightedSum, totalWeight float64

	for _, procID := range pop.procedureIDs(surgeonID) {
		durations := caseDurations(pop.byProcedure[surgeonID][procID])
		if len(durations) < pop.settings.MinProcedureCases {
			continue
		}
		cv := stats.CoefficientOfVariation(durations)

		cohort := []float64{cv}
		for _, peerID := range pop.surgeons {
			if peerID == surgeonID {
				continue
			}
			peerDurations := caseDurations(pop.byProcedure[peerID][procID])
			if len(peerDurations) < pop.settings.MinProcedureCases {
				continue
			}
			cohort = append(cohort, stats.CoefficientOfVariation(peerDurations))
		}

		procScore := rankAgainst(cv, cohort, true)
		weight := float64(len(durations))
		weightedSum += procScore * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return neutralScore
	}
	return weightedSum / totalWeight
}
