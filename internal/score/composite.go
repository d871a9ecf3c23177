package score

import (
	"math"

	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/stats"
)

// Pillar weights for the composite. They must sum to 1.0.
const (
	weightProfitability = 0.30
	weightConsistency   = 0.25
	weightAdherence     = 0.25
	weightAvailability  = 0.20
)

// neutralScore is the pillar value for "not enough evidence". It sits at
// the midpoint so missing data neither rewards nor punishes.
const neutralScore = 50.0

// rankAgainst maps a metric onto the 0–100 score scale by percentile rank
// within its cohort (the subject's own value plus qualifying peers). A
// cohort without peers carries no comparative signal, so the score stays
// neutral rather than passing the 50th percentile through the clamp band.
func rankAgainst(v float64, cohort []float64, lowerIsBetter bool) float64 {
	if len(cohort) <= 1 {
		return neutralScore
	}
	return stats.ClampScore(stats.PercentileRank(v, cohort, lowerIsBetter))
}

// composite folds the four pillar scores into the rounded 0–100 ORbit
// composite.
func composite(profitability, consistency, adherence, availability float64) int {
	weighted := profitability*weightProfitability +
		consistency*weightConsistency +
		adherence*weightAdherence +
		availability*weightAvailability
	return int(math.Round(weighted))
}

// gradeFor maps a composite score to its letter band.
func gradeFor(composite int) model.Grade {
	switch {
	case composite >= 90:
		return model.Grade{Letter: "A", Label: "Elite", Color: "#15803d", Accent: "#dcfce7"}
	case composite >= 80:
		return model.Grade{Letter: "B", Label: "Strong", Color: "#1d4ed8", Accent: "#dbeafe"}
	case composite >= 70:
		return model.Grade{Letter: "C", Label: "Developing", Color: "#b45309", Accent: "#fef3c7"}
	default:
		return model.Grade{Letter: "D", Label: "Needs Improvement", Color: "#b91c1c", Accent: "#fee2e2"}
	}
}
