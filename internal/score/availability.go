package score

import (
	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/stats"
)

const (
	// minGapCases is how many scorable prep-to-incision gaps a surgeon
	// needs before the gap sub-metric carries signal.
	minGapCases = 3

	// minDelayCohortCases is the minimum total case count for a surgeon
	// to enter the delay-rate cohort.
	minDelayCohortCases = 5
)

// availabilityScore blends two sub-metrics 50/50: how tight the surgeon
// keeps the prep-complete to incision gap, and how rarely their cases
// draw a user-attributed delay flag. Either sub-metric falls back to
// neutral when its data gate is not met.
func availabilityScore(surgeonID uuid.UUID, pop *population) float64 {
	return 0.5*prepGapScore(surgeonID, pop) + 0.5*delayRateScore(surgeonID, pop)
}

func prepGapScore(surgeonID uuid.UUID, pop *population) float64 {
	raw, ok := prepGapRaw(pop.bySurgeon[surgeonID], pop.settings)
	if !ok {
		return neutralScore
	}

	cohort := []float64{raw}
	for _, peerID := range pop.surgeons {
		if peerID == surgeonID {
			continue
		}
		if peerRaw, peerOK := prepGapRaw(pop.bySurgeon[peerID], pop.settings); peerOK {
			cohort = append(cohort, peerRaw)
		}
	}

	return rankAgainst(raw, cohort, false)
}

// prepGapRaw computes the mean graduated gap score ×100. ok is false with
// fewer than minGapCases scorable gaps.
func prepGapRaw(cases []model.Case, settings model.Settings) (raw float64, ok bool) {
	var scores []float64
	for _, c := range cases {
		gap := c.PrepGap()
		if gap == nil {
			continue
		}
		minutesOver := *gap - settings.ExpectedPrepGapMinutes
		if minutesOver < 0 {
			minutesOver = 0
		}
		scores = append(scores, stats.GraduatedScore(minutesOver, settings.AvailabilityFloorMinutes))
	}
	if len(scores) < minGapCases {
		return 0, false
	}
	return stats.Mean(scores) * 100, true
}

func delayRateScore(surgeonID uuid.UUID, pop *population) float64 {
	own := pop.bySurgeon[surgeonID]
	if len(own) < minDelayCohortCases {
		return neutralScore
	}

	rate := pop.delayRate(own)
	cohort := []float64{rate}
	for _, peerID := range pop.surgeons {
		if peerID == surgeonID {
			continue
		}
		peerCases := pop.bySurgeon[peerID]
		if len(peerCases) < minDelayCohortCases {
			continue
		}
		cohort = append(cohort, pop.delayRate(peerCases))
	}

	return rankAgainst(rate, cohort, true)
}

// delayRate returns the percentage of cases carrying a user-attributed
// delay flag. Multiple flags on one case count once.
func (p *population) delayRate(cases []model.Case) float64 {
	if len(cases) == 0 {
		return 0
	}
	flagged := 0
	for _, c := range cases {
		if p.delayed[c.ID] {
			flagged++
		}
	}
	return float64(flagged) / float64(len(cases)) * 100
}
