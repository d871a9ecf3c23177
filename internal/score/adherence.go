package score

import (
	"time"

	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/stats"
)

// adherenceScore ranks a surgeon's schedule timeliness across every case,
// not per procedure. First-case-on-time falls out of this as ordinary
// timeliness rather than a separate metric. Each scorable case earns a
// graduated score from how late its configured start milestone was beyond
// the grace period; the surgeon's raw score is the mean of those, scaled
// to 0–100, then percentile-ranked against every peer with at least one
// scorable case.
func adherenceScore(surgeonID uuid.UUID, pop *population) float64 {
	raw, ok := adherenceRaw(pop.bySurgeon[surgeonID], pop.settings)
	if !ok {
		return neutralScore
	}

	cohort := []float64{raw}
	for _, peerID := range pop.surgeons {
		if peerID == surgeonID {
			continue
		}
		if peerRaw, peerOK := adherenceRaw(pop.bySurgeon[peerID], pop.settings); peerOK {
			cohort = append(cohort, peerRaw)
		}
	}

	return rankAgainst(raw, cohort, false)
}

// adherenceRaw computes the mean graduated timeliness score ×100 over a
// surgeon's scorable cases. ok is false when no case has both a scheduled
// start and the configured actual-start milestone.
func adherenceRaw(cases []model.Case, settings model.Settings) (raw float64, ok bool) {
	var scores []float64
	for _, c := range cases {
		if c.ScheduledStart == nil {
			continue
		}
		actual := c.ActualStart(settings.StartMilestone)
		if actual == nil {
			continue
		}
		// Compare as minutes-since-midnight on the facility's local
		// calendar day; an early start simply earns the full score.
		delta := minutesSinceMidnight(*actual) - minutesSinceMidnight(*c.ScheduledStart)
		minutesOver := delta - settings.GraceMinutes
		if minutesOver < 0 {
			minutesOver = 0
		}
		scores = append(scores, stats.GraduatedScore(minutesOver, settings.AdherenceFloorMinutes))
	}
	if len(scores) == 0 {
		return 0, false
	}
	return stats.Mean(scores) * 100, true
}

func minutesSinceMidnight(t time.Time) float64 {
	h, m, s := t.Clock()
	return float64(h)*60 + float64(m) + float64(s)/60
}
