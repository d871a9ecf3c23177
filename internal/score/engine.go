// Package score implements the ORbit scoring engine: a pure computation
// that turns one period's case, financial, and flag records into
// peer-ranked surgeon scorecards. The engine performs no I/O and holds no
// state across invocations; identical inputs always produce identical
// output.
package score

import (
	"sort"

	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/model"
)

// MinCasesForScorecard is the eligibility gate: surgeons with fewer total
// cases in the period are omitted from the output entirely rather than
// scored low. They still contribute to peer cohorts.
const MinCasesForScorecard = 15

// Input carries everything one scoring run needs. Previous is optional;
// when present it is scored independently (its own peer cohorts, same
// settings) to derive each surgeon's trend. The name maps are display
// metadata only and may be nil.
type Input struct {
	Period   Period
	Previous *Period
	Settings model.Settings

	SurgeonNames   map[uuid.UUID]string
	ProcedureNames map[uuid.UUID]string
}

// Score runs the full pipeline and returns one scorecard per eligible
// surgeon, sorted by composite descending (surgeon id ascending on ties).
func Score(in Input) []model.Scorecard {
	cards := scorePeriod(in.Period, in.Settings, in.SurgeonNames, in.ProcedureNames)

	if in.Previous != nil {
		previous := make(map[uuid.UUID]int)
		for _, prev := range scorePeriod(*in.Previous, in.Settings, nil, nil) {
			previous[prev.SurgeonID] = prev.Composite
		}
		for i := range cards {
			prev, ok := previous[cards[i].SurgeonID]
			if !ok {
				continue
			}
			p := prev
			cards[i].PreviousComposite = &p
			switch {
			case cards[i].Composite > prev:
				cards[i].Trend = model.TrendUp
			case cards[i].Composite < prev:
				cards[i].Trend = model.TrendDown
			}
		}
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Composite != cards[j].Composite {
			return cards[i].Composite > cards[j].Composite
		}
		return cards[i].SurgeonID.String() < cards[j].SurgeonID.String()
	})
	return cards
}

// scorePeriod scores every eligible surgeon against the full population.
// Below-threshold surgeons are not listed but remain in the population,
// so they still shape their peers' percentile cohorts.
func scorePeriod(period Period, settings model.Settings, surgeonNames map[uuid.UUID]string, procedureNames map[uuid.UUID]string) []model.Scorecard {
	pop := newPopulation(period, settings)

	var cards []model.Scorecard
	for _, surgeonID := range pop.surgeons {
		cases := pop.bySurgeon[surgeonID]
		if len(cases) < MinCasesForScorecard {
			continue
		}

		profitability := profitabilityScore(surgeonID, pop)
		consistency := consistencyScore(surgeonID, pop)
		adherence := adherenceScore(surgeonID, pop)
		availability := availabilityScore(surgeonID, pop)

		total := composite(profitability, consistency, adherence, availability)

		cards = append(cards, model.Scorecard{
			SurgeonID:         surgeonID,
			SurgeonName:       surgeonNames[surgeonID],
			CaseCount:         len(cases),
			Procedures:        procedureCounts(surgeonID, pop, procedureNames),
			UsesFlipRooms:     usesFlipRooms(cases),
			Profitability:     profitability,
			Consistency:       consistency,
			ScheduleAdherence: adherence,
			Availability:      availability,
			Composite:         total,
			Grade:             gradeFor(total),
			Trend:             model.TrendStable,
		})
	}
	return cards
}

// procedureCounts lists the surgeon's procedures by descending case count
// (name ascending on ties). Unknown procedure ids fall back to the raw id
// string so the scorecard never loses a row to missing metadata.
func procedureCounts(surgeonID uuid.UUID, pop *population, names map[uuid.UUID]string) []model.ProcedureCount {
	var counts []model.ProcedureCount
	for _, procID := range pop.procedureIDs(surgeonID) {
		name := names[procID]
		if name == "" {
			name = procID.String()
		}
		counts = append(counts, model.ProcedureCount{
			Name:  name,
			Count: len(pop.byProcedure[surgeonID][procID]),
		})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts
}

// usesFlipRooms reports whether any scheduled day saw the surgeon operate
// in more than one room.
func usesFlipRooms(cases []model.Case) bool {
	rooms := make(map[string]uuid.UUID)
	for _, c := range cases {
		day := c.ScheduledDate.Format("2006-01-02")
		first, seen := rooms[day]
		if !seen {
			rooms[day] = c.RoomID
			continue
		}
		if first != c.RoomID {
			return true
		}
	}
	return false
}
