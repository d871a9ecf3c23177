package score

import (
	"sort"

	"github.com/google/uuid"

	"github.com/orbithealth/orbitscore/internal/model"
)

// Period bundles one reporting period's raw records. The engine treats
// every slice as read-only.
type Period struct {
	Cases      []model.Case
	Financials []model.Financial
	Flags      []model.Flag
}

// population indexes a period's records for cohort lookups. Every pillar
// receives the same population explicitly, so peer comparisons never rely
// on package state and the engine stays testable in isolation.
type population struct {
	settings model.Settings

	// surgeons lists every surgeon id in the period, sorted, so score
	// assembly iterates in a stable order.
	surgeons []uuid.UUID

	bySurgeon   map[uuid.UUID][]model.Case
	byProcedure map[uuid.UUID]map[uuid.UUID][]model.Case
	financials  map[uuid.UUID]*model.Financial

	// delayed marks cases carrying at least one user-attributed delay
	// flag. System-detected delays do not count against a surgeon.
	delayed map[uuid.UUID]bool
}

func newPopulation(p Period, settings model.Settings) *population {
	pop := &population{
		settings:    settings,
		bySurgeon:   make(map[uuid.UUID][]model.Case),
		byProcedure: make(map[uuid.UUID]map[uuid.UUID][]model.Case),
		financials:  make(map[uuid.UUID]*model.Financial, len(p.Financials)),
		delayed:     make(map[uuid.UUID]bool),
	}

	for _, c := range p.Cases {
		pop.bySurgeon[c.SurgeonID] = append(pop.bySurgeon[c.SurgeonID], c)
		procs := pop.byProcedure[c.SurgeonID]
		if procs == nil {
			procs = make(map[uuid.UUID][]model.Case)
			pop.byProcedure[c.SurgeonID] = procs
		}
		procs[c.ProcedureID] = append(procs[c.ProcedureID], c)
	}

	for i := range p.Financials {
		f := &p.Financials[i]
		pop.financials[f.CaseID] = f
	}

	for _, fl := range p.Flags {
		if fl.Type == model.FlagDelay && fl.Attributed() {
			pop.delayed[fl.CaseID] = true
		}
	}

	pop.surgeons = make([]uuid.UUID, 0, len(pop.bySurgeon))
	for id := range pop.bySurgeon {
		pop.surgeons = append(pop.surgeons, id)
	}
	sort.Slice(pop.surgeons, func(i, j int) bool {
		return pop.surgeons[i].String() < pop.surgeons[j].String()
	})

	return pop
}

// procedureIDs returns a surgeon's procedure types in a stable order.
func (p *population) procedureIDs(surgeonID uuid.UUID) []uuid.UUID {
	procs := p.byProcedure[surgeonID]
	ids := make([]uuid.UUID, 0, len(procs))
	for id := range procs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// caseMargins returns each case's profit-per-minute, skipping cases with
// no financial record or a non-positive recorded duration.
func (p *population) caseMargins(cases []model.Case) []float64 {
	var margins []float64
	for _, c := range cases {
		fin, ok := p.financials[c.ID]
		if !ok {
			continue
		}
		if m := fin.MarginPerMinute(); m != nil {
			margins = append(margins, *m)
		}
	}
	return margins
}

// caseDurations returns each case's patient-in to patient-out duration,
// skipping incomplete or out-of-order records.
func caseDurations(cases []model.Case) []float64 {
	var durations []float64
	for _, c := range cases {
		if d := c.Duration(); d != nil {
			durations = append(durations, *d)
		}
	}
	return durations
}
