package model

import "github.com/google/uuid"

// TrendDirection compares a surgeon's composite to the previous period.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Grade is the letter band for a composite score, with a display color
// pair for dashboard rendering.
type Grade struct {
	Letter string
	Label  string
	Color  string
	Accent string
}

// ProcedureCount pairs a procedure display name with the surgeon's case
// count for it.
type ProcedureCount struct {
	Name  string
	Count int
}

// Scorecard is the scored output for one eligible surgeon in one period.
// Pillar scores and the composite are on a 0–100 scale.
type Scorecard struct {
	SurgeonID   uuid.UUID
	SurgeonName string

	CaseCount  int
	Procedures []ProcedureCount

	// UsesFlipRooms is set when the surgeon ran cases in more than one
	// operating room on the same scheduled day.
	UsesFlipRooms bool

	Profitability     float64
	Consistency       float64
	ScheduleAdherence float64
	Availability      float64

	Composite int
	Grade     Grade

	Trend             TrendDirection
	PreviousComposite *int
}
