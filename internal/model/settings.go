package model

import "fmt"

// StartMilestone selects which milestone counts as a case's actual start
// for schedule adherence.
type StartMilestone string

const (
	StartPatientIn StartMilestone = "patient_in"
	StartIncision  StartMilestone = "incision"
)

// Settings holds facility-level scoring configuration. Pillar weights and
// the scorecard eligibility minimum are fixed by the scoring methodology
// and deliberately not configurable here.
type Settings struct {
	// StartMilestone is the milestone compared against the scheduled
	// start time for adherence scoring.
	StartMilestone StartMilestone `yaml:"start_milestone"`

	// GraceMinutes is forgiven before a late start begins to decay the
	// per-case adherence score.
	GraceMinutes float64 `yaml:"grace_minutes"`

	// AdherenceFloorMinutes is the lateness (beyond grace) at which the
	// per-case adherence score reaches zero.
	AdherenceFloorMinutes float64 `yaml:"adherence_floor_minutes"`

	// ExpectedPrepGapMinutes is the acceptable prep-complete to incision
	// gap before the availability decay starts.
	ExpectedPrepGapMinutes float64 `yaml:"expected_prep_gap_minutes"`

	// AvailabilityFloorMinutes is the excess gap at which the per-case
	// availability score reaches zero.
	AvailabilityFloorMinutes float64 `yaml:"availability_floor_minutes"`

	// MinProcedureCases is the minimum qualifying cases a surgeon needs
	// for one procedure type before that procedure enters the
	// profitability/consistency cohorts.
	MinProcedureCases int `yaml:"min_procedure_cases"`
}

// DefaultSettings returns the standard facility configuration.
func DefaultSettings() Settings {
	return Settings{
		StartMilestone:           StartPatientIn,
		GraceMinutes:             5,
		AdherenceFloorMinutes:    60,
		ExpectedPrepGapMinutes:   15,
		AvailabilityFloorMinutes: 30,
		MinProcedureCases:        3,
	}
}

// Validate checks the settings for values the engine cannot score with.
func (s *Settings) Validate() error {
	switch s.StartMilestone {
	case StartPatientIn, StartIncision:
	default:
		return fmt.Errorf("unknown start milestone %q (want %q or %q)",
			s.StartMilestone, StartPatientIn, StartIncision)
	}
	if s.GraceMinutes < 0 {
		return fmt.Errorf("grace_minutes must not be negative, got %v", s.GraceMinutes)
	}
	if s.AdherenceFloorMinutes <= 0 {
		return fmt.Errorf("adherence_floor_minutes must be positive, got %v", s.AdherenceFloorMinutes)
	}
	if s.ExpectedPrepGapMinutes < 0 {
		return fmt.Errorf("expected_prep_gap_minutes must not be negative, got %v", s.ExpectedPrepGapMinutes)
	}
	if s.AvailabilityFloorMinutes <= 0 {
		return fmt.Errorf("availability_floor_minutes must be positive, got %v", s.AvailabilityFloorMinutes)
	}
	if s.MinProcedureCases < 1 {
		return fmt.Errorf("min_procedure_cases must be at least 1, got %d", s.MinProcedureCases)
	}
	return nil
}
