package model

import (
	"time"

	"github.com/google/uuid"
)

// Case is a single surgical case as scheduled and performed. Milestone
// timestamps are nil until the corresponding event has been recorded in
// the OR, and a recorded set of milestones is not guaranteed to be in
// clinical order.
type Case struct {
	ID          uuid.UUID
	SurgeonID   uuid.UUID
	ProcedureID uuid.UUID
	RoomID      uuid.UUID

	ScheduledDate  time.Time
	ScheduledStart *time.Time

	// Milestone timestamps in clinical order.
	PatientIn    *time.Time
	Incision     *time.Time
	PrepComplete *time.Time
	Closing      *time.Time
	PatientOut   *time.Time
}

// MinutesBetween returns the span from a to b in fractional minutes.
// Returns nil when either timestamp is missing or when b precedes a, so
// out-of-order milestone records never produce a negative duration.
func MinutesBetween(a, b *time.Time) *float64 {
	if a == nil || b == nil {
		return nil
	}
	m := b.Sub(*a).Minutes()
	if m < 0 {
		return nil
	}
	return &m
}

// Duration returns the patient-in to patient-out span in minutes, or nil
// if the case is not yet complete.
func (c *Case) Duration() *float64 {
	return MinutesBetween(c.PatientIn, c.PatientOut)
}

// PrepGap returns the prep/drape-complete to incision span in minutes.
func (c *Case) PrepGap() *float64 {
	return MinutesBetween(c.PrepComplete, c.Incision)
}

// ActualStart returns the milestone timestamp the facility counts as the
// actual start of the case.
func (c *Case) ActualStart(m StartMilestone) *time.Time {
	if m == StartIncision {
		return c.Incision
	}
	return c.PatientIn
}

// Financial holds the per-case financial summary joined by case id.
// Money values are integer cents, signed.
type Financial struct {
	CaseID             uuid.UUID
	ProfitCents        int64
	ReimbursementCents int64
	ORCostCents        int64
	DurationMinutes    float64
}

// MarginPerMinute returns the case's profit in dollars per minute of OR
// time, or nil when the recorded duration is non-positive.
func (f *Financial) MarginPerMinute() *float64 {
	if f.DurationMinutes <= 0 {
		return nil
	}
	m := float64(f.ProfitCents) / 100 / f.DurationMinutes
	return &m
}

// Flag types recognized by the scoring engine.
const FlagDelay = "delay"

// Flag is an annotation attached to a case. AttributedTo is nil when the
// flag was system-detected rather than raised by a user.
type Flag struct {
	CaseID       uuid.UUID
	Type         string
	Severity     string
	AttributedTo *uuid.UUID
}

// Attributed reports whether a user attributed this flag.
func (f *Flag) Attributed() bool {
	return f.AttributedTo != nil
}
