// Package store loads one reporting period's records from Postgres into
// the in-memory slices the scoring engine consumes. It is the engine's
// only data-access collaborator; the engine itself never touches the
// database.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/score"
	embedsql "github.com/orbithealth/orbitscore/internal/sql"
)

// PeriodData is everything the engine needs for one period, plus the
// display-name maps for scorecard assembly.
type PeriodData struct {
	Period         score.Period
	SurgeonNames   map[uuid.UUID]string
	ProcedureNames map[uuid.UUID]string
}

// LoadPeriod reads all cases scheduled in [from, to) along with their
// financial and flag records and the facility's name tables.
func LoadPeriod(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, from, to time.Time) (*PeriodData, error) {
	start := time.Now()

	cases, err := loadCases(ctx, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("load cases: %w", err)
	}

	financials, err := loadFinancials(ctx, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("load financials: %w", err)
	}

	flags, err := loadFlags(ctx, pool, from, to)
	if err != nil {
		return nil, fmt.Errorf("load flags: %w", err)
	}

	surgeons, err := loadNames(ctx, pool, embedsql.ListSurgeons)
	if err != nil {
		return nil, fmt.Errorf("load surgeons: %w", err)
	}

	procedures, err := loadNames(ctx, pool, embedsql.ListProcedures)
	if err != nil {
		return nil, fmt.Errorf("load procedures: %w", err)
	}

	log.Info().
		Int("cases", len(cases)).
		Int("financials", len(financials)).
		Int("flags", len(flags)).
		Dur("duration", time.Since(start)).
		Msg("period loaded")

	return &PeriodData{
		Period: score.Period{
			Cases:      cases,
			Financials: financials,
			Flags:      flags,
		},
		SurgeonNames:   surgeons,
		ProcedureNames: procedures,
	}, nil
}

func loadCases(ctx context.Context, pool *pgxpool.Pool, from, to time.Time) ([]model.Case, error) {
	rows, err := pool.Query(ctx, embedsql.ListCases, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.Case
	for rows.Next() {
		var c model.Case
		if err := rows.Scan(
			&c.ID, &c.SurgeonID, &c.ProcedureID, &c.RoomID,
			&c.ScheduledDate, &c.ScheduledStart,
			&c.PatientIn, &c.Incision, &c.PrepComplete, &c.Closing, &c.PatientOut,
		); err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func loadFinancials(ctx context.Context, pool *pgxpool.Pool, from, to time.Time) ([]model.Financial, error) {
	rows, err := pool.Query(ctx, embedsql.ListFinancials, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var financials []model.Financial
	for rows.Next() {
		var f model.Financial
		if err := rows.Scan(
			&f.CaseID, &f.ProfitCents, &f.ReimbursementCents, &f.ORCostCents, &f.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("scan financial: %w", err)
		}
		financials = append(financials, f)
	}
	return financials, rows.Err()
}

func loadFlags(ctx context.Context, pool *pgxpool.Pool, from, to time.Time) ([]model.Flag, error) {
	rows, err := pool.Query(ctx, embedsql.ListFlags, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []model.Flag
	for rows.Next() {
		var f model.Flag
		if err := rows.Scan(&f.CaseID, &f.Type, &f.Severity, &f.AttributedTo); err != nil {
			return nil, fmt.Errorf("scan flag: %w", err)
		}
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

func loadNames(ctx context.Context, pool *pgxpool.Pool, query string) (map[uuid.UUID]string, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan name row: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
