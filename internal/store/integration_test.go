package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbithealth/orbitscore/internal/db"
	"github.com/orbithealth/orbitscore/internal/logging"
	"github.com/orbithealth/orbitscore/internal/store"
)

const (
	testPort     = 15433
	testDB       = "orbittest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	if os.Getenv("ORBIT_SKIP_PG_TESTS") != "" {
		fmt.Fprintln(os.Stderr, "SKIP: ORBIT_SKIP_PG_TESTS is set")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30 * time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupDB creates a connection pool and applies migrations against a
// clean schema.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS orbit CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

func exec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), sql, args...); err != nil {
		t.Fatalf("exec %q: %v", sql, err)
	}
}

func TestLoadPeriod(t *testing.T) {
	pool := setupDB(t)
	ctx := context.Background()
	log := logging.Setup("text")

	surgeon := uuid.New()
	procedure := uuid.New()
	room := uuid.New()
	exec(t, pool, "INSERT INTO orbit.surgeons (surgeon_id, display_name) VALUES ($1, $2)", surgeon, "Dr. Okafor")
	exec(t, pool, "INSERT INTO orbit.procedures (procedure_id, display_name) VALUES ($1, $2)", procedure, "Knee Arthroscopy")
	exec(t, pool, "INSERT INTO orbit.rooms (room_id, display_name) VALUES ($1, $2)", room, "OR 1")

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	patientIn := day.Add(8 * time.Hour)
	patientOut := day.Add(9 * time.Hour)

	// A fully recorded case.
	complete := uuid.New()
	exec(t, pool, `INSERT INTO orbit.cases
		(case_id, surgeon_id, procedure_id, room_id, scheduled_date, scheduled_start, patient_in_at, patient_out_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		complete, surgeon, procedure, room, day, patientIn, patientIn, patientOut)

	// A case with nothing recorded yet.
	pending := uuid.New()
	exec(t, pool, `INSERT INTO orbit.cases
		(case_id, surgeon_id, procedure_id, room_id, scheduled_date)
		VALUES ($1, $2, $3, $4, $5)`,
		pending, surgeon, procedure, room, day.AddDate(0, 0, 1))

	// A case outside the requested period.
	outside := uuid.New()
	exec(t, pool, `INSERT INTO orbit.cases
		(case_id, surgeon_id, procedure_id, room_id, scheduled_date)
		VALUES ($1, $2, $3, $4, $5)`,
		outside, surgeon, procedure, room, day.AddDate(0, 1, 0))

	exec(t, pool, `INSERT INTO orbit.case_financials
		(case_id, profit_cents, reimbursement_cents, or_cost_cents, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)`,
		complete, int64(120000), int64(500000), int64(380000), 60.0)

	attributer := uuid.New()
	exec(t, pool, `INSERT INTO orbit.case_flags (case_id, flag_type, severity, attributed_to)
		VALUES ($1, 'delay', 'major', $2)`, complete, attributer)
	exec(t, pool, `INSERT INTO orbit.case_flags (case_id, flag_type, severity)
		VALUES ($1, 'delay', 'minor')`, pending)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := store.LoadPeriod(ctx, pool, log, from, to)
	if err != nil {
		t.Fatalf("LoadPeriod: %v", err)
	}

	if len(data.Period.Cases) != 2 {
		t.Fatalf("cases = %d, want 2 (out-of-period case excluded)", len(data.Period.Cases))
	}
	for _, c := range data.Period.Cases {
		if c.ID == outside {
			t.Fatal("out-of-period case returned")
		}
	}

	var gotComplete, gotPending bool
	for _, c := range data.Period.Cases {
		switch c.ID {
		case complete:
			gotComplete = true
			if c.PatientIn == nil || !c.PatientIn.Equal(patientIn) {
				t.Errorf("patient_in = %v, want %v", c.PatientIn, patientIn)
			}
			if d := c.Duration(); d == nil || *d != 60 {
				t.Errorf("duration = %v, want 60", d)
			}
		case pending:
			gotPending = true
			if c.ScheduledStart != nil || c.PatientIn != nil || c.PatientOut != nil {
				t.Error("pending case should have nil timestamps")
			}
		}
	}
	if !gotComplete || !gotPending {
		t.Fatalf("missing expected cases: complete=%v pending=%v", gotComplete, gotPending)
	}

	if len(data.Period.Financials) != 1 {
		t.Fatalf("financials = %d, want 1", len(data.Period.Financials))
	}
	if data.Period.Financials[0].ProfitCents != 120000 {
		t.Errorf("profit = %d, want 120000", data.Period.Financials[0].ProfitCents)
	}

	if len(data.Period.Flags) != 2 {
		t.Fatalf("flags = %d, want 2", len(data.Period.Flags))
	}
	for _, fl := range data.Period.Flags {
		switch fl.CaseID {
		case complete:
			if !fl.Attributed() || *fl.AttributedTo != attributer {
				t.Errorf("expected attributed flag, got %+v", fl)
			}
		case pending:
			if fl.Attributed() {
				t.Errorf("expected system-detected flag, got %+v", fl)
			}
		}
	}

	if data.SurgeonNames[surgeon] != "Dr. Okafor" {
		t.Errorf("surgeon name = %q", data.SurgeonNames[surgeon])
	}
	if data.ProcedureNames[procedure] != "Knee Arthroscopy" {
		t.Errorf("procedure name = %q", data.ProcedureNames[procedure])
	}
}

func TestLoadPeriod_EmptyPeriod(t *testing.T) {
	pool := setupDB(t)
	log := logging.Setup("text")

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data, err := store.LoadPeriod(context.Background(), pool, log, from, to)
	if err != nil {
		t.Fatalf("LoadPeriod: %v", err)
	}
	if len(data.Period.Cases) != 0 || len(data.Period.Financials) != 0 || len(data.Period.Flags) != 0 {
		t.Errorf("expected empty period, got %d/%d/%d",
			len(data.Period.Cases), len(data.Period.Financials), len(data.Period.Flags))
	}
}
