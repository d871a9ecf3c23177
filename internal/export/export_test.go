package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/orbithealth/orbitscore/internal/model"
)

func sampleCards() []model.Scorecard {
	prev := 71
	return []model.Scorecard{
		{
			SurgeonID:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			SurgeonName: "Dr. Reyes",
			CaseCount:   22,
			Procedures: []model.ProcedureCount{
				{Name: "Knee Arthroscopy", Count: 14},
				{Name: "Total Hip Replacement", Count: 8},
			},
			UsesFlipRooms:     true,
			Profitability:     88,
			Consistency:       72.5,
			ScheduleAdherence: 90,
			Availability:      65,
			Composite:         79,
			Grade:             model.Grade{Letter: "C", Label: "Developing"},
			Trend:             model.TrendUp,
			PreviousComposite: &prev,
		},
		{
			SurgeonID:         uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			CaseCount:         17,
			Profitability:     50,
			Consistency:       50,
			ScheduleAdherence: 50,
			Availability:      50,
			Composite:         50,
			Grade:             model.Grade{Letter: "D", Label: "Needs Improvement"},
			Trend:             model.TrendStable,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, "February 2026", sampleCards()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "period" || records[0][10] != "composite" {
		t.Errorf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "February 2026" {
		t.Errorf("period = %q", first[0])
	}
	if first[2] != "Dr. Reyes" {
		t.Errorf("surgeon name = %q", first[2])
	}
	if first[4] != "Knee Arthroscopy (14); Total Hip Replacement (8)" {
		t.Errorf("procedures = %q", first[4])
	}
	if first[10] != "79" || first[11] != "C" {
		t.Errorf("composite/grade = %q/%q", first[10], first[11])
	}
	if first[14] != "71" {
		t.Errorf("previous composite = %q, want 71", first[14])
	}

	second := records[2]
	if second[14] != "" {
		t.Errorf("missing previous composite should be empty, got %q", second[14])
	}
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorecards.parquet")
	if err := WriteParquet(path, "February 2026", sampleCards()); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	stat, _ := f.Stat()
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}

	reader := parquet.NewGenericReader[ScorecardRow](pf)
	defer reader.Close()
	if reader.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", reader.NumRows())
	}

	rows := make([]ScorecardRow, 2)
	if _, err := reader.Read(rows); err != nil && err != io.EOF {
		t.Fatalf("read rows: %v", err)
	}
	if rows[0].SurgeonName != "Dr. Reyes" || rows[0].Composite != 79 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[0].PreviousComposite == nil || *rows[0].PreviousComposite != 71 {
		t.Errorf("previous composite = %v, want 71", rows[0].PreviousComposite)
	}
	if !rows[0].FlipRooms {
		t.Error("flip rooms flag lost")
	}
	if rows[1].PreviousComposite != nil {
		t.Error("second row should have no previous composite")
	}
}

func TestWriteParquet_EmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	if err := WriteParquet(path, "February 2026", nil); err != nil {
		t.Fatalf("WriteParquet with no cards: %v", err)
	}
}
