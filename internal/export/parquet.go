// Package export writes scorecards for the dashboard and spreadsheet
// collaborators: a flat Parquet file for analytics and CSV for exports.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/orbithealth/orbitscore/internal/model"
)

// ScorecardRow mirrors the Parquet schema for one exported scorecard.
// Pillar scores stay float64; composite values are int32 like their
// rounded in-memory form.
type ScorecardRow struct {
	Period      string `parquet:"period"`
	SurgeonID   string `parquet:"surgeon_id"`
	SurgeonName string `parquet:"surgeon_name,optional"`

	CaseCount  int32  `parquet:"case_count"`
	Procedures string `parquet:"procedures"`
	FlipRooms  bool   `parquet:"flip_rooms"`

	Profitability     float64 `parquet:"profitability"`
	Consistency       float64 `parquet:"consistency"`
	ScheduleAdherence float64 `parquet:"schedule_adherence"`
	Availability      float64 `parquet:"availability"`

	Composite  int32  `parquet:"composite"`
	Grade      string `parquet:"grade"`
	GradeLabel string `parquet:"grade_label"`

	Trend             string `parquet:"trend"`
	PreviousComposite *int32 `parquet:"previous_composite,optional"`
}

// WriteParquet writes the scorecards to a Parquet file at path.
func WriteParquet(path, period string, cards []model.Scorecard) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[ScorecardRow](f)

	rows := make([]ScorecardRow, len(cards))
	for i, card := range cards {
		rows[i] = toRow(period, card)
	}
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			f.Close()
			return fmt.Errorf("write parquet rows: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func toRow(period string, card model.Scorecard) ScorecardRow {
	row := ScorecardRow{
		Period:            period,
		SurgeonID:         card.SurgeonID.String(),
		SurgeonName:       card.SurgeonName,
		CaseCount:         int32(card.CaseCount),
		Procedures:        procedureList(card.Procedures),
		FlipRooms:         card.UsesFlipRooms,
		Profitability:     card.Profitability,
		Consistency:       card.Consistency,
		ScheduleAdherence: card.ScheduleAdherence,
		Availability:      card.Availability,
		Composite:         int32(card.Composite),
		Grade:             card.Grade.Letter,
		GradeLabel:        card.Grade.Label,
		Trend:             string(card.Trend),
	}
	if card.PreviousComposite != nil {
		prev := int32(*card.PreviousComposite)
		row.PreviousComposite = &prev
	}
	return row
}

// procedureList flattens procedure counts into "Name (n); Name (n)".
func procedureList(procs []model.ProcedureCount) string {
	parts := make([]string, len(procs))
	for i, p := range procs {
		parts[i] = fmt.Sprintf("%s (%d)", p.Name, p.Count)
	}
	return strings.Join(parts, "; ")
}
