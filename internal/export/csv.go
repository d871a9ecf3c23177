package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/orbithealth/orbitscore/internal/model"
)

var csvHeader = []string{
	"period", "surgeon_id", "surgeon_name", "case_count", "procedures",
	"flip_rooms", "profitability", "consistency", "schedule_adherence",
	"availability", "composite", "grade", "grade_label", "trend",
	"previous_composite",
}

// WriteCSVFile writes the scorecards as CSV to path.
func WriteCSVFile(path, period string, cards []model.Scorecard) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, period, cards); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the scorecards as CSV to w, header first.
func WriteCSV(w io.Writer, period string, cards []model.Scorecard) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, card := range cards {
		prev := ""
		if card.PreviousComposite != nil {
			prev = strconv.Itoa(*card.PreviousComposite)
		}
		record := []string{
			period,
			card.SurgeonID.String(),
			card.SurgeonName,
			strconv.Itoa(card.CaseCount),
			procedureList(card.Procedures),
			strconv.FormatBool(card.UsesFlipRooms),
			formatScore(card.Profitability),
			formatScore(card.Consistency),
			formatScore(card.ScheduleAdherence),
			formatScore(card.Availability),
			strconv.Itoa(card.Composite),
			card.Grade.Letter,
			card.Grade.Label,
			string(card.Trend),
			prev,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
