package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orbithealth/orbitscore/internal/db"
	"github.com/orbithealth/orbitscore/internal/exitcode"
	"github.com/orbithealth/orbitscore/internal/export"
	"github.com/orbithealth/orbitscore/internal/logging"
	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/score"
	"github.com/orbithealth/orbitscore/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute ORbit scorecards for a period",
	RunE:  runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&cfg.From, "from", "", "Period start date, inclusive (YYYY-MM-DD, required)")
	f.StringVar(&cfg.To, "to", "", "Period end date, exclusive (YYYY-MM-DD, required)")
	f.StringVar(&cfg.PrevFrom, "prev-from", "", "Previous period start date for trend comparison")
	f.StringVar(&cfg.PrevTo, "prev-to", "", "Previous period end date for trend comparison")
	f.StringVar(&cfg.Label, "label", "", "Display label for the period (defaults to the date range)")
	f.StringVar(&cfg.SettingsPath, "settings", "", "Facility scoring settings YAML (defaults built in)")
	f.StringVar(&cfg.OutParquet, "out-parquet", "", "Write scorecards to a Parquet file")
	f.StringVar(&cfg.OutCSV, "out-csv", "", "Write scorecards to a CSV file")
	_ = scoreCmd.MarkFlagRequired("from")
	_ = scoreCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	settings, err := cfg.LoadSettings()
	if err != nil {
		log.Error().Err(err).Msg("settings validation failed")
		os.Exit(exitcode.ValidationError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	from, to, _ := cfg.PeriodRange()
	current, err := store.LoadPeriod(ctx, pool, log, from, to)
	if err != nil {
		log.Error().Err(err).Msg("period load failed")
		os.Exit(exitcode.QueryError)
	}

	in := score.Input{
		Period:         current.Period,
		Settings:       settings,
		SurgeonNames:   current.SurgeonNames,
		ProcedureNames: current.ProcedureNames,
	}

	if prevFrom, prevTo, ok, rangeErr := cfg.PreviousRange(); rangeErr != nil {
		log.Error().Err(rangeErr).Msg("previous period range invalid")
		os.Exit(exitcode.UsageError)
	} else if ok {
		previous, loadErr := store.LoadPeriod(ctx, pool, log, prevFrom, prevTo)
		if loadErr != nil {
			log.Error().Err(loadErr).Msg("previous period load failed")
			os.Exit(exitcode.QueryError)
		}
		in.Previous = &previous.Period
	}

	cards := score.Score(in)
	label := cfg.DisplayLabel()
	printScorecards(label, cards)

	if cfg.OutParquet != "" {
		if err := export.WriteParquet(cfg.OutParquet, label, cards); err != nil {
			log.Error().Err(err).Msg("parquet export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", cfg.OutParquet).Msg("parquet export written")
	}
	if cfg.OutCSV != "" {
		if err := export.WriteCSVFile(cfg.OutCSV, label, cards); err != nil {
			log.Error().Err(err).Msg("csv export failed")
			os.Exit(exitcode.ExportError)
		}
		log.Info().Str("path", cfg.OutCSV).Msg("csv export written")
	}

	return nil
}

func printScorecards(label string, cards []model.Scorecard) {
	fmt.Printf("=== ORbit scorecards: %s ===\n", label)
	if len(cards) == 0 {
		fmt.Println("No eligible surgeons in this period.")
		return
	}

	fmt.Printf("%-38s %5s  %5s %5s %5s %5s  %5s %-6s %-7s\n",
		"Surgeon", "Cases", "Prof", "Cons", "Sched", "Avail", "Score", "Grade", "Trend")
	for _, card := range cards {
		name := card.SurgeonName
		if name == "" {
			name = card.SurgeonID.String()
		}
		trend := string(card.Trend)
		if card.PreviousComposite != nil {
			trend = fmt.Sprintf("%s (%d)", card.Trend, *card.PreviousComposite)
		}
		fmt.Printf("%-38s %5d  %5.1f %5.1f %5.1f %5.1f  %5d %-6s %-7s\n",
			name, card.CaseCount,
			card.Profitability, card.Consistency, card.ScheduleAdherence, card.Availability,
			card.Composite, card.Grade.Letter+"/"+card.Grade.Label, trend)
	}
}
