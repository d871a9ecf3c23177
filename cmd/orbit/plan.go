package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orbithealth/orbitscore/internal/db"
	"github.com/orbithealth/orbitscore/internal/exitcode"
	"github.com/orbithealth/orbitscore/internal/logging"
	"github.com/orbithealth/orbitscore/internal/model"
	"github.com/orbithealth/orbitscore/internal/score"
	"github.com/orbithealth/orbitscore/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run data coverage report for a period (no scoring)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.From, "from", "", "Period start date, inclusive (YYYY-MM-DD, required)")
	f.StringVar(&cfg.To, "to", "", "Period end date, exclusive (YYYY-MM-DD, required)")
	f.StringVar(&cfg.SettingsPath, "settings", "", "Facility scoring settings YAML (defaults built in)")
	_ = planCmd.MarkFlagRequired("from")
	_ = planCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	data, err := store.LoadPeriod(ctx, pool, log, from, to)
	if err != nil {
		log.Error().Err(err).Msg("period load failed")
		os.Exit(exitcode.QueryError)
	}

	cases := data.Period.Cases

	financed := make(map[uuid.UUID]bool, len(data.Period.Financials))
	for _, f := range data.Period.Financials {
		financed[f.CaseID] = true
	}

	var withFinancials, withDuration, withStart, withPrepGap int
	caseCounts := make(map[uuid.UUID]int)
	for i := range cases {
		c := &cases[i]
		caseCounts[c.SurgeonID]++
		if financed[c.ID] {
			withFinancials++
		}
		if c.Duration() != nil {
			withDuration++
		}
		if c.ScheduledStart != nil && c.ActualStart(settings.StartMilestone) != nil {
			withStart++
		}
		if c.PrepGap() != nil {
			withPrepGap++
		}
	}

	delayFlags := 0
	for _, fl := range data.Period.Flags {
		if fl.Type == model.FlagDelay && fl.Attributed() {
			delayFlags++
		}
	}

	eligible := 0
	for _, n := range caseCounts {
		if n >= score.MinCasesForScorecard {
			eligible++
		}
	}

	fmt.Println("=== orbit plan ===")
	fmt.Printf("Period:                %s to %s\n", cfg.From, cfg.To)
	fmt.Printf("Cases:                 %d\n", len(cases))
	fmt.Printf("Surgeons:              %d (%d eligible at >=%d cases)\n",
		len(caseCounts), eligible, score.MinCasesForScorecard)
	fmt.Println()
	fmt.Println("Coverage:")
	fmt.Printf("  financial records:   %d\n", withFinancials)
	fmt.Printf("  complete durations:  %d\n", withDuration)
	fmt.Printf("  scorable starts:     %d (milestone %s)\n", withStart, settings.StartMilestone)
	fmt.Printf("  prep-gap scorable:   %d\n", withPrepGap)
	fmt.Printf("  attributed delays:   %d\n", delayFlags)

	return nil
}
