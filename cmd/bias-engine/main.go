package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
	"golang-fundamental-bias/pkg/common"
	"golang-fundamental-bias/pkg/logger"

	"github.com/spf13/cobra"
)

// Exit codes of the events command.
const (
	exitOK         = 0
	exitFailed     = 1
	exitNewEvents  = 3
	exitHighImpact = 4
)

var (
	configPath string
	runMode    string
	highImpact bool
	recalc     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one scoring pass (weekly or hourly)",
	Run: func(cmd *cobra.Command, args []string) {
		mode := entity.RunMode(runMode)
		if mode != entity.ModeWeekly && mode != entity.ModeHourly {
			fmt.Fprintf(os.Stderr, "unknown mode %q, expected weekly or hourly\n", runMode)
			os.Exit(exitFailed)
		}
		os.Exit(runOnce(cmd.Context(), mode, recalcNone, func(*entity.BiasRun) int { return exitOK }))
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Ingests newly released calendar events",
	Long: `Ingests newly released calendar events and updates the economic ledger.
Exit codes: 0 no new events, 3 new low/medium impact events, 4 new high-impact
events (a full recompute is due). With --recalc the hourly recompute runs
in-process and the command exits 0 once it succeeded, 4 when it failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		mode := entity.ModeEvents
		if highImpact {
			mode = entity.ModeHighImpact
		}
		strategyRecalc := recalcNone
		if recalc {
			strategyRecalc = recalcInProcess
		}
		os.Exit(runOnce(cmd.Context(), mode, strategyRecalc, eventsRunExitCode))
	},
}

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Classifies the market drivers from the latest scores",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runOnce(cmd.Context(), entity.ModeDrivers, recalcNone, func(*entity.BiasRun) int { return exitOK }))
	},
}

// runOnce executes a single run and maps it to a process exit code.
func runOnce(ctx context.Context, mode entity.RunMode, onHighImpact recalcMode, exitCode func(*entity.BiasRun) int) int {
	a, err := loadApp(onHighImpact)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return exitFailed
	}
	defer a.Close()
	defer a.pushMetrics()

	runCtx, cancel := context.WithTimeout(ctx, a.cfg.Scheduler.RunTimeout)
	defer cancel()

	run, err := a.runService.Execute(runCtx, dto.RunRequest{Mode: mode, Trigger: common.TriggerCLI})
	if err != nil {
		a.logger.Error("Run failed", logger.ErrorField(err), logger.StringField("mode", string(mode)))
		return exitFailed
	}
	return exitCode(run)
}

// eventsRunExitCode reads the recompute outcome recorded in the run output.
func eventsRunExitCode(run *entity.BiasRun) int {
	var output dto.EventsOutput
	if len(run.Output) > 0 {
		if err := json.Unmarshal(run.Output, &output); err != nil {
			fmt.Fprintf(os.Stderr, "failed to decode events output of run %s: %v\n", run.RunID, err)
		}
	}
	return eventsExitCode(dto.Signal(run.Signal.String), output.Recalculated && output.RecalcError == "")
}

func eventsExitCode(signal dto.Signal, recalculated bool) int {
	switch signal {
	case dto.SignalHighImpact:
		if recalculated {
			return exitOK
		}
		return exitHighImpact
	case dto.SignalNewEvents:
		return exitNewEvents
	default:
		return exitOK
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bias-engine",
		Short: "Fundamental bias engine for currencies, pairs and indices",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	runCmd.Flags().StringVar(&runMode, "mode", string(entity.ModeWeekly), "Scoring mode: weekly or hourly")
	eventsCmd.Flags().BoolVar(&highImpact, "high-impact", false, "Only ingest high-impact events")
	eventsCmd.Flags().BoolVar(&recalc, "recalc", false, "Run the hourly recompute in-process on high-impact releases")

	rootCmd.AddCommand(runCmd, eventsCmd, driversCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing bias-engine CLI: %s\n", err)
		os.Exit(exitFailed)
	}
}
