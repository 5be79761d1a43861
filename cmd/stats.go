package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/interviewday/board/config"
	"github.com/interviewday/board/connectors/engine"
	"github.com/interviewday/board/core/board"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Fetch a schedule from the engine and print its statistics",
	RunE:  printStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printStats(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cli, err := engine.New(cfg.Engine)
	if err != nil {
		return fmt.Errorf("engine client: %w", err)
	}
	sched, err := cli.GenerateSchedule(ctx)
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}

	s := board.Summarize(sched)
	fmt.Printf("average rank:        %.2f\n", s.AverageRank)
	fmt.Printf("appointments filled: %d/%d\n", s.NoAttendeesChosen, s.NoAppointments)
	fmt.Printf("total utility:       %.2f\n", s.TotalUtility)
	fmt.Printf("variance (engine):   %.4f\n", s.VarNoAppointments)
	fmt.Printf("variance (derived):  %.4f\n", s.VarAppointmentsPerAtt)
	return nil
}
