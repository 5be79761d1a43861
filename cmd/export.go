package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/interviewday/board/config"
	"github.com/interviewday/board/connectors/engine"
	"github.com/interviewday/board/infra/logger"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch a schedule from the engine and save the exported file",
	RunE:  exportSchedule,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "directory to write the exported file into")
	rootCmd.AddCommand(exportCmd)
}

func exportSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("export-command")
	cli, err := engine.New(cfg.Engine)
	if err != nil {
		return fmt.Errorf("engine client: %w", err)
	}

	sched, err := cli.GenerateSchedule(ctx)
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}
	logg.Infof("fetched schedule: %d attendees, %d appointments", len(sched.Attendees), sched.NoAppointments)

	exp, err := cli.WriteSchedule(ctx, sched)
	if err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	defer func() { _ = exp.Body.Close() }()

	dest := filepath.Join(exportDir, exp.Filename)
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(f, exp.Body); err != nil {
		return fmt.Errorf("save %s: %w", dest, err)
	}
	logg.Infof("schedule written to %s", dest)
	return nil
}
