package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FashOJ/LogicJudger/internal/runner"
	"github.com/FashOJ/LogicJudger/internal/server"
)

var healthAddr string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the solver locally, or a running server with --addr",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().StringVar(&healthAddr, "addr", "", "Address of a running judger (host:port)")
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if healthAddr != "" {
		return remoteHealth(ctx, cmd)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exe, err := cfg.Solver.ExecutablePath()
	if err != nil {
		return err
	}
	workDir, err := runner.NewWorkDir(cfg.Solver.WorkDir)
	if err != nil {
		return err
	}
	defer workDir.Close()

	h := runner.NewHealthChecker(runner.NewProcessRunner(exe, cfg.Solver.Timeout(), workDir, zap.NewNop())).Check(ctx)
	return printHealth(cmd, exe, h.Up, h.Version, h.Err)
}

func remoteHealth(ctx context.Context, cmd *cobra.Command) error {
	c, err := server.Dial(healthAddr)
	if err != nil {
		return err
	}
	defer c.Close()

	resp, err := c.Health(ctx)
	if err != nil {
		return err
	}
	var herr error
	if resp.Error != "" {
		herr = errors.New(resp.Error)
	}
	if err := printHealth(cmd, healthAddr, resp.Up, resp.Version, herr); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "workers: %d, queued: %d\n", resp.Workers, resp.QueueLength)
	return nil
}

func printHealth(cmd *cobra.Command, target string, up bool, version string, herr error) error {
	out := cmd.OutOrStdout()
	if !up {
		fmt.Fprintf(out, "%s: DOWN\n", target)
		if herr != nil {
			return herr
		}
		return errors.New("solver not available")
	}
	fmt.Fprintf(out, "%s: UP (%s)\n", target, version)
	return nil
}
