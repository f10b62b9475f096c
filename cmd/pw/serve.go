package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/dashboard"
	"github.com/zulandar/pitwall/internal/notify"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard and the digest scheduler",
		Long: `Serves the roster, results and list editors as a JSON API. When notify.schedule
and a chat platform are configured, coverage digests are posted on that schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default: dashboard.port)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Dashboard.Port
	}
	out := cmd.OutOrStdout()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	scheduleDone := make(chan error, 1)
	if cfg.NotifyEnabled() {
		ps, err := posters(cfg)
		if err != nil {
			return err
		}
		go func() {
			scheduleDone <- notify.RunSchedule(ctx, notify.ScheduleOpts{
				Store:    st,
				Schedule: cfg.Notify.Schedule,
				Event:    cfg.Notify.Event,
				Mode:     cfg.Notify.Mode,
				Posters:  ps,
				Out:      out,
			})
		}()
	} else {
		scheduleDone <- nil
	}

	err = dashboard.Start(ctx, dashboard.StartOpts{
		Store:  st,
		Config: cfg,
		Port:   port,
		Out:    out,
	})
	cancel()
	if schedErr := <-scheduleDone; err == nil {
		err = schedErr
	}
	return err
}
