package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pw",
		Short: "Pitwall: scouting data for robotics competitions",
		Long:  "Pitwall stores per-team scouting records, tracks roster coverage, and tabulates results.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newKeysCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newTeamsCmd())
	cmd.AddCommand(newRecordCmd())
	cmd.AddCommand(newRosterCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDigestCmd())
	cmd.AddCommand(newPublishCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pw %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
