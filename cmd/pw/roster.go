package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/dashboard"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/roster"
)

func newRosterCmd() *cobra.Command {
	var (
		configPath string
		mode       string
		pending    bool
	)

	cmd := &cobra.Command{
		Use:   "roster <event>",
		Short: "Show the event's teams and their scouting status",
		Long: `Lists every team on the event's team list in order, marking a team scouted
once its <mode>-<team> form has been stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(cmd, configPath, args[0], mode, pending)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&mode, "mode", keys.ModePit, "form mode used to derive status")
	cmd.Flags().BoolVar(&pending, "pending", false, "only list teams still to scout")
	cmd.AddCommand(newRosterOpenCmd())
	return cmd
}

func runRoster(cmd *cobra.Command, configPath, event, mode string, pending bool) error {
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	r, err := roster.Build(st, event, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(r.Entries) == 0 {
		fmt.Fprintf(out, "No teams loaded for %s.\n", event)
		return nil
	}

	entries := r.Entries
	if pending {
		entries = r.Pending()
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(e.TeamNumber), e.Nickname, string(e.Status)}
	}
	printTable(out, []string{"team", "nickname", "status"}, rows)

	scouted, total := r.Coverage()
	fmt.Fprintf(out, "\n%d/%d teams scouted\n", scouted, total)
	return nil
}

func newRosterOpenCmd() *cobra.Command {
	var (
		configPath string
		mode       string
		baseURL    string
	)

	cmd := &cobra.Command{
		Use:   "open <event> <team>",
		Short: "Print the scouting page link for a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterOpen(cmd, configPath, args[0], args[1], mode, baseURL)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&mode, "mode", keys.ModePit, "form mode")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "dashboard URL to prefix the link with")
	return cmd
}

func runRosterOpen(cmd *cobra.Command, configPath, event, teamArg, mode, baseURL string) error {
	team, err := strconv.Atoi(teamArg)
	if err != nil {
		return fmt.Errorf("team must be a number, got %q", teamArg)
	}
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	r, err := roster.Build(st, event, mode)
	if err != nil {
		return err
	}
	q, err := r.Open(team)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s?%s\n", baseURL, dashboard.ScoutPath, q.Encode())
	return nil
}
