package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/record"
)

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage event team lists",
	}

	cmd.AddCommand(newTeamsImportCmd())
	return cmd
}

func newTeamsImportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <event> <file|->",
		Short: "Import the team list for an event",
		Long: `Stores a JSON array of team objects as the event's team list. Every team
needs an integer team_number; other fields such as nickname are kept as-is.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeamsImport(cmd, configPath, args[0], args[1])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runTeamsImport(cmd *cobra.Command, configPath, event, path string) error {
	if event == "" {
		return fmt.Errorf("event is required")
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	var teams []record.Record
	if err := json.Unmarshal(data, &teams); err != nil {
		return fmt.Errorf("%s: expected a JSON array of teams: %w", path, err)
	}
	for i, t := range teams {
		if _, ok := t.Int("team_number"); !ok {
			return fmt.Errorf("%s: team %d has no integer team_number", path, i)
		}
	}

	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	key := keys.Teams(event)
	if err := st.Set(key, teams); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d teams into %s\n", len(teams), key)
	return nil
}
