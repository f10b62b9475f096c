package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/record"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage scouting records",
	}

	cmd.AddCommand(newRecordAddCmd())
	return cmd
}

func newRecordAddCmd() *cobra.Command {
	var (
		configPath string
		id         string
	)

	cmd := &cobra.Command{
		Use:   "add <type> <file|->",
		Short: "Store a scouting record",
		Long: `Stores a flat JSON object as a record of the given type under <type>-<id>.
The id defaults to a random UUID. Pit forms use the team number as the id:

  pw record add pit form.json --id 254`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecordAdd(cmd, configPath, args[0], args[1], id)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&id, "id", "", "record id (default: random UUID)")
	return cmd
}

func runRecordAdd(cmd *cobra.Command, configPath, reportType, path, id string) error {
	if !keys.ValidCategory(reportType) || reportType == keys.CategoryTeams {
		return fmt.Errorf("invalid record type %q", reportType)
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	var rec record.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%s: expected a JSON object: %w", path, err)
	}
	if rec == nil {
		return fmt.Errorf("%s: expected a JSON object, got null", path)
	}
	if id == "" {
		id = uuid.NewString()
	}

	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	key := keys.Record(reportType, id)
	if err := st.Set(key, rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%d fields)\n", key, len(rec))
	return nil
}
