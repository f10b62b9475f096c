package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/keys"
)

func newPutCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "put <key> <file|->",
		Short: "Store a JSON document under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(cmd, configPath, args[0], args[1])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runPut(cmd *cobra.Command, configPath, key, path string) error {
	if key == keys.SettingsKey {
		return fmt.Errorf("settings are edited with 'pw list'")
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", path)
	}

	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	if err := st.Set(key, json.RawMessage(bytes.TrimSpace(data))); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", key)
	return nil
}

func newGetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the JSON document stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runGet(cmd *cobra.Command, configPath, key string) error {
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	raw, found, err := st.Get(key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no value stored under %s", key)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return nil
}

func newKeysCmd() *cobra.Command {
	var (
		configPath string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List stored keys",
		Long:  "Lists every stored key, or with --category the keys of one category in first-write order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd, configPath, category)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&category, "category", "", "only keys in this category (e.g. pit, match, teams)")
	return cmd
}

func runKeys(cmd *cobra.Command, configPath, category string) error {
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	var ks []string
	if category != "" {
		ks, err = st.KeysIn(category)
	} else {
		ks, err = st.Keys()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ks) == 0 {
		fmt.Fprintln(out, "No keys found.")
		return nil
	}
	for _, k := range ks {
		fmt.Fprintln(out, k)
	}
	return nil
}

func newRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runRm(cmd *cobra.Command, configPath, key string) error {
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	_, found, err := st.Get(key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no value stored under %s", key)
	}
	if err := st.Delete(key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", key)
	return nil
}
