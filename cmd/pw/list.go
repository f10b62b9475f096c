package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/editor"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

func newListCmd() *cobra.Command {
	var (
		configPath string
		candidates bool
	)

	cmd := &cobra.Command{
		Use:   "list <name>",
		Short: "Show or edit a settings list",
		Long: `Shows one of the editable settings lists: favorites, smart_stats or
smart_results. Every change is saved immediately.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: editor.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, configPath, args[0], candidates)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&candidates, "candidates", false, "for favorites, also list fields that can be added")
	cmd.AddCommand(newListRmCmd())
	cmd.AddCommand(newListAddCmd())
	return cmd
}

// openList opens a settings session and the editor for name.
func openList(configPath, name string) (*settings.Session, editor.ListEditor, error) {
	ed, err := editor.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	sess, err := openSession(configPath)
	if err != nil {
		return nil, nil, err
	}
	return sess, ed, nil
}

func runList(cmd *cobra.Command, configPath, name string, candidates bool) error {
	sess, ed, err := openList(configPath, name)
	if err != nil {
		return err
	}
	printView(cmd, ed.List(sess))

	if candidates && ed.Name() == editor.Favorites {
		return printCandidates(cmd, sess.Store(), sess.Settings().Favorites)
	}
	return nil
}

func printView(cmd *cobra.Command, v editor.View) {
	out := cmd.OutOrStdout()
	if len(v.Items) == 0 {
		fmt.Fprintf(out, "%s is empty.\n", editor.DisplayName(v.Name))
		return
	}
	rows := make([][]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = []string{strconv.Itoa(it.Index), it.Label, entryDetail(it.Entry)}
	}
	printTable(out, []string{"index", "name", "detail"}, rows)
}

func entryDetail(entry any) string {
	switch e := entry.(type) {
	case string:
		return e
	case settings.SmartStat:
		return fmt.Sprintf("%s: %s", e.Type, e.Expr)
	case settings.SmartResult:
		detail := fmt.Sprintf("%s: %s(%s)", e.Type, e.Agg, e.Field)
		if e.GroupBy != "" {
			detail += " by " + e.GroupBy
		}
		return detail
	}
	return ""
}

func printCandidates(cmd *cobra.Command, st store.Store, current []string) error {
	cands, err := editor.FavoriteCandidates(st, current)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(cands) == 0 {
		fmt.Fprintln(out, "\nNo fields available to add.")
		return nil
	}
	fmt.Fprintln(out, "\nAvailable fields:")
	for _, c := range cands {
		fmt.Fprintf(out, "  %s (%s)\n", c.Key, c.Label)
	}
	return nil
}

func newListRmCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "rm <name> <index>",
		Short: "Delete an entry from a settings list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListRm(cmd, configPath, args[0], args[1], yes)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runListRm(cmd *cobra.Command, configPath, name, indexArg string, yes bool) error {
	i, err := strconv.Atoi(indexArg)
	if err != nil {
		return fmt.Errorf("index must be a number, got %q", indexArg)
	}
	sess, ed, err := openList(configPath, name)
	if err != nil {
		return err
	}

	if !yes && interactive(cmd) {
		items := ed.List(sess).Items
		if i >= 0 && i < len(items) {
			if !confirm(cmd, fmt.Sprintf("Delete %q from %s?", items[i].Label, ed.Name())) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
	}

	view, err := ed.Delete(sess, i)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d from %s\n", i, ed.Name())
	printView(cmd, view)
	return nil
}

func newListAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry to a settings list",
	}

	cmd.AddCommand(newListAddFavoriteCmd())
	cmd.AddCommand(newListAddSmartStatCmd())
	cmd.AddCommand(newListAddSmartResultCmd())
	return cmd
}

func newListAddFavoriteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "favorites <field>",
		Short: "Add a field to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(configPath)
			if err != nil {
				return err
			}
			return addEntry(cmd, func() (editor.View, error) {
				return editor.NewFavorites().Add(sess, args[0])
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newListAddSmartStatCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "smart_stats <name> <type> <expr>",
		Short: "Add a derived per-record statistic",
		Long: `Adds a smart stat: an expression over a record's fields evaluated for every
record of the type and shown as an extra report column.

  pw list add smart_stats total_points match "auto_points + teleop_points"`,
		Aliases: []string{"smart-stats"},
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(configPath)
			if err != nil {
				return err
			}
			st := settings.SmartStat{Name: args[0], Type: args[1], Expr: args[2]}
			return addEntry(cmd, func() (editor.View, error) {
				return editor.NewSmartStats().Add(sess, st)
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newListAddSmartResultCmd() *cobra.Command {
	var (
		configPath string
		groupBy    string
	)

	cmd := &cobra.Command{
		Use:   "smart_results <name> <type> <field> <agg>",
		Short: "Add a per-group aggregate",
		Long: `Adds a smart result aggregating one numeric field of a record type per group.
agg is one of mean, sum, min, max or count; records are grouped by team unless
--group-by names another field.`,
		Aliases: []string{"smart-results"},
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(configPath)
			if err != nil {
				return err
			}
			res := settings.SmartResult{Name: args[0], Type: args[1], Field: args[2], Agg: args[3], GroupBy: groupBy}
			return addEntry(cmd, func() (editor.View, error) {
				return editor.NewSmartResults().Add(sess, res)
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&groupBy, "group-by", "", "field to group by (default: team)")
	return cmd
}

func openSession(configPath string) (*settings.Session, error) {
	_, st, err := openStore(configPath)
	if err != nil {
		return nil, err
	}
	return settings.Open(st)
}

func addEntry(cmd *cobra.Command, add func() (editor.View, error)) error {
	view, err := add()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added to %s\n", view.Name)
	printView(cmd, view)
	return nil
}
