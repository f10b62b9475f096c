package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/publish"
)

func newPublishCmd() *cobra.Command {
	var (
		configPath string
		favorites  bool
	)

	cmd := &cobra.Command{
		Use:   "publish <type>",
		Short: "Publish a report as a secret GitHub gist",
		Long: `Uploads the report for a type as CSV to a new secret gist and prints its URL.
The token comes from publish.github_token or the GITHUB_TOKEN environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, configPath, args[0], favorites)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only include favorite fields")
	return cmd
}

func runPublish(cmd *cobra.Command, configPath, reportType string, favorites bool) error {
	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	token := cfg.Publish.GitHubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no GitHub token: set publish.github_token or GITHUB_TOKEN")
	}

	t, err := buildReport(cfg, st, reportType, favorites)
	if err != nil {
		return err
	}
	ctx := context.Background()
	p, err := publish.New(ctx, token, nil)
	if err != nil {
		return err
	}
	link, err := p.Gist(ctx, reportType, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d %s rows to %s\n", len(t.Rows), reportType, link)
	return nil
}
