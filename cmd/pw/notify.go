package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/config"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/notify"
	"github.com/zulandar/pitwall/internal/notify/discord"
	"github.com/zulandar/pitwall/internal/notify/slack"
)

// posters builds a poster for every chat platform with a bot token.
func posters(cfg *config.Config) ([]notify.Poster, error) {
	var out []notify.Poster
	if c := cfg.Notify.Slack; c.BotToken != "" {
		p, err := slack.New(slack.PosterOpts{BotToken: c.BotToken, ChannelID: c.Channel})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if c := cfg.Notify.Discord; c.BotToken != "" {
		p, err := discord.New(discord.PosterOpts{BotToken: c.BotToken, ChannelID: c.Channel})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func newDigestCmd() *cobra.Command {
	var (
		configPath string
		mode       string
	)

	cmd := &cobra.Command{
		Use:   "digest [event]",
		Short: "Post a scouting coverage digest now",
		Long: `Posts the event's scouting coverage to every configured chat platform.
The event defaults to notify.event from the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event := ""
			if len(args) == 1 {
				event = args[0]
			}
			return runDigest(cmd, configPath, event, mode)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&mode, "mode", "", "form mode (default: notify.mode)")
	return cmd
}

func runDigest(cmd *cobra.Command, configPath, event, mode string) error {
	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	if event == "" {
		event = cfg.Notify.Event
	}
	if event == "" {
		return fmt.Errorf("event is required (argument or notify.event)")
	}
	if mode == "" {
		mode = cfg.Notify.Mode
	}
	if mode == "" {
		mode = keys.ModePit
	}

	ps, err := posters(cfg)
	if err != nil {
		return err
	}
	if err := notify.SendDigest(context.Background(), st, event, mode, ps); err != nil {
		return err
	}
	for _, p := range ps {
		fmt.Fprintf(cmd.OutOrStdout(), "Digest for %s posted to %s\n", event, p.Platform())
	}
	return nil
}
