package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/tui"
)

func dashCmd() *cobra.Command {
	var (
		refresh time.Duration
		theme   string
	)
	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd, func(ctx context.Context, engine *analytics.Engine, userID string) error {
				return tui.Run(ctx, engine, userID,
					tui.WithRefreshInterval(refresh),
					tui.WithTheme(theme))
			})
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", time.Minute, "reload interval, 0 to disable")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")
	return cmd
}
