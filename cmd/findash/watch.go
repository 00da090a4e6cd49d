package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/cli"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/model"
	"github.com/Mujtaba19938/FINDASH/internal/notify"
	"github.com/Mujtaba19938/FINDASH/internal/watch"
)

type watchRow struct {
	UserID  string          `json:"user_id"`
	Level   model.RiskLevel `json:"level,omitempty"`
	Error   string          `json:"error,omitempty"`
	Score   float64         `json:"score"`
	Alerted bool            `json:"alerted"`
}

func watchCmd() *cobra.Command {
	var (
		schedule string
		level    string
		once     bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check risk on a schedule and e-mail alerts",
		Long: `Score every watched user on a cron schedule and e-mail an alert when risk
reaches the alert level. Users come from watch.users, or --user when unset.
Without smtp settings breaches are only logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schedule == "" {
				schedule = appConfig.Watch.Schedule
			}
			if level == "" {
				level = appConfig.Watch.AlertLevel
			}
			if !once {
				if err := watch.ValidateSchedule(schedule); err != nil {
					return common.NewUserError(err.Error(), err)
				}
			}

			users := appConfig.Watch.Users
			if len(users) == 0 {
				userID, err := resolveUser()
				if err != nil {
					return err
				}
				users = []string{userID}
			}

			var alerter watch.Alerter
			if appConfig.SMTPEnabled() {
				mailer, err := notify.NewMailer(appConfig.NotifyConfig(), nil)
				if err != nil {
					return common.NewUserError("SMTP is misconfigured: "+err.Error(), err)
				}
				alerter = mailer
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx, appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			monitor, err := watch.NewMonitor(analytics.New(store, analytics.WithClock(timeNow)), alerter, users, model.RiskLevel(level), nil)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}

			if once {
				rows := watchRows(monitor.Check(ctx))
				return render(cmd, rows, func(w io.Writer) error {
					return renderWatch(w, rows)
				})
			}
			return monitor.Run(ctx, schedule)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (default watch.schedule)")
	cmd.Flags().StringVar(&level, "alert-level", "", "lowest level that alerts (default watch.alert_level)")
	cmd.Flags().BoolVar(&once, "once", false, "check once and exit")
	return cmd
}

func watchRows(results []watch.Result) []watchRow {
	rows := make([]watchRow, 0, len(results))
	for _, r := range results {
		row := watchRow{UserID: r.UserID, Level: r.Level, Score: r.Score, Alerted: r.Alerted}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func renderWatch(w io.Writer, rows []watchRow) error {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		status := "-"
		switch {
		case r.Error != "":
			status = cli.FormatError(r.Error)
		case r.Alerted:
			status = cli.FormatWarning("alerted")
		}
		table = append(table, []string{r.UserID, cli.FormatRisk(r.Level), fmt.Sprintf("%.2f", r.Score), status})
	}
	_, err := fmt.Fprintln(w, cli.Table([]string{"User", "Risk", "Score", "Alert"}, table))
	return err
}

var _ watch.Alerter = (*notify.Mailer)(nil)
