package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// DailyCmd returns the daily command.
func DailyCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("daily", flag.ContinueOnError),
		Usage: "daily",
		Short: "Create or show today's daily section",
		Long: "Create today's daily section if it does not exist yet: due\n" +
			"recurring tasks first (newest due date on top), then unfinished\n" +
			"entries carried over from the previous day. Running it again on\n" +
			"the same day just shows the section.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return app.Store.Update(func(doc *task.Document) error {
				sec, created := task.EnsureDaily(doc, app.Today, app.DailyOptions())

				if created {
					o.Println("created daily section for", task.FormatDate(app.Today))
				} else {
					o.Println("daily section for", task.FormatDate(app.Today), "already exists")
				}

				printDailySection(o, app.Cfg.IconSet, sec)

				return nil
			})
		},
	}
}

func printDailySection(o *IO, iconSet string, sec *task.Section) {
	if len(sec.Tasks) == 0 {
		o.Println("(empty)")
		return
	}

	for _, t := range sec.Tasks {
		origin := t.Origin
		if origin == "" {
			origin = "ad-hoc"
		}

		o.Printf("%s %s %s %s\n", icon(iconSet, t.Status), task.FormatID(t.ID), t.Text, dimStyle.Render(origin))
	}
}

// SyncCmd returns the sync command.
func SyncCmd(app *App) *Command {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.String("date", "", "Sync the daily section for this date (DD-MM-YYYY)")

	return &Command{
		Flags: fs,
		Usage: "sync [flags]",
		Short: "Fold daily statuses back into the main list",
		Long: "Fold the most recent daily section back into MAIN: done entries\n" +
			"complete their main task (recurring tasks just record the\n" +
			"occurrence), in-progress entries refresh the activity date.\n" +
			"Ad-hoc entries are left alone.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return app.Store.Update(func(doc *task.Document) error {
				var (
					report *task.SyncReport
					err    error
				)

				if dateStr, _ := fs.GetString("date"); dateStr != "" {
					day, parseErr := task.ParseDate(dateStr)
					if parseErr != nil {
						return parseErr
					}

					report, err = task.SyncDaily(doc, day)
				} else {
					report, err = task.SyncMostRecent(doc, app.Today)
				}

				if err != nil {
					return err
				}

				for _, id := range report.Missing {
					o.Warn(fmt.Sprintf("entry %s has no main task; it was skipped (re-add it or delete the entry)", task.FormatID(id)))
				}

				o.Printf("synced %s: %d completed, %d progressed\n",
					task.FormatDate(report.Date), report.Completed, report.Progressed)

				return nil
			})
		},
	}
}
