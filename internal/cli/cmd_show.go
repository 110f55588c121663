package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// ListCmd returns the list command.
func ListCmd(app *App) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Bool("all", false, "Include completed tasks")

	return &Command{
		Flags: fs,
		Usage: "list [section] [flags]",
		Short: "List main-list tasks by section",
		Exec: func(_ context.Context, o *IO, args []string) error {
			scope := ""
			if len(args) > 0 {
				scope = normalizeSection(args[0])
			}

			showAll, _ := fs.GetBool("all")

			return app.Store.View(func(doc *task.Document) error {
				main := doc.Section(task.SectionMain)
				if main == nil {
					o.Println("(no main list)")
					return nil
				}

				printed := ""

				main.Walk(func(path string, _ *task.Section, t *task.Task) {
					if scope != "" {
						top, _, _ := strings.Cut(path, ":")
						if top != scope {
							return
						}
					}

					if t.Status == task.Done && !showAll {
						return
					}

					label := path
					if label == "" {
						label = task.SectionMain
					}

					if label != printed {
						if printed != "" {
							o.Println()
						}

						o.Println(label)
						printed = label
					}

					o.Printf("  %s %s %s%s\n",
						icon(app.Cfg.IconSet, t.Status),
						task.FormatID(t.ID),
						t.Text,
						taskFlags(t, app),
					)
				})

				if printed == "" {
					o.Println("(no tasks)")
				}

				return nil
			})
		},
	}
}

// taskFlags renders the trailing annotations of a list row.
func taskFlags(t *task.Task, app *App) string {
	var b strings.Builder

	if t.Recurring() {
		b.WriteString(" " + dimStyle.Render("("+t.Recur.String()+")"))
	}

	if t.Snoozed(app.Today) {
		b.WriteString(" " + dimStyle.Render("zzz "+task.FormatDate(t.Snooze)))
	}

	if !t.Due.IsZero() {
		b.WriteString(" " + warnStyle.Render("due "+task.FormatDate(t.Due)))
	}

	return b.String()
}

// ShowCmd returns the show command.
func ShowCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show one task in full",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			return app.Store.View(func(doc *task.Document) error {
				t := doc.Find(id)
				if t == nil {
					return fmt.Errorf("%w: %s", task.ErrTaskNotFound, task.FormatID(id))
				}

				o.Println(task.FormatID(t.ID), t.Text)
				o.Println("  status:  ", t.Status.String())

				if t.Origin != "" {
					o.Println("  section: ", t.Origin)
				}

				if t.Recurring() {
					o.Println("  recur:   ", t.Recur.String())
				}

				if !t.LastActivity.IsZero() {
					o.Println("  activity:", task.FormatDate(t.LastActivity))
				}

				if !t.Created.IsZero() {
					o.Println("  added:   ", task.FormatDate(t.Created))
				}

				if !t.Snooze.IsZero() {
					o.Println("  snooze:  ", task.FormatDate(t.Snooze))
				}

				if !t.Due.IsZero() {
					o.Println("  due:     ", task.FormatDate(t.Due))
				}

				return nil
			})
		},
	}
}

// SectionsCmd returns the sections command.
func SectionsCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("sections", flag.ContinueOnError),
		Usage: "sections",
		Short: "List main sections and task counts",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return app.Store.View(func(doc *task.Document) error {
				main := doc.Section(task.SectionMain)
				if main == nil || len(main.Children) == 0 {
					o.Println("(no sections)")
					return nil
				}

				counts := map[string]int{}

				main.Walk(func(path string, _ *task.Section, _ *task.Task) {
					counts[path]++
				})

				var printSection func(sec *task.Section, path string, indent string)

				printSection = func(sec *task.Section, path, indent string) {
					o.Printf("%s%s (%d)\n", indent, sec.Name, counts[path])

					for _, c := range sec.Children {
						printSection(c, path+":"+c.Name, indent+"  ")
					}
				}

				for _, c := range main.Children {
					printSection(c, c.Name, "")
				}

				return nil
			})
		},
	}
}

// StaleCmd returns the stale command.
func StaleCmd(app *App) *Command {
	fs := flag.NewFlagSet("stale", flag.ContinueOnError)
	fs.IntP("limit", "n", 0, "Maximum rows (0 = config default)")

	return &Command{
		Flags: fs,
		Usage: "stale [section] [flags]",
		Short: "Rank tasks by days without activity",
		Long: "Rank main-list tasks by days since their last activity, most\n" +
			"neglected first. Recurring, done, and snoozed tasks are skipped.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return rankCmd(app, o, args, fs, task.RankStale, staleWarnDays, staleHotDays)
		},
	}
}

// AgeCmd returns the age command.
func AgeCmd(app *App) *Command {
	fs := flag.NewFlagSet("age", flag.ContinueOnError)
	fs.IntP("limit", "n", 0, "Maximum rows (0 = config default)")

	byAge := func(doc *task.Document, today time.Time, scope string, limit int) []task.Ranked {
		return task.RankByAge(doc, today, scope, limit, app.Cfg.DefaultAgingScale())
	}

	return &Command{
		Flags: fs,
		Usage: "age [section] [flags]",
		Short: "Rank tasks by weighted age since creation",
		Long: "Rank main-list tasks by days since creation, weighted by each\n" +
			"task's aging scale. Only recurring tasks are skipped.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return rankCmd(app, o, args, fs, byAge, ageWarnDays, ageHotDays)
		},
	}
}

type rankFn func(*task.Document, time.Time, string, int) []task.Ranked

func rankCmd(app *App, o *IO, args []string, fs *flag.FlagSet, rank rankFn, warnAt, hotAt int) error {
	scope := ""
	if len(args) > 0 {
		scope = args[0]
	}

	limit, _ := fs.GetInt("limit")
	if limit <= 0 {
		limit = app.Cfg.RankLimit
	}

	return app.Store.View(func(doc *task.Document) error {
		rows := rank(doc, app.Today, scope, limit)
		if len(rows) == 0 {
			o.Println("(nothing to show)")
			return nil
		}

		for _, r := range rows {
			o.Println(formatRanked(r, warnAt, hotAt))
		}

		return nil
	})
}
