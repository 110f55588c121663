package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// markThroughDaily marks a task in today's daily section, pulling it
// from MAIN first if today has no entry for it. The main list itself
// is only touched by sync; the daily section is the day's record.
func markThroughDaily(app *App, o *IO, args []string, status task.Status, verb string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	return app.Store.Update(func(doc *task.Document) error {
		entry, err := task.Pull(doc, id, app.Today, app.DailyOptions())
		if err != nil {
			return err
		}

		entry.Status = status
		o.Println(verb, task.FormatID(id)+":", entry.Text)

		return nil
	})
}

// DoneCmd returns the done command.
func DoneCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("done", flag.ContinueOnError),
		Usage: "done <id>",
		Short: "Mark a task done in today's section",
		Long: "Mark a task done in today's daily section, pulling it in from\n" +
			"the main list if needed. Run sync to fold the result back into\n" +
			"MAIN.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return markThroughDaily(app, o, args, task.Done, "done")
		},
	}
}

// PassCmd returns the pass command.
func PassCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("pass", flag.ContinueOnError),
		Usage: "pass <id>",
		Short: "Mark a task in progress in today's section",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return markThroughDaily(app, o, args, task.Progress, "progressed")
		},
	}
}

// UndoneCmd returns the undone command.
func UndoneCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("undone", flag.ContinueOnError),
		Usage: "undone <id>",
		Short: "Reset a task to not started",
		Long: "Reset today's daily entry to not started. If today has no entry\n" +
			"for the task, the main task itself is reset.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				t := todaysEntry(doc, app.Today, id)
				if t == nil {
					if main := doc.Section(task.SectionMain); main != nil {
						t = main.Find(id)
					}
				}

				if t == nil {
					return fmt.Errorf("%w: %s", task.ErrTaskNotFound, task.FormatID(id))
				}

				t.Status = task.NotStarted
				o.Println("reset", task.FormatID(id)+":", t.Text)

				return nil
			})
		},
	}
}

// todaysEntry returns the entry for id in today's daily section, nil if
// the section or entry does not exist.
func todaysEntry(doc *task.Document, today time.Time, id int) *task.Task {
	daily := doc.Section(task.SectionDaily)
	if daily == nil {
		return nil
	}

	sec := daily.Child(task.FormatDate(today))
	if sec == nil {
		return nil
	}

	for _, t := range sec.Tasks {
		if t.ID == id {
			return t
		}
	}

	return nil
}

// reorder moves the task up (delta -1) or down (delta +1) within its
// section. Today's daily section wins over the main list, so the
// commands reorder what the user is looking at.
func reorder(app *App, o *IO, args []string, delta int) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	return app.Store.Update(func(doc *task.Document) error {
		sec := containingSection(doc, app.Today, id)
		if sec == nil {
			return fmt.Errorf("%w: %s", task.ErrTaskNotFound, task.FormatID(id))
		}

		idx := -1

		for i, t := range sec.Tasks {
			if t.ID == id {
				idx = i
				break
			}
		}

		target := idx + delta
		if target < 0 || target >= len(sec.Tasks) {
			// Already at the edge; nothing to do.
			o.Println("unchanged", task.FormatID(id))
			return nil
		}

		sec.Tasks[idx], sec.Tasks[target] = sec.Tasks[target], sec.Tasks[idx]
		o.Println("moved", task.FormatID(id))

		return nil
	})
}

// containingSection finds the section whose Tasks slice holds the task
// with id, preferring today's daily section.
func containingSection(doc *task.Document, today time.Time, id int) *task.Section {
	if daily := doc.Section(task.SectionDaily); daily != nil {
		if sec := daily.Child(task.FormatDate(today)); sec != nil {
			for _, t := range sec.Tasks {
				if t.ID == id {
					return sec
				}
			}
		}
	}

	main := doc.Section(task.SectionMain)
	if main == nil {
		return nil
	}

	var found *task.Section

	main.Walk(func(_ string, sec *task.Section, t *task.Task) {
		if found == nil && t.ID == id {
			found = sec
		}
	})

	return found
}

// UpCmd returns the up command.
func UpCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("up", flag.ContinueOnError),
		Usage: "up <id>",
		Short: "Move a task up within its section",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return reorder(app, o, args, -1)
		},
	}
}

// DownCmd returns the down command.
func DownCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("down", flag.ContinueOnError),
		Usage: "down <id>",
		Short: "Move a task down within its section",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return reorder(app, o, args, 1)
		},
	}
}

var errSnoozeArg = errors.New("snooze needs a day count or a date (DD-MM-YYYY)")

// SnoozeCmd returns the snooze command.
func SnoozeCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("snooze", flag.ContinueOnError),
		Usage: "snooze <id> <days|date>",
		Short: "Hide a task until a later day",
		Long: "Snooze a main-list task: it is skipped by daily sections and the\n" +
			"staleness ranking until the given day. Accepts a day count\n" +
			"(\"7\") or an absolute date (\"01-09-2025\").",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			if len(args) < 2 {
				return errSnoozeArg
			}

			until, err := parseSnoozeUntil(args[1], app.Today)
			if err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				main := doc.Section(task.SectionMain)
				if main == nil {
					return fmt.Errorf("%w: %s in main list", task.ErrTaskNotFound, task.FormatID(id))
				}

				t := main.Find(id)
				if t == nil {
					return fmt.Errorf("%w: %s in main list", task.ErrTaskNotFound, task.FormatID(id))
				}

				t.Snooze = until
				o.Println("snoozed", task.FormatID(id), "until", task.FormatDate(until))

				return nil
			})
		},
	}
}

func parseSnoozeUntil(arg string, today time.Time) (time.Time, error) {
	if days, err := strconv.Atoi(arg); err == nil {
		if days < 1 {
			return time.Time{}, errSnoozeArg
		}

		return task.AddDays(today, days), nil
	}

	until, err := task.ParseDate(arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errSnoozeArg, arg)
	}

	return until, nil
}

// RecurCmd returns the recur command.
func RecurCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("recur", flag.ContinueOnError),
		Usage: "recur <id> <rule|none>",
		Short: "Set or clear a task's recurrence rule",
		Long: "Set the recurrence rule of a main-list task. Rules:\n" +
			"  daily, weekdays, weekly, weekly:mon,fri,\n" +
			"  monthly, monthly:15th, recur:3d (units d/w/m/y, summed)\n" +
			"Use \"none\" to clear the rule.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			if len(args) < 2 {
				return fmt.Errorf("%w: recurrence rule required", task.ErrInvalidRule)
			}

			var rule task.Rule

			if args[1] != "none" {
				rule, err = task.ParseRule(args[1])
				if err != nil {
					return err
				}
			}

			return app.Store.Update(func(doc *task.Document) error {
				main := doc.Section(task.SectionMain)
				if main == nil {
					return fmt.Errorf("%w: %s in main list", task.ErrTaskNotFound, task.FormatID(id))
				}

				t := main.Find(id)
				if t == nil {
					return fmt.Errorf("%w: %s in main list", task.ErrTaskNotFound, task.FormatID(id))
				}

				t.Recur = rule

				if rule.IsZero() {
					o.Println("cleared recurrence for", task.FormatID(id))
				} else {
					o.Println("set recurrence for", task.FormatID(id)+":", rule.String())
				}

				return nil
			})
		},
	}
}
