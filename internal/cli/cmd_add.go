package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

var (
	errTextRequired    = errors.New("task text is required")
	errSectionRequired = errors.New("section is required (-s WORK, -s WORK:PROJECT)")
)

// parseID parses a task ID argument, with or without the # prefix.
func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, task.ErrIDRequired
	}

	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q is not a task id", task.ErrIDRequired, args[0])
	}

	return id, nil
}

// normalizeSection upper-cases a section path ("work:book" -> "WORK:BOOK").
func normalizeSection(path string) string {
	return strings.ToUpper(strings.TrimSpace(path))
}

// AddCmd returns the add command.
func AddCmd(app *App) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("section", "s", "", "Main section to add to (WORK or WORK:PROJECT)")
	fs.String("recur", "", "Recurrence rule (daily|weekdays|weekly[:days]|monthly[:nth]|recur:N<unit>)")

	return &Command{
		Flags: fs,
		Usage: "add <text> [flags]",
		Short: "Add a task to the main list",
		Long: "Add a task to a main section. Prints the new task ID. A\n" +
			"recurrence rule can be given with --recur or inline in the text:\n" +
			"  pt add \"water plants (recur:3d)\" -s HOME",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errTextRequired
			}

			text := args[0]

			section, _ := fs.GetString("section")
			if section == "" {
				return errSectionRequired
			}

			section = normalizeSection(section)

			text, rule, err := task.ExtractInlineRule(text)
			if err != nil {
				return err
			}

			if ruleStr, _ := fs.GetString("recur"); ruleStr != "" {
				rule, err = task.ParseRule(ruleStr)
				if err != nil {
					return err
				}
			}

			if err := task.ValidateText(text); err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				t := &task.Task{
					ID:           task.NextID(doc),
					Status:       task.NotStarted,
					Text:         text,
					Origin:       section,
					Recur:        rule,
					Created:      app.Today,
					LastActivity: app.Today,
				}

				sec := doc.EnsureMainSection(section)
				sec.Tasks = append(sec.Tasks, t)

				o.Println(task.FormatID(t.ID))

				return nil
			})
		},
	}
}

// EditCmd returns the edit command.
func EditCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("edit", flag.ContinueOnError),
		Usage: "edit <id> <text>",
		Short: "Rewrite a task's text",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			if len(args) < 2 {
				return errTextRequired
			}

			text := args[1]
			if err := task.ValidateText(text); err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				found := false

				// The archive keeps history as it was; edits apply to
				// the main task and its live daily entries.
				for _, name := range []string{task.SectionMain, task.SectionDaily} {
					sec := doc.Section(name)
					if sec == nil {
						continue
					}

					sec.Walk(func(_ string, _ *task.Section, t *task.Task) {
						if t.ID == id {
							t.Text = text
							found = true
						}
					})
				}

				if !found {
					return fmt.Errorf("%w: %s", task.ErrTaskNotFound, task.FormatID(id))
				}

				o.Println("edited", task.FormatID(id))

				return nil
			})
		},
	}
}

// MoveCmd returns the move command.
func MoveCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("move", flag.ContinueOnError),
		Usage: "move <id> <section>",
		Short: "Move a task to another main section",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			if len(args) < 2 {
				return errSectionRequired
			}

			target := normalizeSection(args[1])

			return app.Store.Update(func(doc *task.Document) error {
				main := doc.Main()

				t := main.Find(id)
				if t == nil {
					return fmt.Errorf("%w: %s in main list", task.ErrTaskNotFound, task.FormatID(id))
				}

				main.Remove(id)

				t.Origin = target
				sec := doc.EnsureMainSection(target)
				sec.Tasks = append(sec.Tasks, t)

				// Keep live daily entries pointing at the new origin.
				if daily := doc.Section(task.SectionDaily); daily != nil {
					daily.Walk(func(_ string, _ *task.Section, entry *task.Task) {
						if entry.ID == id && entry.Origin != "" {
							entry.Origin = target
						}
					})
				}

				o.Println("moved", task.FormatID(id), "to", target)

				return nil
			})
		},
	}
}

// DeleteCmd returns the delete command.
func DeleteCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("delete", flag.ContinueOnError),
		Usage: "delete <id>",
		Short: "Delete a task from the main list and daily sections",
		Long:  "Delete a task everywhere except the archive. Archived daily\nsections are history and stay as written.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := parseID(args)
			if err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				removed := false

				for _, name := range []string{task.SectionMain, task.SectionDaily} {
					sec := doc.Section(name)
					if sec == nil {
						continue
					}

					for sec.Remove(id) {
						removed = true
					}
				}

				if !removed {
					return fmt.Errorf("%w: %s", task.ErrTaskNotFound, task.FormatID(id))
				}

				o.Println("deleted", task.FormatID(id))

				return nil
			})
		},
	}
}

// PurgeCmd returns the purge command.
func PurgeCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("purge", flag.ContinueOnError),
		Usage: "purge",
		Short: "Remove completed tasks from the main list",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return app.Store.Update(func(doc *task.Document) error {
				main := doc.Section(task.SectionMain)
				if main == nil {
					o.Println("purged 0 tasks")
					return nil
				}

				count := purgeDone(main)
				o.Printf("purged %d tasks\n", count)

				return nil
			})
		},
	}
}

func purgeDone(sec *task.Section) int {
	count := 0
	kept := sec.Tasks[:0]

	for _, t := range sec.Tasks {
		if t.Status == task.Done {
			count++
			continue
		}

		kept = append(kept, t)
	}

	sec.Tasks = kept

	for _, c := range sec.Children {
		count += purgeDone(c)
	}

	return count
}
