package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// InitCmd returns the init command.
func InitCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Create the task file",
		Long:  "Create the task file with its DAILY, MAIN and ARCHIVE sections.\nDoes nothing if the file already exists.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			created, err := app.Store.Init()
			if err != nil {
				return err
			}

			if created {
				o.Println("initialized", app.Store.Path)
			} else {
				o.Println("already initialized:", app.Store.Path)
			}

			return nil
		},
	}
}

var errEditorArgs = errors.New("too many arguments (expected at most an editor name)")

// OpenCmd returns the open command.
func OpenCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("open", flag.ContinueOnError),
		Usage: "open [editor]",
		Short: "Open the task file in an editor",
		Long:  "Open the task file. Editor resolution: argument, then config,\nthen $EDITOR, then zed/vi/nano.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 1 {
				return errEditorArgs
			}

			cfg := app.Cfg
			if len(args) == 1 {
				cfg.Editor = args[0]
			}

			editor, err := resolveEditor(cfg, app.Env)
			if err != nil {
				return err
			}

			return runEditor(ctx, editor, app.Store.Path, o)
		},
	}
}

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			formatted, err := task.FormatConfig(app.Cfg)
			if err != nil {
				return err
			}

			o.Println(formatted)

			// Print sources
			o.Println("")
			o.Println("# Sources:")

			sources := app.Cfg.Sources
			if sources.Global != "" {
				o.Println("#   global:", sources.Global)
			}

			if sources.Project != "" {
				o.Println("#   project:", sources.Project)
			}

			if sources.Global == "" && sources.Project == "" {
				o.Println("#   (using defaults only)")
			}

			return nil
		},
	}
}
