// Package cli wires the task engine to the command line. Commands stay
// thin: they parse flags, run one store cycle, and print. All
// reconciliation semantics live in internal/task.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/calvinalkan/paratrooper/internal/store"
	"github.com/calvinalkan/paratrooper/internal/task"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// App bundles what every command needs: the resolved config, the store
// for the task file, the effective day, and the process environment.
type App struct {
	Cfg   task.Config
	Store *store.Store
	Today time.Time
	Env   map[string]string
}

// DailyOptions returns the daily section options from config.
func (a *App) DailyOptions() task.DailyOptions {
	return task.DailyOptions{CarryOver: a.Cfg.CarryOverEnabled()}
}

// Run is the main entry point. Returns exit code.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out, commandSet(&App{}))

		return 0
	}

	// Parse global flags
	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Load and validate config
	cfg, err := task.LoadConfig(task.LoadConfigInput{
		WorkDirOverride:  flags.workDir,
		ConfigPath:       flags.configPath,
		TaskFileOverride: flags.taskFile,
		Env:              env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Resolve the effective day (--today pins it for scripting)
	today := task.Day(time.Now())

	if flags.today != "" {
		today, err = task.ParseDate(flags.today)
		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}
	}

	app := &App{
		Cfg:   cfg,
		Store: store.New(cfg.TaskFileAbs),
		Today: today,
		Env:   env,
	}

	commands := commandSet(app)

	if len(flags.remaining) == 0 {
		printUsage(out, commands)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(out, commands)

		return 0
	}

	ioCtx := NewIO(out, errOut)

	for _, cmd := range commands {
		if cmd.Name() != name {
			continue
		}

		code := cmd.Run(context.Background(), ioCtx, flags.remaining[1:])
		if code != 0 {
			return code
		}

		// Finish handles warnings and exit code
		return ioCtx.Finish()
	}

	fprintln(errOut, "error: unknown command:", name)
	printUsage(errOut, commands)

	return 1
}

// commandSet builds the full command list. Order here is the order in
// the help output.
func commandSet(app *App) []*Command {
	return []*Command{
		InitCmd(app),
		DailyCmd(app),
		SyncCmd(app),
		AddCmd(app),
		DoneCmd(app),
		UndoneCmd(app),
		PassCmd(app),
		UpCmd(app),
		DownCmd(app),
		ListCmd(app),
		ShowCmd(app),
		SectionsCmd(app),
		StaleCmd(app),
		AgeCmd(app),
		SnoozeCmd(app),
		RecurCmd(app),
		EditCmd(app),
		MoveCmd(app),
		DeleteCmd(app),
		PurgeCmd(app),
		ArchiveCmd(app),
		OpenCmd(app),
		PrintConfigCmd(app),
	}
}

type globalFlags struct {
	workDir    string
	configPath string
	taskFile   string
	today      string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", task.ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --file flag
	if arg == "--file" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", task.ErrFlagRequiresArg, arg)
		}

		flags.taskFile = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--file="); ok {
		flags.taskFile = after

		return consumedOne, nil
	}

	// --today flag (pin the effective day, mainly for scripting)
	if arg == "--today" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", task.ErrFlagRequiresArg, arg)
		}

		flags.today = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--today="); ok {
		flags.today = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", task.ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(writer io.Writer, commands []*Command) {
	fprintln(writer, `pt - plain-text daily task list

Usage: pt [options] <command> [args]

Options:
  -C, --cwd <dir>    Run as if started in <dir>
  -c, --config       Use specified config file
  --file <path>      Use specified task file
  --today <date>     Pin today's date (DD-MM-YYYY)

Commands:`)

	for _, cmd := range commands {
		fprintln(writer, cmd.HelpLine())
	}
}
