package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/paratrooper/internal/task"
)

var errArchiveDays = errors.New("--days must be positive")

// ArchiveCmd returns the archive command.
func ArchiveCmd(app *App) *Command {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.Int("days", 0, "Retention in days (0 = config default)")

	return &Command{
		Flags: fs,
		Usage: "archive [flags]",
		Short: "Move old daily sections to the archive",
		Long: "Move daily sections older than the retention threshold into\n" +
			"ARCHIVE. With archive_policy \"headers\" only the dated headers\n" +
			"are kept; sync has already folded their outcomes into MAIN.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			days, _ := fs.GetInt("days")
			if days < 0 {
				return errArchiveDays
			}

			if days == 0 {
				days = app.Cfg.ArchiveDays
			}

			policy, err := task.ParseArchivePolicy(app.Cfg.ArchivePolicy)
			if err != nil {
				return err
			}

			return app.Store.Update(func(doc *task.Document) error {
				moved := task.ArchiveOld(doc, days, app.Today, policy)
				o.Printf("archived %d daily sections\n", moved)

				return nil
			})
		},
	}
}
