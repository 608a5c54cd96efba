package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	no := &options.NoteOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a note",
		Example: `
jot add groceries --body "milk, eggs" --tag home
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			no.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			svc := &app.Service{Persistence: p}
			n, err := svc.Create(context.Background(), no.Title, no.Body, no.Tags...)
			if err != nil {
				return output.HandleError(err)
			}
			if handled, err := output.Print(n); handled {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.Note(n)
			return nil
		},
	}

	options.AddNoteArgs(cmd, no)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
