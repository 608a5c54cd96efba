package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/store"
)

// addEdit edits a note through an editor session, so read-only rules and the
// canonical-rebind behavior match the interactive surface exactly.
func addEdit(topLevel *cobra.Command) {
	no := &options.NoteOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note's title or body",
		Example: `
jot edit 9f2c41aa --title "new title"
jot edit 9f2c41aa --body "replacement body"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a note id")
			}
			io.ID = args[0]
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return noteCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			svc := &app.Service{Persistence: p}
			ctx := context.Background()

			n, err := svc.Get(ctx, io.ID)
			if err != nil {
				return output.HandleError(err)
			}

			s := session.New(svc, n)
			if cmd.Flags().Changed("title") {
				if err := s.SetTitle(no.Title); err != nil {
					return output.HandleError(err)
				}
			}
			if cmd.Flags().Changed("body") {
				if err := s.SetBody(no.Body); err != nil {
					return output.HandleError(err)
				}
			}
			if !s.Dirty() {
				return errors.New("nothing to change, pass --title or --body")
			}
			if err := s.Save(ctx); err != nil {
				return output.HandleError(err)
			}

			if handled, err := output.Print(s.Note()); handled {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.Note(s.Note())
			return nil
		},
	}

	options.AddEditArgs(cmd, no)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
