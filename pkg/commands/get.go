package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	to := &options.TagOptions{}

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Get one note or list all of them",
		Example: `
jot get
jot get --tag home
jot get 9f2c41aa-33d1-4f40-8c21-1a8f2f1f8f00
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one id")
			}
			if len(args) == 1 {
				io.ID = args[0]
			}
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
			pp := printers.PrettyPrint{ShowID: io.ShowID}

			if io.ID != "" {
				n, err := svc.Get(ctx, io.ID)
				if err != nil {
					return output.HandleError(err)
				}
				if handled, err := output.Print(n); handled {
					return err
				}
				pp.Note(n)
				return nil
			}

			all, err := svc.Notes(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			if to.Tag != "" {
				all, err = svc.Tagged(ctx, to.Tag)
				if err != nil {
					return output.HandleError(err)
				}
			}
			if handled, err := output.Print(all); handled {
				return err
			}
			pp.TitleWithCount("Notes", len(all))
			pp.Notes(all...)
			return nil
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddTagFilterArg(cmd, to)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
