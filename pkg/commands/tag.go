package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/store"
)

func addTag(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage note tags",
		Example: `
jot tag add 9f2c41aa home
jot tag rm 9f2c41aa home
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTagMutation(cmd, "add", "Add tags to a note", func(s *session.Session, tag string) []string {
		tags := s.Draft().Tags
		return append(tags, tag)
	})
	addTagMutation(cmd, "rm", "Remove tags from a note", func(s *session.Session, tag string) []string {
		tag = note.NormalizeTag(tag)
		var tags []string
		for _, t := range s.Draft().Tags {
			if t != tag {
				tags = append(tags, t)
			}
		}
		return tags
	})

	topLevel.AddCommand(cmd)
}

func addTagMutation(parent *cobra.Command, verb, short string, apply func(*session.Session, string) []string) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   verb + " <id> <tag> [tag...]",
		Short: short,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("requires a note id and at least one tag")
			}
			io.ID = args[0]
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return noteCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
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
			for _, tag := range args[1:] {
				if err := s.SetTags(apply(s, tag)); err != nil {
					return output.HandleError(err)
				}
			}
			if !s.Dirty() {
				return nil
			}
			if err := s.Save(ctx); err != nil {
				return output.HandleError(err)
			}

			if handled, err := output.Print(s.Note()); handled {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.Note(s.Note())
			return nil
		},
	}

	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}
