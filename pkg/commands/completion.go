package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(jot completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(jot completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func noteCompletions(toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	var ids []string
	for _, n := range p.List(context.Background()) {
		if toComplete == "" || len(n.ID) >= len(toComplete) && n.ID[:len(toComplete)] == toComplete {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
