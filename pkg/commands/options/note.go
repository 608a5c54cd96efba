// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// NoteOptions captures the editable note fields for add and edit commands.
type NoteOptions struct {
	Title string
	Body  string
	Tags  []string
}

// AddNoteArgs wires note field flags on the provided command.
func AddNoteArgs(cmd *cobra.Command, o *NoteOptions) {
	cmd.Flags().StringVarP(&o.Body, "body", "b", "",
		"Specify the note body.")
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Tag the note. Repeatable.")
}

// AddEditArgs wires edit flags, where the title is also a flag since the
// argument position carries the identifier.
func AddEditArgs(cmd *cobra.Command, o *NoteOptions) {
	cmd.Flags().StringVar(&o.Title, "title", "",
		"Replace the note title.")
	cmd.Flags().StringVarP(&o.Body, "body", "b", "",
		"Replace the note body.")
}

// TagOptions captures tag filtering flags.
type TagOptions struct {
	Tag string
}

func AddTagFilterArg(cmd *cobra.Command, o *TagOptions) {
	cmd.Flags().StringVar(&o.Tag, "tag", "",
		"Only notes carrying this tag.")
}
