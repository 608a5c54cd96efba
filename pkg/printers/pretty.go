package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/jot/pkg/note"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" note")
	default:
		_, _ = c.Println(" notes")
	}
}

// Notes renders a table of notes, one row each.
func (pp *PrettyPrint) Notes(notes ...*note.Note) {
	if len(notes) == 0 {
		f := color.New(color.Faint)
		_, _ = f.Println("  <empty>")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		tbl.AddRow(bold("ID"), bold("Title"), bold("Tags"), bold("Updated"))
	} else {
		tbl.AddRow(bold("Title"), bold("Tags"), bold("Updated"))
	}
	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		if n.SystemManaged() {
			title = color.New(color.Faint).Sprintf("%s ⊘", title)
		}
		tags := strings.Join(n.Tags, ", ")
		updated := ""
		if !n.Updated.IsZero() {
			updated = humanTime(n.Updated.Time)
		}
		if pp.ShowID {
			tbl.AddRow(n.ID, title, tags, updated)
		} else {
			tbl.AddRow(title, tags, updated)
		}
	}
	fmt.Println(tbl)
}

// Note renders a single note in full.
func (pp *PrettyPrint) Note(n *note.Note) {
	t := color.New(color.Bold)
	f := color.New(color.Faint)

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	_, _ = t.Println(title)
	if len(n.Tags) > 0 {
		_, _ = f.Printf("tags: %s\n", strings.Join(n.Tags, ", "))
	}
	if pp.ShowID && n.ID != "" {
		_, _ = f.Printf("id: %s\n", n.ID)
	}
	if !n.Updated.IsZero() {
		_, _ = f.Printf("updated: %s\n", n.Updated)
	}
	if n.Body != "" {
		fmt.Println("")
		fmt.Println(n.Body)
	}
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func humanTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("2006-01-02")
	}
}
