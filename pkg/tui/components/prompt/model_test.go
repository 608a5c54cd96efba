package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/tui/theme"
)

func keyPress(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func choiceFrom(t *testing.T, cmd tea.Cmd) session.Choice {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a choice command, got nil")
	}
	msg, ok := cmd().(ChoiceMsg)
	if !ok {
		t.Fatalf("expected ChoiceMsg, got %T", cmd())
	}
	return msg.Choice
}

func TestShortcuts(t *testing.T) {
	tests := []struct {
		key  tea.KeyPressMsg
		want session.Choice
	}{
		{keyPress('s', "s"), session.ChoiceSave},
		{keyPress('d', "d"), session.ChoiceDiscard},
		{keyPress('c', "c"), session.ChoiceCancel},
		{keyPress(tea.KeyEscape, ""), session.ChoiceCancel},
	}
	for _, tc := range tests {
		m := New("groceries", session.IntentClose, theme.Default())
		if got := choiceFrom(t, m.Update(tc.key)); got != tc.want {
			t.Errorf("key %q: got %v, want %v", tc.key.String(), got, tc.want)
		}
	}
}

func TestCycleAndSelect(t *testing.T) {
	m := New("groceries", session.IntentSwitchAway, theme.Default())

	if cmd := m.Update(keyPress(tea.KeyRight, "")); cmd != nil {
		t.Fatal("moving the selection should not emit a choice")
	}
	if got := choiceFrom(t, m.Update(keyPress(tea.KeyEnter, ""))); got != session.ChoiceDiscard {
		t.Errorf("second option should be discard, got %v", got)
	}
}

func TestCycleWraps(t *testing.T) {
	m := New("", session.IntentReplace, theme.Default())

	m.Update(keyPress(tea.KeyLeft, ""))
	if got := choiceFrom(t, m.Update(keyPress(tea.KeyEnter, ""))); got != session.ChoiceCancel {
		t.Errorf("wrapping left from the first option should land on cancel, got %v", got)
	}
}

func TestIgnoresOtherMessages(t *testing.T) {
	m := New("groceries", session.IntentClose, theme.Default())
	if cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24}); cmd != nil {
		t.Fatal("non-key messages should be ignored")
	}
}
