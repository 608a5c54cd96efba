package session

import (
	"context"
	"errors"
	"fmt"
)

// Intent names the content-replacing action a host wants to perform on a
// surface whose session may hold unsaved work.
type Intent int

const (
	// IntentSwitchAway means the surface will show a different note.
	IntentSwitchAway Intent = iota
	// IntentClose means the surface and its session are being torn down.
	IntentClose
	// IntentReplace means the session will be rebound to a new empty note.
	IntentReplace
)

func (i Intent) String() string {
	switch i {
	case IntentSwitchAway:
		return "switch away"
	case IntentClose:
		return "close"
	case IntentReplace:
		return "replace"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

// Choice is the user's answer to the unsaved-changes prompt.
type Choice int

const (
	ChoiceSave Choice = iota
	ChoiceDiscard
	ChoiceCancel
)

// Prompter asks the user what to do with unsaved work. Implementations block
// until the user answers; the calling UI action does not proceed until the
// decision is in.
type Prompter interface {
	Confirm(ctx context.Context, s *Session, intent Intent) (Choice, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, s *Session, intent Intent) (Choice, error)

func (f PrompterFunc) Confirm(ctx context.Context, s *Session, intent Intent) (Choice, error) {
	return f(ctx, s, intent)
}

// Outcome is the policy decision for a content-replacing action.
type Outcome int

const (
	// Stay denies the action; the host must abort it entirely.
	Stay Outcome = iota
	// Proceed allows the action; the session had nothing to lose.
	Proceed
	// ProceedSaved allows the action after a successful save.
	ProceedSaved
	// ProceedDiscarding allows the action without saving; the caller is
	// responsible for rebinding or tearing down the session afterwards.
	ProceedDiscarding
)

// Allowed reports whether the host may commit the action.
func (o Outcome) Allowed() bool { return o != Stay }

// Policy gates transitions that would discard unsaved work. Hosts call
// CanProceed before destroying, hiding, or rebinding a surface's session and
// abort the action on Stay.
type Policy struct {
	Prompter Prompter
}

// CanProceed decides whether the host may perform the intended action. A
// clean session always proceeds without prompting. A dirty session prompts
// for Save, Discard, or Cancel; Save only allows the action if the save
// succeeded. The user's Cancel denies the intent, never an in-flight save.
func (p *Policy) CanProceed(ctx context.Context, s *Session, intent Intent) (Outcome, error) {
	if s == nil || !s.Dirty() {
		return Proceed, nil
	}
	if p == nil || p.Prompter == nil {
		return Stay, errors.New("session: no prompter configured")
	}
	choice, err := p.Prompter.Confirm(ctx, s, intent)
	if err != nil {
		return Stay, err
	}
	return p.Apply(ctx, s, choice)
}

// Apply executes the decision half of CanProceed for hosts whose prompt is
// asynchronous (an event-loop UI shows its own modal and calls Apply once
// the user picks).
func (p *Policy) Apply(ctx context.Context, s *Session, choice Choice) (Outcome, error) {
	switch choice {
	case ChoiceSave:
		if err := s.Save(ctx); err != nil {
			return Stay, err
		}
		return ProceedSaved, nil
	case ChoiceDiscard:
		return ProceedDiscarding, nil
	case ChoiceCancel:
		return Stay, nil
	default:
		return Stay, fmt.Errorf("session: unknown choice %d", int(choice))
	}
}
