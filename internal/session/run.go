package session

import (
	"context"
	"errors"
	"io"

	"github.com/jonathan/job-intake/internal/types"
)

// InputSource supplies user utterances. It returns io.EOF when no more input is available.
type InputSource interface {
	Next(ctx context.Context) (string, error)
}

// Prompter shows a follow-up question to the user.
type Prompter interface {
	Ask(question string) error
}

// Run drives s interactively until it is done or aborted.
func Run(ctx context.Context, s *Session, input InputSource, prompter Prompter) (types.Extraction, error) {
	text, err := input.Next(ctx)
	if err != nil {
		abortOnInput(s, err)
		return s.Result()
	}

	step := s.Start(ctx, text)
	for step.State == StateAsking {
		if err := prompter.Ask(step.Question); err != nil {
			s.abort("prompt failed", err)
			break
		}
		text, err := input.Next(ctx)
		if err != nil {
			abortOnInput(s, err)
			break
		}
		step = s.Reply(ctx, text)
	}
	return s.Result()
}

// RunOnce runs a single extraction round with no follow-up. A record that
// would need another question aborts with the missing fields.
func RunOnce(ctx context.Context, s *Session, text string) (types.Extraction, error) {
	if step := s.Start(ctx, text); step.State == StateAsking {
		s.Abort("no follow-up input in one-shot mode")
	}
	return s.Result()
}

func abortOnInput(s *Session, err error) {
	switch {
	case errors.Is(err, io.EOF):
		s.Abort("input closed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.abort("cancelled", err)
	default:
		s.abort("input failed", err)
	}
}
