// Package session implements the completion loop: it feeds user text to an
// extractor, merges what was found, and asks for the first missing field
// until the record is complete or the session is aborted.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-intake/internal/extraction"
	"github.com/jonathan/job-intake/internal/logging"
	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/prompts"
	"github.com/jonathan/job-intake/internal/types"
)

// State is the position of a session in the completion loop.
type State string

// Session states.
const (
	StateCollecting State = "collecting"
	StateAsking     State = "asking"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// Defaults applied by New when Options leaves a value unset.
const (
	DefaultMaxRounds    = 10
	DefaultRoundTimeout = 60 * time.Second
)

// Options tunes a session.
type Options struct {
	// MaxRounds caps extraction rounds; reaching it with fields still missing aborts the session.
	MaxRounds int
	// RoundTimeout bounds each extraction call. Zero means DefaultRoundTimeout.
	RoundTimeout time.Duration
	Logger       logging.Logger
}

// Step is what the host needs after each round.
type Step struct {
	State    State    `json:"state"`
	Field    string   `json:"field,omitempty"`
	Question string   `json:"question,omitempty"`
	Missing  []string `json:"missing,omitempty"`
}

// Round records one extraction round for the transcript.
type Round struct {
	Number   int           `json:"round"`
	Input    string        `json:"input"`
	Found    []string      `json:"found,omitempty"`
	Missing  []string      `json:"missing,omitempty"`
	Error    string        `json:"error,omitempty"`
	Question string        `json:"question,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Session owns one interaction's accumulated extraction. It is not safe for
// concurrent use; each user gets their own Session.
type Session struct {
	id        string
	schema    types.FieldSchema
	extractor extraction.Extractor
	opts      Options

	state  State
	result types.Extraction
	rounds []Round
	step   Step
	err    error
}

// New creates a session in the collecting state with every field absent.
func New(schema types.FieldSchema, extractor extraction.Extractor, opts Options) *Session {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.RoundTimeout <= 0 {
		opts.RoundTimeout = DefaultRoundTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default
	}
	return &Session{
		id:        uuid.NewString(),
		schema:    schema,
		extractor: extractor,
		opts:      opts,
		state:     StateCollecting,
		result:    types.NewExtraction(schema),
		step:      Step{State: StateCollecting, Missing: schema.Names()},
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Schema returns the field schema being collected.
func (s *Session) Schema() types.FieldSchema { return s.schema }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Step returns the outcome of the latest round.
func (s *Session) Step() Step { return s.step }

// Transcript returns a copy of the rounds run so far.
func (s *Session) Transcript() []Round {
	out := make([]Round, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Start feeds the first utterance.
func (s *Session) Start(ctx context.Context, text string) Step {
	return s.feed(ctx, text)
}

// Reply feeds the answer to the last question. The whole reply goes through
// extraction, so it may fill several fields at once.
func (s *Session) Reply(ctx context.Context, text string) Step {
	return s.feed(ctx, text)
}

// Abort ends the session without a record. It is a no-op once terminal.
func (s *Session) Abort(reason string) {
	s.abort(reason, nil)
}

// Result returns the accumulated extraction. The error is nil only in StateDone.
func (s *Session) Result() (types.Extraction, error) {
	out := s.result.Restrict(s.schema)
	switch s.state {
	case StateDone:
		return out, nil
	case StateAborted:
		return out, s.err
	default:
		return out, fmt.Errorf("session %s still %s", s.id, s.state)
	}
}

func (s *Session) terminal() bool {
	return s.state == StateDone || s.state == StateAborted
}

func (s *Session) feed(ctx context.Context, text string) Step {
	if s.terminal() {
		return s.step
	}
	if err := ctx.Err(); err != nil {
		s.abort("cancelled", err)
		return s.step
	}

	s.state = StateCollecting
	round := Round{Number: len(s.rounds) + 1, Input: text}
	started := time.Now()

	roundCtx, cancel := context.WithTimeout(ctx, s.opts.RoundTimeout)
	ext, err := s.extractor.Extract(roundCtx, text)
	cancel()
	round.Duration = time.Since(started)

	if err != nil {
		if ctx.Err() != nil {
			s.rounds = append(s.rounds, round)
			s.abort("cancelled", ctx.Err())
			return s.step
		}
		err = s.classify(err)
		round.Error = err.Error()
		s.opts.Logger.Warnw("extraction round yielded no fields",
			"session", s.id, "round", round.Number, "error", err)
	} else {
		ext = ext.Restrict(s.schema)
		round.Found = ext.Found(s.schema)
		s.result = s.result.Merge(ext)
	}

	missing := s.result.Missing(s.schema)
	round.Missing = missing
	s.opts.Logger.Debugw("extraction round",
		"session", s.id, "round", round.Number, "found", round.Found, "missing", missing)

	switch {
	case len(missing) == 0:
		s.state = StateDone
		s.step = Step{State: StateDone}
		s.rounds = append(s.rounds, round)
	case round.Number >= s.opts.MaxRounds:
		s.rounds = append(s.rounds, round)
		s.abort(fmt.Sprintf("round limit %d reached", s.opts.MaxRounds), nil)
	default:
		field := missing[0]
		round.Question = AskFor(field)
		s.state = StateAsking
		s.step = Step{State: StateAsking, Field: field, Question: round.Question, Missing: missing}
		s.rounds = append(s.rounds, round)
	}
	return s.step
}

// classify turns a round deadline into a TimeoutError carrying the limit.
func (s *Session) classify(err error) error {
	var timeout *extraction.TimeoutError
	if errors.As(err, &timeout) {
		if timeout.After == 0 {
			timeout.After = s.opts.RoundTimeout
		}
		return timeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &extraction.TimeoutError{After: s.opts.RoundTimeout, Cause: err}
	}
	return err
}

func (s *Session) abort(reason string, cause error) {
	if s.terminal() {
		return
	}
	missing := s.result.Missing(s.schema)
	if cause == nil && len(missing) > 0 {
		cause = &normalize.IncompleteRecordError{Missing: missing}
	}
	s.state = StateAborted
	s.err = &AbortedError{Reason: reason, Cause: cause}
	s.step = Step{State: StateAborted, Missing: missing}
	s.opts.Logger.Infow("session aborted", "session", s.id, "reason", reason, "missing", missing)
}

// AskFor renders the follow-up question for one field.
func AskFor(field string) string {
	q, err := prompts.Render(prompts.ExtractionFile, prompts.KeyAskField, map[string]string{"Field": field})
	if err != nil {
		return fmt.Sprintf("Please provide value for '%s'.", field)
	}
	return q
}
