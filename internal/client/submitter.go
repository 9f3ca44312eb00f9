package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Submitter errors
var (
	ErrNoDraft        = errors.New("no draft to submit")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// SubmitState is the phase of the submit workflow
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateEncoding
	StateSending
	StateSucceeded
	StateFailed
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEncoding:
		return "encoding"
	case StateSending:
		return "sending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultSuccessDelay is how long the succeeded state is held before the
// submitter resets so the caller can show a confirmation
const DefaultSuccessDelay = 2 * time.Second

// Submitter drives a draft through encode and send exactly once at a time.
// A failed attempt keeps the draft so it can be corrected and resubmitted;
// a successful one holds the result briefly, then resets to idle.
type Submitter struct {
	client *Client

	mu     sync.Mutex
	state  SubmitState
	draft  *Draft
	result *Submission
	err    error

	successDelay time.Duration
	onChange     func(SubmitState)
}

// SubmitterOption configures a Submitter
type SubmitterOption func(*Submitter)

// WithSuccessDelay overrides how long the succeeded state is held
func WithSuccessDelay(d time.Duration) SubmitterOption {
	return func(s *Submitter) {
		s.successDelay = d
	}
}

// WithStateHandler registers a callback fired on every state change
func WithStateHandler(fn func(SubmitState)) SubmitterOption {
	return func(s *Submitter) {
		s.onChange = fn
	}
}

// NewSubmitter creates a submitter over the given client
func NewSubmitter(client *Client, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		client:       client,
		state:        StateIdle,
		successDelay: DefaultSuccessDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current phase
func (s *Submitter) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the draft currently held, nil after a successful submit
func (s *Submitter) Draft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Result returns the stored submission after a success, nil otherwise
func (s *Submitter) Result() *Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the error of the last failed attempt
func (s *Submitter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SetDraft installs the draft to submit. Rejected while an attempt is in
// flight; replacing the draft clears a previous failure.
func (s *Submitter) SetDraft(draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEncoding || s.state == StateSending {
		return ErrSubmitInFlight
	}
	s.draft = draft
	s.result = nil
	s.err = nil
	s.state = StateIdle
	return nil
}

// Submit encodes and sends the held draft. Calling it again while an
// attempt is in flight returns ErrSubmitInFlight without sending twice.
func (s *Submitter) Submit(ctx context.Context) (*Submission, error) {
	s.mu.Lock()
	if s.state == StateEncoding || s.state == StateSending {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if s.draft == nil {
		s.mu.Unlock()
		return nil, ErrNoDraft
	}
	draft := s.draft
	s.err = nil
	s.state = StateEncoding
	s.mu.Unlock()
	s.notify(StateEncoding)

	encoded, err := EncodeSubmission(draft)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.setState(StateSending)

	var submission Submission
	err = s.client.postMultipart(ctx, "/api/cleanings/submissions/", encoded.ContentType, encoded.Body, &submission)
	if err != nil {
		// Draft stays put for a corrected retry
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.state = StateSucceeded
	s.result = &submission
	s.draft = nil
	s.mu.Unlock()
	s.notify(StateSucceeded)

	// Hold the success so the caller can show it, then reset
	time.AfterFunc(s.successDelay, s.reset)

	return &submission, nil
}

func (s *Submitter) setState(state SubmitState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify(state)
}

func (s *Submitter) fail(err error) {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
	s.notify(StateFailed)
}

func (s *Submitter) reset() {
	s.mu.Lock()
	if s.state != StateSucceeded {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.result = nil
	s.mu.Unlock()
	s.notify(StateIdle)
}

func (s *Submitter) notify(state SubmitState) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
