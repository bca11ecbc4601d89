// Package session holds the per-browser application state and the
// transitions triggered by user actions: editing the paste box, submitting
// it and selecting a file.
//
// Every transition that replaces the table takes a token when it starts.
// Its result is committed only if no newer transition started in the
// meantime, so a slow PDF conversion cannot overwrite a later paste.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetview/internal/core"
	"github.com/JonMunkholm/sheetview/internal/dispatch"
	"github.com/JonMunkholm/sheetview/internal/logging"
)

// ErrStale reports a completion discarded because a newer request started.
var ErrStale = errors.New("session: superseded by a newer request")

// Dispatcher parses an uploaded file into a table.
type Dispatcher interface {
	Dispatch(ctx context.Context, f dispatch.File) (core.Table, error)
}

// PasteObserver records paste submissions.
type PasteObserver interface {
	ObservePaste(outcome string, rows int)
}

// Snapshot is a point-in-time copy of a State, safe to render.
type Snapshot struct {
	Table   core.Table `json:"table"`
	Error   string     `json:"error"`
	Pending string     `json:"pending"`
}

// Result describes the outcome of a transition.
// Err is the technical error for logging; Message is what the user sees.
type Result struct {
	Err     error
	Message string
	Rows    int
}

// OK reports whether the transition replaced the table.
func (r Result) OK() bool { return r.Err == nil }

// State is one browser session's view state. Table, upload error and
// pending input are independent: a failed parse leaves the last good
// table visible.
type State struct {
	mu sync.Mutex

	id        string
	table     core.Table
	uploadErr string
	pending   string

	latest   uint64
	lastSeen time.Time

	observer PasteObserver
	now      func() time.Time
}

// NewState creates an empty state for session id.
func NewState(id string, observer PasteObserver) *State {
	s := &State{id: id, observer: observer, now: time.Now}
	s.lastSeen = s.now()
	return s
}

// ID returns the session identifier.
func (s *State) ID() string { return s.id }

// OnPasteChange stores text as the pending input. The error is cleared when
// the text is blank or already valid; otherwise it is left as it was.
func (s *State) OnPasteChange(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.pending = text
	if res := core.Validate(text); res.OK || res.Err.Kind == core.KindEmptyInput {
		s.uploadErr = ""
	}
}

// OnPasteSubmit validates and decodes the pending input, replacing the table
// on success.
func (s *State) OnPasteSubmit(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.latest++
	log := logging.FromContext(ctx)

	var res Result
	if v := core.Validate(s.pending); !v.OK {
		res = s.fail(v.Err)
	} else if table, err := core.DecodeCSVString(s.pending, core.OpPaste); err != nil {
		res = s.fail(err)
	} else {
		s.table = table
		s.uploadErr = ""
		res = Result{Rows: len(table)}
	}

	if res.OK() {
		log.Debug("paste accepted", "rows", res.Rows)
		s.observePaste("ok", res.Rows)
	} else {
		log.Info("paste rejected", "error", res.Err)
		s.observePaste(core.KindOf(res.Err).String(), 0)
	}
	return res
}

// OnFileSelected dispatches f and commits the result if no newer request
// started while it ran. The state lock is not held during dispatch.
func (s *State) OnFileSelected(ctx context.Context, d Dispatcher, f dispatch.File) Result {
	token := s.begin()
	log := logging.WithFields(ctx, "file", f.Name)

	table, err := d.Dispatch(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest {
		log.Info("discarding stale upload result", "token", token, "latest", s.latest)
		return Result{Err: ErrStale}
	}

	if err != nil {
		log.Info("upload rejected", "error", err)
		return s.fail(err)
	}

	s.table = table
	s.uploadErr = ""
	log.Debug("upload accepted", "rows", len(table))
	return Result{Rows: len(table)}
}

// Reject records err as the upload error for a request that failed before
// dispatch (oversized body, missing file). It counts as a new request, so
// an older pending upload will not overwrite it.
func (s *State) Reject(ctx context.Context, err error) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.latest++

	logging.FromContext(ctx).Info("upload rejected", "error", err)
	return s.fail(err)
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Table:   s.table.Clone(),
		Error:   s.uploadErr,
		Pending: s.pending,
	}
}

// LastSeen returns the time of the last transition or lookup.
func (s *State) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch marks the session as active.
func (s *State) Touch() {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
}

func (s *State) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.latest++
	return s.latest
}

// fail records err's user message. Caller holds mu.
func (s *State) fail(err error) Result {
	msg := core.MapError(err).Message
	s.uploadErr = msg
	return Result{Err: err, Message: msg}
}

// touch updates lastSeen. Caller holds mu.
func (s *State) touch() {
	s.lastSeen = s.now()
}

func (s *State) observePaste(outcome string, rows int) {
	if s.observer != nil {
		s.observer.ObservePaste(outcome, rows)
	}
}
