package thread

import (
	"strings" // trims titles and response text
	"sync"    // guards the scope map

	"github.com/iliyamo/studentdev-hub/internal/clock" // injectable time source
	"github.com/iliyamo/studentdev-hub/internal/model" // submission and response types
)

type (
	submissions = Thread[model.Submission, model.SubmissionPatch]
	responses   = Thread[model.Response, model.ResponsePatch]
)

// Board holds submission threads keyed by scope, such as "project_2" or
// "track_cyber_module_5". Each submission carries its own response thread.
type Board struct {
	clock clock.Clock // shared by every thread on the board

	mu     sync.Mutex
	scopes map[string]*boardScope // created on first submission
}

// boardScope is one scope's submissions and their response threads.
type boardScope struct {
	subs    *submissions          // posting order
	replies map[string]*responses // by submission id
}

// NewBoard returns an empty board.
func NewBoard(c clock.Clock) *Board {
	return &Board{clock: c, scopes: make(map[string]*boardScope)}
}

// scope returns the scope for key, creating it when asked. Callers hold mu.
func (b *Board) scope(key string, create bool) *boardScope {
	s, ok := b.scopes[key]
	if !ok && create {
		s = &boardScope{subs: NewThread[model.Submission, model.SubmissionPatch](b.clock), replies: map[string]*responses{}}
		b.scopes[key] = s
	}
	return s
}

// Submit posts sub for any caller. A blank title is rejected.
func (b *Board) Submit(caller *model.User, scope string, sub model.Submission) (model.Submission, bool) {
	if strings.TrimSpace(sub.Title) == "" {
		return model.Submission{}, false
	}
	sub.Responses = nil // responses only arrive through Respond

	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.scope(scope, true)                                                      // first post creates the scope
	posted := s.subs.Post(caller, sub)                                             // stamps id, author and ts
	s.replies[posted.ID] = NewThread[model.Response, model.ResponsePatch](b.clock) // empty response thread
	posted.Responses = []model.Response{}                                          // serialised as [] rather than null
	return posted, true
}

// EditSubmission lets the author change title, notes, work and result.
func (b *Board) EditSubmission(caller *model.User, scope, id string, patch model.SubmissionPatch) (model.Submission, bool) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Submission{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.scope(scope, false)
	if s == nil {
		return model.Submission{}, false
	}
	sub, ok := s.subs.Edit(caller, id, patch)
	if !ok {
		return model.Submission{}, false
	}
	return s.withResponses(sub), true
}

// DeleteSubmission removes a submission and its responses. Admin only.
func (b *Board) DeleteSubmission(caller *model.User, scope, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.scope(scope, false)
	if s == nil || !s.subs.Delete(caller, id) {
		return false
	}
	delete(s.replies, id) // responses go with the submission
	return true
}

// Respond appends a response under submission id. Text is trimmed and
// must not be blank.
func (b *Board) Respond(caller *model.User, scope, id, text string) (model.Response, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Response{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.replies(scope, id)
	if r == nil {
		return model.Response{}, false
	}
	return r.Post(caller, model.Response{Text: text}), true
}

// EditResponse lets the author replace the response text (trimmed).
func (b *Board) EditResponse(caller *model.User, scope, id, responseID, text string) (model.Response, bool) {
	text = strings.TrimSpace(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.replies(scope, id)
	if r == nil {
		return model.Response{}, false
	}
	return r.Edit(caller, responseID, model.ResponsePatch{Text: &text})
}

// DeleteResponse removes one response. Admin only.
func (b *Board) DeleteResponse(caller *model.User, scope, id, responseID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.replies(scope, id)
	return r != nil && r.Delete(caller, responseID)
}

// Get returns one submission with its responses.
func (b *Board) Get(scope, id string) (model.Submission, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.scope(scope, false)
	if s == nil {
		return model.Submission{}, false
	}
	sub, ok := s.subs.Get(id)
	if !ok {
		return model.Submission{}, false
	}
	return s.withResponses(sub), true
}

// List returns the submissions of scope in posting order, each with its
// responses in posting order.
func (b *Board) List(scope string) []model.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.scope(scope, false)
	if s == nil {
		return []model.Submission{}
	}
	subs := s.subs.List()
	for i := range subs {
		subs[i] = s.withResponses(subs[i])
	}
	return subs
}

// Drop forgets scope with all its submissions and responses.
func (b *Board) Drop(scope string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.scopes, scope)
}

// replies returns the response thread of a submission, or nil.
func (b *Board) replies(scope, id string) *responses {
	s := b.scope(scope, false)
	if s == nil {
		return nil
	}
	return s.replies[id]
}

// withResponses attaches the current responses to sub.
func (s *boardScope) withResponses(sub model.Submission) model.Submission {
	sub.Responses = []model.Response{}
	if r := s.replies[sub.ID]; r != nil {
		sub.Responses = r.List()
	}
	return sub
}
