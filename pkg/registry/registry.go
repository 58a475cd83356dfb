// pkg/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrActivityNotFound    = errors.New("ACTIVITY_NOT_FOUND")
	ErrActivityFull        = errors.New("ACTIVITY_FULL")
	ErrParticipantNotFound = errors.New("PARTICIPANT_NOT_FOUND")
	ErrAlreadySignedUp     = errors.New("ALREADY_SIGNED_UP")
	ErrInvalidSeed         = errors.New("INVALID_SEED")
)

// entry guards one activity's roster.
type entry struct {
	mu       sync.Mutex
	activity Activity
}

// Registry holds every activity and its participant roster. The set of
// activities is fixed at construction; only rosters change afterwards, so
// the map itself is never written once New returns.
type Registry struct {
	activities       map[string]*entry
	rejectDuplicates bool
}

type Option func(*Registry)

// WithDuplicateRejection makes SignUp fail with ErrAlreadySignedUp when the
// email is already on the roster. By default duplicates are accepted.
func WithDuplicateRejection(reject bool) Option {
	return func(r *Registry) {
		r.rejectDuplicates = reject
	}
}

// New builds a Registry from seed. The seed is copied; later changes to it
// do not affect the registry.
func New(seed Seed, opts ...Option) (*Registry, error) {
	r := &Registry{
		activities: make(map[string]*entry, len(seed)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for name, a := range seed {
		if name == "" {
			return nil, fmt.Errorf("%w: empty activity name", ErrInvalidSeed)
		}
		if a.MaxParticipants <= 0 {
			return nil, fmt.Errorf("%w: %s: max_participants must be positive", ErrInvalidSeed, name)
		}
		if len(a.Participants) > a.MaxParticipants {
			return nil, fmt.Errorf("%w: %s: %d participants exceed capacity %d",
				ErrInvalidSeed, name, len(a.Participants), a.MaxParticipants)
		}
		r.activities[name] = &entry{activity: a.clone()}
	}

	return r, nil
}

// ListActivities returns a snapshot of every activity, current rosters
// included.
func (r *Registry) ListActivities() map[string]Activity {
	out := make(map[string]Activity, len(r.activities))
	for name, e := range r.activities {
		e.mu.Lock()
		out[name] = e.activity.clone()
		e.mu.Unlock()
	}
	return out
}

// Get returns a snapshot of a single activity.
func (r *Registry) Get(name string) (Activity, bool) {
	e, ok := r.activities[name]
	if !ok {
		return Activity{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activity.clone(), true
}

// Names returns the registered activity names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignUp appends email to the named activity's roster.
func (r *Registry) SignUp(ctx context.Context, name, email string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.activities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.activity.Participants) >= e.activity.MaxParticipants {
		return nil, fmt.Errorf("%w: %s has %d of %d places taken",
			ErrActivityFull, name, len(e.activity.Participants), e.activity.MaxParticipants)
	}
	if r.rejectDuplicates && indexOf(e.activity.Participants, email) >= 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrAlreadySignedUp, email, name)
	}

	e.activity.Participants = append(e.activity.Participants, email)

	return &Receipt{
		Activity:     name,
		Email:        email,
		Message:      fmt.Sprintf("Signed up %s for %s", email, name),
		Participants: len(e.activity.Participants),
	}, nil
}

// Unregister removes the first occurrence of email from the named
// activity's roster.
func (r *Registry) Unregister(ctx context.Context, name, email string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, ok := r.activities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.activity.Participants, email)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrParticipantNotFound, email, name)
	}

	e.activity.Participants = append(e.activity.Participants[:i], e.activity.Participants[i+1:]...)

	return &Receipt{
		Activity:     name,
		Email:        email,
		Message:      fmt.Sprintf("Unregistered %s from %s", email, name),
		Participants: len(e.activity.Participants),
	}, nil
}

func (a Activity) clone() Activity {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)
	a.Participants = participants
	return a
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
