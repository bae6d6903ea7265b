package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/rules"
	"github.com/goliatone/go-roleform/pkg/submission"
)

var (
	// ErrSubmitDisabled is returned by Submit while no checkbox is visible.
	ErrSubmitDisabled = errors.New("session: submit is disabled")
	// ErrUnknownField is returned for events whose key is not in the schema.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrInvalidEvent is returned for events whose kind or value does not
	// match the targeted field.
	ErrInvalidEvent = errors.New("session: invalid event")
	// ErrFieldHidden is returned for events targeting a hidden field.
	ErrFieldHidden = errors.New("session: field is hidden")
	// ErrNothingSubmitted is returned by LastCaptured before the first submit.
	ErrNothingSubmitted = errors.New("session: nothing submitted yet")
)

// Snapshot is a point-in-time copy of a session's schema and captured data.
type Snapshot struct {
	ID       string         `json:"id"`
	Revision int            `json:"revision"`
	Schema   model.Schema   `json:"schema"`
	Data     map[string]any `json:"data"`
}

// Option configures a Session.
type Option func(*Session)

// WithEngine overrides the rule engine.
func WithEngine(engine *rules.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithHook overrides the pre-submit hook. The default is
// submission.BeforeSubmit over the session's schema.
func WithHook(hook submission.Hook) Option {
	return func(s *Session) {
		s.hook = hook
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session owns one form: its schema, the captured data and the last submitted
// payload. All methods are safe for concurrent use; events are applied one at
// a time in arrival order.
type Session struct {
	mu sync.Mutex

	id       string
	engine   *rules.Engine
	hook     submission.Hook
	logger   *zap.Logger
	schema   model.Schema
	data     map[string]any
	revision int
	last     submission.Payload

	createdAt    time.Time
	lastActiveAt time.Time
}

// New creates a session over a private copy of schema. Captured data starts
// from the schema defaults.
func New(schema model.Schema, options ...Option) *Session {
	now := time.Now()
	s := &Session{
		id:           uuid.New().String(),
		schema:       schema.Clone(),
		logger:       zap.NewNop(),
		createdAt:    now,
		lastActiveAt: now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.engine == nil {
		s.engine = rules.New(rules.WithLogger(s.logger))
	}
	if s.hook == nil {
		s.hook = submission.BeforeSubmit(s.schema.Clone())
	}
	s.data = s.schema.Defaults()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Apply records ev's value in the captured data and runs the rule engine.
// Checkbox events that do not change the captured value are accepted without
// re-running the engine, since the engine toggles rather than sets.
func (s *Session) Apply(ev rules.ChangeEvent) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	field, ok := s.schema.Field(ev.FieldKey)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownField, ev.FieldKey)
	}
	if ev.Kind == "" {
		ev.Kind = field.Kind
	}
	if ev.Kind != field.Kind {
		return Snapshot{}, fmt.Errorf("%w: %q is a %s, not a %s", ErrInvalidEvent, field.Key, field.Kind, ev.Kind)
	}
	if field.Hidden {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrFieldHidden, field.Key)
	}

	switch field.Kind {
	case model.FieldKindSelect:
		selected := knownOptions(*field, rules.SelectedRoleIDs(ev.Value))
		ev.Value = selected
		s.data[field.Key] = append(make([]string, 0, len(selected)), selected...)
	case model.FieldKindCheckbox:
		checked, ok := ev.Value.(bool)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: checkbox %q expects a boolean", ErrInvalidEvent, field.Key)
		}
		if current, _ := s.data[field.Key].(bool); current == checked {
			return s.snapshotLocked(), nil
		}
		s.data[field.Key] = checked
	case model.FieldKindTextField:
		text, ok := ev.Value.(string)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: textfield %q expects a string", ErrInvalidEvent, field.Key)
		}
		s.data[field.Key] = text
	default:
		return s.snapshotLocked(), nil
	}

	ev.Data = s.data
	result := s.engine.OnFieldChange(&s.schema, ev)
	if result.Rerender {
		s.revision++
	}

	s.logger.Debug("change applied",
		zap.String("session", s.id),
		zap.String("key", field.Key),
		zap.Int("revision", s.revision),
	)
	return s.snapshotLocked(), nil
}

// Submit runs the pre-submit hook over a copy of the captured data and stores
// the resulting payload for export.
func (s *Session) Submit(ctx context.Context) (submission.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if button, ok := s.schema.Submit(); ok && button.Disabled {
		return nil, ErrSubmitDisabled
	}

	sub := &submission.Submission{
		Data:  cloneData(s.data),
		State: "submitted",
	}
	out, err := submission.Run(s.hook, sub)
	if err != nil {
		return nil, fmt.Errorf("session: submit: %w", err)
	}

	s.last = submission.Payload(cloneData(out.Data))
	s.logger.Info("form submitted",
		zap.String("session", s.id),
		zap.Int("fields", len(s.last)),
	)
	return submission.Payload(cloneData(s.last)), nil
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LastCaptured returns a copy of the last submitted payload.
func (s *Session) LastCaptured() (submission.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, ErrNothingSubmitted
	}
	return submission.Payload(cloneData(s.last)), nil
}

// IsIdle reports whether the session has been idle longer than timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActiveAt) > timeout
}

func (s *Session) touch() {
	s.lastActiveAt = time.Now()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:       s.id,
		Revision: s.revision,
		Schema:   s.schema.Clone(),
		Data:     cloneData(s.data),
	}
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case []string:
			out[key] = append(make([]string, 0, len(v)), v...)
		case []any:
			out[key] = append(make([]any, 0, len(v)), v...)
		default:
			out[key] = value
		}
	}
	return out
}

// knownOptions keeps the selected ids that name one of field's options, in
// selection order and without repeats. The result is never nil.
func knownOptions(field model.Field, selected []string) []string {
	valid := make(map[string]bool, len(field.Options))
	for _, option := range field.Options {
		valid[option.Value] = true
	}
	out := make([]string, 0, len(selected))
	for _, id := range selected {
		if valid[id] {
			out = append(out, id)
			valid[id] = false
		}
	}
	return out
}
