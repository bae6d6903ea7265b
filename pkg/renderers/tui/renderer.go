package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/pkg/export"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/rules"
	"github.com/goliatone/go-roleform/pkg/session"
	"github.com/goliatone/go-roleform/pkg/submission"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer by walking the user through the form in
// the terminal. Every answer is fed to a session as a change event, so the
// prompts follow the same visibility rules as any other host.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	sink         export.Sink
	hook         submission.Hook
	logger       *zap.Logger
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return export.ContentType
	}
}

// Render prompts for the role selection, then a confirm per revealed checkbox
// followed by an input when the confirm reveals its textfield, and finally
// submits. The serialized payload is returned.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	sessionOpts := []session.Option{session.WithLogger(r.logger)}
	if opts.SessionID != "" {
		sessionOpts = append(sessionOpts, session.WithID(opts.SessionID))
	}
	if r.hook != nil {
		sessionOpts = append(sessionOpts, session.WithHook(r.hook))
	}
	s := session.New(schema, sessionOpts...)

	if schema.Title != "" {
		if err := r.info(ctx, schema.Title); err != nil {
			return nil, err
		}
	}

	snapshot, err := r.promptSelection(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	if !snapshot.Schema.AnyCheckboxVisible() {
		_ = r.info(ctx, r.theme.ErrorPrefix+"No role selected, nothing to submit.")
		return nil, ErrNothingSelected
	}

	for _, roleID := range snapshot.Schema.Pairs() {
		if err := r.promptPair(ctx, s, roleID, opts); err != nil {
			return nil, err
		}
	}

	payload, err := s.Submit(ctx)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	if r.sink != nil {
		if err := r.sink.Export(ctx, payload); err != nil {
			return nil, fmt.Errorf("tui: export: %w", err)
		}
		if path, ok := r.sink.(interface{ Path() string }); ok {
			_ = r.info(ctx, "Exported "+path.Path())
		}
	}

	return r.serialize(payload)
}

func (r *Renderer) promptSelection(ctx context.Context, s *session.Session, opts render.RenderOptions) (session.Snapshot, error) {
	snapshot := s.Snapshot()
	field, ok := snapshot.Schema.Select()
	if !ok {
		return snapshot, errors.New("tui: schema has no select field")
	}

	labels := make([]string, 0, len(field.Options))
	values := make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		labels = append(labels, optionLabel(option))
		values = append(values, option.Value)
	}

	var defaults []int
	for _, id := range rules.SelectedRoleIDs(opts.Value(*field)) {
		if idx := slices.Index(values, id); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  displayLabel(*field),
		Options:  labels,
		Defaults: defaults,
		Help:     field.Placeholder,
	})
	if err != nil {
		return snapshot, err
	}

	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(values) {
			selected = append(selected, values[idx])
		}
	}
	return s.Apply(rules.ChangeEvent{FieldKey: field.Key, Kind: model.FieldKindSelect, Value: selected})
}

func (r *Renderer) promptPair(ctx context.Context, s *session.Session, roleID string, opts render.RenderOptions) error {
	snapshot := s.Snapshot()
	checkbox := snapshot.Schema.MustLookup(model.FieldKindCheckbox, roleID)
	if checkbox.Hidden {
		return nil
	}
	textField := snapshot.Schema.MustLookup(model.FieldKindTextField, roleID)

	current, _ := opts.Value(*checkbox).(bool)
	checked, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Include %s?", displayLabel(*checkbox)),
		Default: current,
		Help:    textField.Description,
	})
	if err != nil {
		return err
	}
	snapshot, err = s.Apply(rules.ChangeEvent{FieldKey: checkbox.Key, Kind: model.FieldKindCheckbox, Value: checked})
	if err != nil {
		return err
	}

	textField = snapshot.Schema.MustLookup(model.FieldKindTextField, roleID)
	if textField.Hidden {
		return nil
	}
	def, _ := snapshot.Data[textField.Key].(string)
	if prefill, ok := opts.Values[textField.Key].(string); ok {
		def = prefill
	}
	text, err := r.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("%s description", displayLabel(*checkbox)),
		Default: def,
		Help:    textField.Description,
	})
	if err != nil {
		return err
	}
	_, err = s.Apply(rules.ChangeEvent{FieldKey: textField.Key, Kind: model.FieldKindTextField, Value: text})
	return err
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(payload submission.Payload) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(payload)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(payload)), nil
	default:
		var buf bytes.Buffer
		if err := export.JSON(&buf, payload); err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		return buf.Bytes(), nil
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}

func optionLabel(option model.Option) string {
	if option.Label == "" || option.Label == option.Value {
		return option.Value
	}
	return fmt.Sprintf("%s (%s)", option.Label, option.Value)
}

func flattenForm(payload submission.Payload) string {
	values := url.Values{}
	for key, value := range payload {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case []any:
			for _, item := range v {
				values.Add(key, fmt.Sprint(item))
			}
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

func prettyPrint(payload submission.Payload) string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := payload[key].(type) {
		case []string:
			fmt.Fprintf(&b, "%s=%s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
