package schemajson

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
)

// Name is the registry name of the JSON renderer.
const Name = "json"

// Document is the serialized form handed to external renderers. Data always
// carries a value for every input field, defaults included.
type Document struct {
	SessionID  string         `json:"sessionId,omitempty"`
	Revision   int            `json:"revision"`
	Components []model.Field  `json:"components"`
	Data       map[string]any `json:"data"`
	Links      *Links         `json:"links,omitempty"`
	Theme      *Theme         `json:"theme,omitempty"`
}

// Links points external renderers at the host endpoints.
type Links struct {
	Submit  string `json:"submit,omitempty"`
	Changes string `json:"changes,omitempty"`
	Export  string `json:"export,omitempty"`
}

// Theme carries the resolved theme selection.
type Theme struct {
	Name    string            `json:"name"`
	Variant string            `json:"variant,omitempty"`
	CSSVars map[string]string `json:"cssVars,omitempty"`
}

type Option func(*Renderer)

// WithIndent pretty-prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer serializes schema and captured data as JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := Build(schema, opts)
	var (
		payload []byte
		err     error
	)
	if r.indent != "" {
		payload, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		payload, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("schemajson: encode: %w", err)
	}
	return payload, nil
}

// Build assembles the document without encoding it.
func Build(schema model.Schema, opts render.RenderOptions) Document {
	clone := schema.Clone()
	doc := Document{
		SessionID:  opts.SessionID,
		Revision:   opts.Revision,
		Components: clone.Fields,
		Data:       clone.Defaults(),
	}
	if doc.Components == nil {
		doc.Components = []model.Field{}
	}
	for key, value := range opts.Values {
		if _, ok := clone.Field(key); ok {
			doc.Data[key] = value
		}
	}
	if opts.Action != "" || opts.ChangeURL != "" || opts.ExportURL != "" {
		doc.Links = &Links{Submit: opts.Action, Changes: opts.ChangeURL, Export: opts.ExportURL}
	}
	if cfg := opts.Theme; cfg != nil {
		doc.Theme = &Theme{Name: cfg.Theme, Variant: cfg.Variant, CSSVars: cfg.CSSVars}
	}
	return doc
}
