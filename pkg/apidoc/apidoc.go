package apidoc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-roleform/pkg/model"
)

const (
	defaultTitle   = "roleform"
	defaultVersion = "1.0.0"

	refPayload     = "#/components/schemas/Payload"
	refChangeEvent = "#/components/schemas/ChangeEvent"
	refSnapshot    = "#/components/schemas/Snapshot"
	refError       = "#/components/schemas/Error"
)

// Option configures the generated document.
type Option func(*config)

type config struct {
	title   string
	version string
	servers []string
}

// WithTitle overrides the info title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

// WithVersion overrides the info version.
func WithVersion(version string) Option {
	return func(cfg *config) {
		if version != "" {
			cfg.version = version
		}
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.servers = append(cfg.servers, url)
		}
	}
}

// Build describes the HTTP host endpoints for schema. The submission payload
// schema is derived from the form: the selected role ids plus one optional
// string per textfield. The document is validated before it is returned.
func Build(ctx context.Context, schema model.Schema, options ...Option) (*openapi3.T, error) {
	cfg := config{title: defaultTitle, version: defaultVersion}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Payload":     openapi3.NewSchemaRef("", PayloadSchema(schema)),
				"ChangeEvent": openapi3.NewSchemaRef("", changeEventSchema(schema)),
				"Snapshot":    openapi3.NewSchemaRef("", snapshotSchema()),
				"Error":       openapi3.NewSchemaRef("", errorSchema()),
			},
		},
	}
	for _, url := range cfg.servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: url})
	}

	addOperations(doc, schema)

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: invalid document: %w", err)
	}
	return doc, nil
}

// PayloadSchema returns the JSON schema of a submitted payload.
func PayloadSchema(schema model.Schema) *openapi3.Schema {
	items := openapi3.NewStringSchema()
	if field, ok := schema.Select(); ok {
		for _, option := range field.Options {
			items.Enum = append(items.Enum, option.Value)
		}
	}

	payload := openapi3.NewObjectSchema()
	payload.Description = "Selected role ids plus the description of every checked role."
	payload.WithProperty(model.SelectKey, openapi3.NewArraySchema().WithItems(items))
	for _, field := range schema.Fields {
		if field.Kind != model.FieldKindTextField {
			continue
		}
		prop := openapi3.NewStringSchema()
		prop.Description = field.Description
		payload.WithProperty(field.Key, prop)
	}
	payload.Required = []string{model.SelectKey}
	return payload
}

func changeEventSchema(schema model.Schema) *openapi3.Schema {
	keys := openapi3.NewStringSchema()
	for _, field := range schema.Fields {
		if field.Kind == model.FieldKindButton {
			continue
		}
		keys.Enum = append(keys.Enum, field.Key)
	}
	kinds := openapi3.NewStringSchema()
	kinds.Enum = []any{
		string(model.FieldKindSelect),
		string(model.FieldKindCheckbox),
		string(model.FieldKindTextField),
	}

	event := openapi3.NewObjectSchema()
	event.WithProperty("key", keys)
	event.WithProperty("type", kinds)
	event.WithProperty("value", openapi3.NewSchema())
	event.Required = []string{"key", "value"}
	return event
}

func snapshotSchema() *openapi3.Schema {
	snapshot := openapi3.NewObjectSchema()
	snapshot.WithProperty("id", openapi3.NewStringSchema())
	snapshot.WithProperty("revision", openapi3.NewIntegerSchema())
	snapshot.WithProperty("schema", openapi3.NewObjectSchema())
	snapshot.WithProperty("data", openapi3.NewObjectSchema())
	return snapshot
}

func errorSchema() *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.WithProperty("error", openapi3.NewStringSchema())
	out.WithProperty("code", openapi3.NewStringSchema())
	out.Required = []string{"error", "code"}
	return out
}

func addOperations(doc *openapi3.T, schema model.Schema) {
	sessionID := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithDescription("Session id").
			WithSchema(openapi3.NewStringSchema()),
	}

	create := newOperation("createSession", "Start a form session")
	create.AddResponse(http.StatusCreated, jsonResponse("New session snapshot", refSnapshot, snapshotSchema()))
	doc.AddOperation("/sessions", http.MethodPost, create)

	form := newOperation("renderForm", "Render the form as HTML")
	form.Parameters = openapi3.Parameters{sessionID}
	form.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("HTML form").
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})))
	form.AddResponse(http.StatusNotFound, errorResponse("Unknown session"))
	doc.AddOperation("/sessions/{id}", http.MethodGet, form)

	snapshot := newOperation("getSchema", "Current schema and captured data")
	snapshot.Parameters = openapi3.Parameters{sessionID}
	snapshot.AddResponse(http.StatusOK, jsonResponse("Session snapshot", refSnapshot, snapshotSchema()))
	snapshot.AddResponse(http.StatusNotFound, errorResponse("Unknown session"))
	doc.AddOperation("/sessions/{id}/schema", http.MethodGet, snapshot)

	change := newOperation("applyChange", "Apply a field change event")
	change.Parameters = openapi3.Parameters{sessionID}
	change.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(refChangeEvent, changeEventSchema(schema)))),
	}
	change.AddResponse(http.StatusOK, jsonResponse("Updated snapshot", refSnapshot, snapshotSchema()))
	change.AddResponse(http.StatusBadRequest, errorResponse("Invalid event"))
	change.AddResponse(http.StatusNotFound, errorResponse("Unknown session"))
	doc.AddOperation("/sessions/{id}/changes", http.MethodPost, change)

	submit := newOperation("submit", "Run the pre-submit hook and store the payload")
	submit.Parameters = openapi3.Parameters{sessionID}
	submit.AddResponse(http.StatusOK, jsonResponse("Submitted payload", refPayload, PayloadSchema(schema)))
	submit.AddResponse(http.StatusConflict, errorResponse("Submit is disabled"))
	submit.AddResponse(http.StatusNotFound, errorResponse("Unknown session"))
	doc.AddOperation("/sessions/{id}/submit", http.MethodPost, submit)

	download := newOperation("exportData", "Download the last payload as data.json")
	download.Parameters = openapi3.Parameters{sessionID}
	download.AddResponse(http.StatusOK, jsonResponse("data.json attachment", refPayload, PayloadSchema(schema)))
	download.AddResponse(http.StatusConflict, errorResponse("Nothing submitted yet"))
	download.AddResponse(http.StatusNotFound, errorResponse("Unknown session"))
	doc.AddOperation("/sessions/{id}/export", http.MethodGet, download)

	spec := newOperation("openapi", "This document")
	spec.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("OpenAPI 3 document").
		WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema())))
	doc.AddOperation("/openapi.json", http.MethodGet, spec)

	health := newOperation("healthz", "Liveness probe")
	health.AddResponse(http.StatusOK, openapi3.NewResponse().WithDescription("OK"))
	doc.AddOperation("/healthz", http.MethodGet, health)
}

func newOperation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	return op
}

func jsonResponse(description, ref string, value *openapi3.Schema) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(ref, value)))
}

func errorResponse(description string) *openapi3.Response {
	return jsonResponse(description, refError, errorSchema())
}
