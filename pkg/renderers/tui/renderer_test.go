package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleform/pkg/export"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	inputCfgs    []InputConfig
	confirmCfgs  []ConfirmConfig
	multiCfgs    []SelectConfig
	inputPos     int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	s.confirmCfgs = append(s.confirmCfgs, cfg)
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	s.multiCfgs = append(s.multiCfgs, cfg)
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newSchema() model.Schema {
	return model.BuildSchema(testsupport.Entities())
}

func TestRender_SelectConfirmInput(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{0, 2}},
		confirm:  []bool{true, false},
		inputs:   []string{"edited"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), newSchema(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got := string(out); got != `{"r1_textfield":"edited","values_select":["r1","r3"]}` {
		t.Fatalf("unexpected output %s", got)
	}
	if driver.confirmPos != 2 || driver.inputPos != 1 {
		t.Fatalf("prompts not consumed as expected: confirms=%d inputs=%d", driver.confirmPos, driver.inputPos)
	}
	wantOptions := []string{"Role One (r1)", "Role Two (r2)", "Role Three (r3)"}
	if diff := cmp.Diff(wantOptions, driver.multiCfgs[0].Options); diff != "" {
		t.Fatalf("select options mismatch (-want +got):\n%s", diff)
	}
	if driver.confirmCfgs[0].Message != "Include r1?" || driver.confirmCfgs[1].Message != "Include r3?" {
		t.Fatalf("unexpected confirm prompts %+v", driver.confirmCfgs)
	}
	if driver.inputCfgs[0].Default != "First role" {
		t.Fatalf("input default = %q, want role description", driver.inputCfgs[0].Default)
	}
}

func TestRender_NothingSelected(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{nil}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), newSchema(), render.RenderOptions{}); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected, got %v", err)
	}
	if driver.confirmPos != 0 {
		t.Fatal("no confirm prompts expected without a selection")
	}
}

func TestRender_PrefillDefaults(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{1}},
		confirm:  []bool{true},
		inputs:   []string{"kept"},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), newSchema(), render.RenderOptions{Values: map[string]any{
		"values_select": []string{"r2"},
		"r2_checkbox":   true,
		"r2_textfield":  "prefilled",
	}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]int{1}, driver.multiCfgs[0].Defaults); diff != "" {
		t.Fatalf("select defaults mismatch (-want +got):\n%s", diff)
	}
	if !driver.confirmCfgs[0].Default || driver.inputCfgs[0].Default != "prefilled" {
		t.Fatal("prefilled values should seed prompt defaults")
	}
	if got := string(out); got != "r2_textfield=kept\nvalues_select=r2\n" {
		t.Fatalf("unexpected pretty output %q", got)
	}
}

func TestRender_FormOutputAndExport(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{0, 1}},
		confirm:  []bool{true, true},
		inputs:   []string{"a b", "c"},
	}
	var exported bytes.Buffer
	r, err := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithExportSink(export.WriterSink{W: &exported}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %s", r.ContentType())
	}

	out, err := r.Render(context.Background(), newSchema(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "r1_textfield=a+b&r2_textfield=c&values_select=r1&values_select=r2" {
		t.Fatalf("unexpected form output %q", got)
	}
	if got := exported.String(); got != `{"r1_textfield":"a b","r2_textfield":"c","values_select":["r1","r2"]}` {
		t.Fatalf("unexpected export %q", got)
	}
}

func TestRender_AbortPropagates(t *testing.T) {
	r, err := New(WithPromptDriver(abortDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), newSchema(), render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml")); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestRender_TitleInfo(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{0}}, confirm: []bool{false}}
	r, err := New(WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "> "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	schema := newSchema()
	schema.Title = "Assign roles"

	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(driver.infoMessages[0], "> Assign roles") {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
	if got := string(out); got != `{"values_select":["r1"]}` {
		t.Fatalf("unexpected output %s", got)
	}
}

type abortDriver struct{}

func (abortDriver) Input(context.Context, InputConfig) (string, error)       { return "", ErrAborted }
func (abortDriver) Confirm(context.Context, ConfirmConfig) (bool, error)     { return false, ErrAborted }
func (abortDriver) MultiSelect(context.Context, SelectConfig) ([]int, error) { return nil, ErrAborted }
func (abortDriver) Info(context.Context, string) error                       { return nil }
