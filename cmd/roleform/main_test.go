package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleform/pkg/renderers/tui"
)

const dataset = `mappings:
  - role: Owner
    role_id: owner
    role_description: Owns the account
  - role: Guest
    role_id: guest
    role_description: Temporary access
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender_JSON(t *testing.T) {
	path := writeFile(t, "roles.yaml", dataset)
	out, err := run(t, newApp(), "render", "--renderer", "json", "--dataset", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}

	var doc struct {
		Components []struct {
			Key string `json:"key"`
		} `json:"components"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	var keys []string
	for _, c := range doc.Components {
		keys = append(keys, c.Key)
	}
	want := []string{"values_select", "owner_checkbox", "owner_textfield", "guest_checkbox", "guest_textfield", "submit"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("component keys mismatch (-want +got):\n%s", diff)
	}
	if doc.Data["guest_textfield"] != "Temporary access" {
		t.Fatalf("textfield default = %v", doc.Data["guest_textfield"])
	}
}

func TestRender_HTMLWithTitleAndPreset(t *testing.T) {
	path := writeFile(t, "roles.yaml", dataset)
	preset := writeFile(t, "preset.yaml", "fields:\n  values_select:\n    label: Pick roles\n")
	target := filepath.Join(t.TempDir(), "form.html")

	out, err := run(t, newApp(), "render", "--dataset", path, "--title", "Team", "--preset", preset, "--standalone=false", "-o", target)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	for _, want := range []string{"<h1>Team</h1>", "Pick roles", `data-key="owner_checkbox"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<!DOCTYPE html>") {
		t.Fatal("fragment output must not carry the document wrapper")
	}
}

func TestRender_ThemeNeedsManifest(t *testing.T) {
	if _, err := run(t, newApp(), "render", "--theme", "acme"); err == nil {
		t.Fatal("expected error for theme without manifest")
	}
}

func TestRender_ThemeManifest(t *testing.T) {
	manifest := writeFile(t, "theme.yaml", "name: acme\nversion: 1.0.0\ntokens:\n  brand: \"#123456\"\n")
	out, err := run(t, newApp(), "render", "--theme-file", manifest, "--standalone=false")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	if !strings.Contains(out, `data-theme="acme"`) {
		t.Fatalf("theme not applied:\n%s", out)
	}
}

func TestOpenAPI(t *testing.T) {
	out, err := run(t, newApp(), "openapi", "--server", "http://localhost:8080")
	if err != nil {
		t.Fatalf("openapi: %v\n%s", err, out)
	}
	var doc struct {
		OpenAPI string         `json:"openapi"`
		Paths   map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI != "3.0.3" {
		t.Fatalf("openapi version = %q", doc.OpenAPI)
	}
	if _, ok := doc.Paths["/sessions/{id}/submit"]; !ok {
		t.Fatalf("submit path missing: %v", doc.Paths)
	}
}

type scriptedDriver struct {
	selection []int
	confirms  []bool
	inputs    []string
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return d.selection, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestFill_WritesPayloadAndExport(t *testing.T) {
	path := writeFile(t, "roles.yaml", dataset)
	exportDir := t.TempDir()

	a := newApp()
	a.driver = &scriptedDriver{selection: []int{0, 1}, confirms: []bool{false, true}, inputs: []string{"Visitors"}}
	out, err := run(t, a, "fill", "--dataset", path, "--export-dir", exportDir)
	if err != nil {
		t.Fatalf("fill: %v\n%s", err, out)
	}

	want := `{"guest_textfield":"Visitors","values_select":["owner","guest"]}` + "\n"
	if out != want {
		t.Fatalf("payload = %q, want %q", out, want)
	}
	data, err := os.ReadFile(filepath.Join(exportDir, "data.json"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data)+"\n" != want {
		t.Fatalf("export = %s", data)
	}
}

func TestFill_PrettyFormat(t *testing.T) {
	path := writeFile(t, "roles.yaml", dataset)
	a := newApp()
	a.driver = &scriptedDriver{selection: []int{1}, confirms: []bool{true}, inputs: []string{"Short stay"}}

	out, err := run(t, a, "fill", "--dataset", path, "--format", "pretty")
	if err != nil {
		t.Fatalf("fill: %v\n%s", err, out)
	}
	if out != "guest_textfield=Short stay\nvalues_select=guest\n\n" {
		t.Fatalf("unexpected pretty output %q", out)
	}
}

func TestFill_RejectsUnknownFormat(t *testing.T) {
	a := newApp()
	a.driver = &scriptedDriver{}
	if _, err := run(t, a, "fill", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}
