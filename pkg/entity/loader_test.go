package entity_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleform/pkg/entity"
)

func TestFileSource_JSONAndYAMLAgree(t *testing.T) {
	want := []entity.Entity{
		{Role: "Owner", RoleID: "owner", RoleDescription: "Owns the account", CreatedDate: "2022-01-01"},
		{Role: "Guest", RoleID: "guest", RoleDescription: "Temporary access", CreatedDate: "2022-02-01"},
	}

	for _, name := range []string{"roles.json", "roles.yaml"} {
		t.Run(name, func(t *testing.T) {
			got, err := entity.SourceFromFile(filepath.Join("testdata", name)).Entities(context.Background())
			if err != nil {
				t.Fatalf("load %s: %v", name, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("entities mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_RejectsDuplicateRoleIDs(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "duplicate.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	_, err = entity.Parse(data, entity.FormatJSON)
	if !errors.Is(err, entity.ErrDuplicateRoleID) {
		t.Fatalf("expected ErrDuplicateRoleID, got %v", err)
	}
}

func TestParse_SchemaViolation(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "invalid.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	_, err = entity.Parse(data, entity.FormatJSON)
	if err == nil {
		t.Fatal("expected validation error for entity without role_id")
	}
	if !strings.Contains(err.Error(), "entity: invalid document") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	if _, err := entity.Parse([]byte("  \n"), entity.FormatJSON); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestParse_EmptyListIsValid(t *testing.T) {
	got, err := entity.Parse([]byte(`{"mappings": []}`), entity.FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entities, got %d", len(got))
	}
}

func TestEmbedded_LoadsSampleDataset(t *testing.T) {
	got, err := entity.Embedded().Entities(context.Background())
	if err != nil {
		t.Fatalf("embedded: %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.RoleID)
	}
	want := []string{"admin", "editor", "reviewer", "viewer"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("embedded role ids mismatch (-want +got):\n%s", diff)
	}
}

func TestStatic_ReturnsCopy(t *testing.T) {
	src := entity.Static{{Role: "A", RoleID: "a"}}
	got, err := src.Entities(context.Background())
	if err != nil {
		t.Fatalf("static: %v", err)
	}
	got[0].Role = "mutated"
	if src[0].Role != "A" {
		t.Fatalf("static source mutated through returned slice")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]entity.Format{
		"roles.yaml": entity.FormatYAML,
		"roles.YML":  entity.FormatYAML,
		"roles.json": entity.FormatJSON,
		"roles":      entity.FormatJSON,
	}
	for path, want := range cases {
		if got := entity.FormatFromPath(path); got != want {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCheckUnique_RejectsEmptyRoleID(t *testing.T) {
	err := entity.CheckUnique([]entity.Entity{{Role: "A", RoleID: "a"}, {Role: "Blank", RoleID: " "}})
	if !errors.Is(err, entity.ErrEmptyRoleID) {
		t.Fatalf("expected ErrEmptyRoleID, got %v", err)
	}
}
