package model_test

import (
	"testing"

	"github.com/goliatone/go-roleform/pkg/model"
)

func TestFieldKey_RoundTrip(t *testing.T) {
	cases := []model.FieldKey{
		{RoleID: "r1", Kind: model.FieldKindCheckbox},
		{RoleID: "r1", Kind: model.FieldKindTextField},
		{RoleID: "team_lead", Kind: model.FieldKindCheckbox},
	}
	for _, key := range cases {
		parsed, err := model.ParseFieldKey(key.String())
		if err != nil {
			t.Fatalf("parse %q: %v", key.String(), err)
		}
		if parsed != key {
			t.Fatalf("round trip mismatch: want %+v, got %+v", key, parsed)
		}
	}
}

func TestParseFieldKey_Rejects(t *testing.T) {
	for _, raw := range []string{"", "submit", "values_select", "_checkbox", "r1_", "r1_button"} {
		if _, err := model.ParseFieldKey(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestFieldKey_Pair(t *testing.T) {
	key := model.KeyFor("r1", model.FieldKindCheckbox)
	if got := key.Pair().String(); got != "r1_textfield" {
		t.Fatalf("pair = %q", got)
	}
	if got := key.Pair().Pair(); got != key {
		t.Fatalf("pair of pair = %+v", got)
	}
}
