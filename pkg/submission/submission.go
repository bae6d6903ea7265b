package submission

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/rules"
)

// ErrHookIncomplete is returned by Run when a hook returns without invoking
// its callback. Hosts would otherwise stall the submission forever.
var ErrHookIncomplete = errors.New("submission: pre-submit hook returned without calling back")

// Payload is the data that leaves the form after the pre-submit hook.
type Payload map[string]any

// Submission mirrors the host's submit envelope.
type Submission struct {
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
	State    string         `json:"state,omitempty"`
}

// Callback completes a hook: (nil, rewritten) to proceed, (err, original) to
// abort.
type Callback func(err error, sub *Submission)

// Hook intercepts a submission before the host finalises it. Implementations
// must call done exactly once before returning.
type Hook func(sub *Submission, done Callback)

// Transform keeps values_select plus, for every selected role whose checkbox
// is checked, that role's textfield value. Everything else is dropped. raw is
// not modified and the result is freshly allocated on every call.
func Transform(raw map[string]any, schema model.Schema) Payload {
	selected := rules.SelectedRoleIDs(raw[model.SelectKey])
	if selected == nil {
		selected = []string{}
	}
	payload := Payload{model.SelectKey: selected}

	for _, roleID := range selected {
		if _, ok := schema.Lookup(model.FieldKindCheckbox, roleID); !ok {
			continue
		}
		checkboxKey := model.KeyFor(roleID, model.FieldKindCheckbox).String()
		if checked, ok := raw[checkboxKey].(bool); !ok || !checked {
			continue
		}
		textKey := model.KeyFor(roleID, model.FieldKindTextField).String()
		if value, ok := raw[textKey]; ok {
			payload[textKey] = value
		}
	}
	return payload
}

// BeforeSubmit returns the hook that replaces the submission data with
// Transform's payload. It never fails.
func BeforeSubmit(schema model.Schema) Hook {
	return func(sub *Submission, done Callback) {
		if sub == nil {
			done(nil, sub)
			return
		}
		sub.Data = Transform(sub.Data, schema)
		done(nil, sub)
	}
}

// Run invokes hook synchronously and returns the submission it called back
// with. On a hook error the original submission is returned with the error.
func Run(hook Hook, sub *Submission) (*Submission, error) {
	if hook == nil {
		return sub, nil
	}

	var (
		called  bool
		out     *Submission
		hookErr error
	)
	hook(sub, func(err error, result *Submission) {
		if called {
			return
		}
		called = true
		out, hookErr = result, err
	})

	if !called {
		return sub, ErrHookIncomplete
	}
	if hookErr != nil {
		return sub, fmt.Errorf("submission: pre-submit hook: %w", hookErr)
	}
	if out == nil {
		out = sub
	}
	return out, nil
}
