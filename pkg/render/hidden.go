package render

import (
	"fmt"
	"sort"
	"strings"
)

// SessionFieldName is the hidden input carrying the session id.
const SessionFieldName = "_session"

// HiddenField represents a hidden form input emitted alongside the schema.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// SessionField returns the hidden input identifying a server-side session.
func SessionField(id string) HiddenField {
	return Hidden(SessionFieldName, id)
}

// HiddenFields merges the configured hidden inputs with the session field and
// returns them sorted by name. Empty names are dropped; the session field wins
// on collisions.
func (o RenderOptions) HiddenFields() []HiddenField {
	fields := make(map[string]string, len(o.Hidden)+1)
	for name, value := range o.Hidden {
		if key := strings.TrimSpace(name); key != "" {
			fields[key] = value
		}
	}
	if id := strings.TrimSpace(o.SessionID); id != "" {
		field := SessionField(id)
		fields[field.Name] = field.Value
	}
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: fields[name]})
	}
	return result
}
