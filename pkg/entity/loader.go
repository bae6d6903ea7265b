package entity

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/roles.json data/entities.schema.json
var embeddedData embed.FS

const embeddedDatasetPath = "data/roles.json"

// Format identifies the encoding of an entity document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension. Unknown
// extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document struct {
	Mappings []Entity `json:"mappings"`
}

// Parse decodes and validates an entity document.
func Parse(data []byte, format Format) ([]Entity, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("entity: document is empty")
	}

	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	normalised, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("entity: normalise document: %w", err)
	}

	var entities []Entity
	if _, isList := raw.([]any); isList {
		if err := json.Unmarshal(normalised, &entities); err != nil {
			return nil, fmt.Errorf("entity: decode entities: %w", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(normalised, &doc); err != nil {
			return nil, fmt.Errorf("entity: decode mappings: %w", err)
		}
		entities = doc.Mappings
	}

	if err := CheckUnique(entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// CheckUnique reports ErrEmptyRoleID for an entity without a role_id and
// ErrDuplicateRoleID when two entities share one.
func CheckUnique(entities []Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for i, e := range entities {
		if strings.TrimSpace(e.RoleID) == "" {
			return fmt.Errorf("%w: entity %d (%q)", ErrEmptyRoleID, i, e.Role)
		}
		if _, exists := seen[e.RoleID]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateRoleID, e.RoleID)
		}
		seen[e.RoleID] = struct{}{}
	}
	return nil
}

// decodeRaw produces a JSON-compatible value tree so YAML documents validate
// exactly like their JSON equivalents.
func decodeRaw(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("entity: parse yaml: %w", err)
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("entity: convert yaml: %w", err)
		}
		raw = nil
		if err := json.Unmarshal(encoded, &raw); err != nil {
			return nil, fmt.Errorf("entity: convert yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("entity: parse json: %w", err)
		}
	}
	return raw, nil
}

// FileSource reads entities from a file on disk each time Entities is called.
type FileSource struct {
	Path string
}

// SourceFromFile returns a Source backed by a JSON or YAML file.
func SourceFromFile(path string) FileSource {
	return FileSource{Path: path}
}

// Entities loads and parses the file.
func (s FileSource) Entities(ctx context.Context) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, fmt.Errorf("entity: file path is required")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("entity: read %s: %w", s.Path, err)
	}
	entities, err := Parse(data, FormatFromPath(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, s.Path)
	}
	return entities, nil
}

// FSSource reads entities from a path inside an fs.FS.
type FSSource struct {
	FS   fs.FS
	Path string
}

// SourceFromFS returns a Source backed by a file inside fsys.
func SourceFromFS(fsys fs.FS, path string) FSSource {
	return FSSource{FS: fsys, Path: path}
}

// Entities loads and parses the file from the filesystem.
func (s FSSource) Entities(ctx context.Context) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, fmt.Errorf("entity: filesystem is nil")
	}
	data, err := fs.ReadFile(s.FS, s.Path)
	if err != nil {
		return nil, fmt.Errorf("entity: read %s: %w", s.Path, err)
	}
	return Parse(data, FormatFromPath(s.Path))
}

// Embedded returns the bundled sample dataset.
func Embedded() Source {
	return SourceFromFS(embeddedData, embeddedDatasetPath)
}
