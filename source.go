package roleform

import (
	"strings"

	"github.com/goliatone/go-roleform/pkg/entity"
)

// NewSource returns the entity source for path: a JSON or YAML file, or the
// embedded dataset when path is empty.
func NewSource(path string) entity.Source {
	if strings.TrimSpace(path) == "" {
		return entity.Embedded()
	}
	return entity.SourceFromFile(path)
}
