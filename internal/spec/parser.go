package spec

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	cferrors "github.com/colorforge/colorforge/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile loads a spec document from disk, runs the boundary validator,
// and returns the raw model. Structural problems are reported together as a
// single ValidationError so a spec author sees every fault at once.
func ParseFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cferrors.NewParseError(path, 0, err)
	}

	return Parse(data, path)
}

// Parse decodes and validates an in-memory spec document. The path is used
// only for error reporting.
func Parse(data []byte, path string) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, cferrors.NewParseError(path, extractLine(err), err)
	}

	if problems := Validate(&s); len(problems) > 0 {
		return nil, cferrors.NewValidationError("spec", strings.Join(problems, "; "), nil)
	}

	return &s, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
