package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("colors.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "colors.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "colors.yaml:12")
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("colors.yaml", 0, fmt.Errorf("empty document"))
	require.NotContains(t, err.Error(), ":0")
}

func TestValidationErrorCarriesFieldPath(t *testing.T) {
	t.Parallel()

	err := NewValidationError("tokens.fgPrimary.step", "9 is out of bounds", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "tokens.fgPrimary.step", validationErr.Field)
	require.Contains(t, validationErr.Message, "out of bounds")
}

func TestCompileErrorIncludesStageAndSubject(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("no such ramp")
	err := NewCompileError("themes", "dark", `references unknown ramp "missing"`, underlying)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "themes", compileErr.Stage)
	require.Equal(t, "dark", compileErr.Subject)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "compile error [themes] dark")
}
