package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDraft = `{
  "name": "Jane Doe",
  "email": "jane@example.com",
  "summary": "Engineer",
  "experiences": [
    {"jobTitle": "Dev", "company": "Acme", "startYear": "2019", "endYear": "2023", "description": "Built things"}
  ],
  "education": [
    {"university": "MIT", "degree": "BSc", "startYear": "2015", "endYear": "2019"}
  ]
}`

func TestValidateDraftJSON_Valid(t *testing.T) {
	assert.NoError(t, ValidateDraftJSON([]byte(validDraft)))
}

func TestValidateDraftJSON_PartialDraftIsValid(t *testing.T) {
	assert.NoError(t, ValidateDraftJSON([]byte(`{"name": "Jane"}`)))
}

func TestValidateDraftJSON_WrongType(t *testing.T) {
	err := ValidateDraftJSON([]byte(`{"name": 42, "experiences": [{"startYear": 2019}]}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
	require.Len(t, validationErr.Errors, 2)

	fields := []string{validationErr.Errors[0].Field, validationErr.Errors[1].Field}
	assert.ElementsMatch(t, []string{"name", "experiences.0.startYear"}, fields)
}

func TestValidateDraftJSON_UnknownField(t *testing.T) {
	err := ValidateDraftJSON([]byte(`{"education": [{"school": "MIT"}]}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "education.0", validationErr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateDraftJSON_RootMustBeObject(t *testing.T) {
	err := ValidateDraftJSON([]byte(`[]`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateDraftJSON_MalformedDocument(t *testing.T) {
	err := ValidateDraftJSON([]byte(`{"name": `))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr), "error should be SchemaLoadError type")
}

func TestValidateDraftFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(validDraft), 0o600))

	assert.NoError(t, ValidateDraftFile(path))
}

func TestValidateDraftFile_NotFound(t *testing.T) {
	err := ValidateDraftFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
