package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesnap/internal/apperror"
)

func int64p(v int64) *int64 { return &v }

func TestUUIDValidator(t *testing.T) {
	valid := []string{
		"9566c74d-1003-4c4d-bbbb-0407d1e2c649",
		"9566C74D-1003-4C4D-BBBB-0407D1E2C649",
		"{9566c74d-1003-4c4d-bbbb-0407d1e2c649}",
	}
	for _, v := range valid {
		assert.Nil(t, UUID(v, "id"), "expected %q to be valid", v)
	}

	invalid := []string{
		"9566c74d-1003-4c4d-bbbb",
		"9566c74d1003-4c4d-bbbb-0407d1e2c649",
		"9566c74d-1003-4c4d-bbbb-0407d1e2c6499",
		"not-a-uuid",
		"",
	}
	for _, v := range invalid {
		fieldErr := UUID(v, "id")
		require.NotNil(t, fieldErr, "expected %q to be invalid", v)
		assert.Equal(t, "id", fieldErr.Field)
		assert.Equal(t, v+" is not a valid UUID", fieldErr.Message)
	}
}

func TestDateValidator(t *testing.T) {
	valid := []string{"2023-08-19", "2024-02-29", "2000-02-29", "2023-01-31", "2023-12-31"}
	for _, v := range valid {
		assert.Nil(t, Date(v, "date"), "expected %q to be valid", v)
	}

	invalid := []string{
		"2023-02-29", // non-leap year
		"1900-02-29", // century, not divisible by 400
		"2023-04-31",
		"2023-06-31",
		"2023-09-31",
		"2023-11-31",
		"2023-13-01",
		"2023-00-10",
		"2023-1-01",
		"19-08-2023",
	}
	for _, v := range invalid {
		assert.NotNil(t, Date(v, "date"), "expected %q to be invalid", v)
	}
}

func TestURLValidator(t *testing.T) {
	assert.Nil(t, URL("https://example.com", "site"))
	assert.Nil(t, URL("http://example.com/path?q=1", "site"))

	for _, v := range []string{"example", "not-a-url", "/relative/path", "example.com"} {
		fieldErr := URL(v, "input.site")
		require.NotNil(t, fieldErr, "expected %q to be invalid", v)
		assert.Equal(t, "input.site", fieldErr.Field)
		assert.Equal(t, v+" is not a valid URL", fieldErr.Message)
	}
}

func TestNumberValidator(t *testing.T) {
	assert.Nil(t, Number(5, "first"))
	assert.Nil(t, Number(float64(10), "first"))
	assert.Nil(t, Number("42", "first"))

	assert.NotNil(t, Number(1.5, "first"))
	assert.NotNil(t, Number("abc", "first"))
	assert.NotNil(t, Number(nil, "first"))
}

func TestInRangeBoundsMessages(t *testing.T) {
	both := InRange(Bounds{Min: int64p(0), Max: int64p(10000)})
	fieldErr := both(20000, "first")
	require.NotNil(t, fieldErr)
	assert.Equal(t, "20000 should be between 0 and 10000", fieldErr.Message)

	minOnly := InRange(Bounds{Min: int64p(1)})
	fieldErr = minOnly(0, "count")
	require.NotNil(t, fieldErr)
	assert.Equal(t, "0 should be greater than or equal to 1", fieldErr.Message)

	assert.Nil(t, both(0, "first"))
	assert.Nil(t, both(10000, "first"))
	assert.NotNil(t, both(-1, "first"))
}

func TestNotNullAndNotEmpty(t *testing.T) {
	assert.NotNil(t, NotNull(nil, "after"))
	assert.Nil(t, NotNull("value", "after"))

	assert.NotNil(t, NotEmpty(map[string]any{}, "input"))
	assert.NotNil(t, NotEmpty([]any{}, "filter.type.in"))
	assert.NotNil(t, NotEmpty("", "site"))
	assert.Nil(t, NotEmpty(map[string]any{"site": "x"}, "input"))
	assert.Nil(t, NotEmpty([]any{"PDF"}, "filter.type.in"))
}

func TestValidateCollectsAllInOrder(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([]*apperror.FieldError{nil, nil, nil}))

	err := Validate([]*apperror.FieldError{
		nil,
		{Field: "first", Message: "abc is not a Number"},
		nil,
		{Field: "after", Message: "xyz is not a valid UUID"},
	})
	require.Error(t, err)

	var domainErr *apperror.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperror.KindInvalidInput, domainErr.Kind)
	require.Len(t, domainErr.Fields, 2)
	assert.Equal(t, "first", domainErr.Fields[0].Field)
	assert.Equal(t, "after", domainErr.Fields[1].Field)
	assert.Equal(t, "Input validation failed for fields: [first, after]", domainErr.Message)
}
