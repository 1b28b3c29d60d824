package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone"`
	Position string `form:"position" validate:"max=5"`
}

func TestStructReportsFieldsByTagName(t *testing.T) {
	err := Struct(sample{Phone: "abc", Position: "too long"})
	require.Error(t, err)

	ve, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"username is a required field"}, ve.Fields["username"])
	assert.Equal(t, []string{"phone must be a valid phone number"}, ve.Fields["phone"])
	assert.Contains(t, ve.Fields["position"][0], "position must be a maximum of 5 characters")
}

func TestStructAcceptsValidPayload(t *testing.T) {
	assert.NoError(t, Struct(sample{Username: "admin", Phone: "082269324126", Position: "QA"}))
	assert.NoError(t, Struct(sample{Username: "admin", Phone: "+6282269324126"}))
}

func TestFieldErrorAndMessage(t *testing.T) {
	err := FieldError("division", "division does not exist").Add("division", "again")
	assert.Equal(t, "validation failed: division does not exist; again", err.Error())

	wrapped := errors.Join(errors.New("ctx"), err)
	ve, ok := As(wrapped)
	require.True(t, ok)
	assert.Len(t, ve.Fields["division"], 2)
}
