package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	ClassID string  `json:"class_id" validate:"required"`
	Topic   string  `json:"topic" validate:"required,notblank"`
	Chapter *string `json:"chapter" validate:"omitempty,notblank"`
	Percent int     `json:"completion_percentage" validate:"min=0,max=100"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(samplePayload{Topic: "Algebra"})
	require.Error(t, err)
	assert.Equal(t, "class_id is required", err.Error())
}

func TestValidatorRejectsBlankStrings(t *testing.T) {
	v := New()
	blank := "   "

	err := v.Struct(samplePayload{ClassID: "c1", Topic: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic must not be blank")

	err = v.Struct(samplePayload{ClassID: "c1", Topic: "Algebra", Chapter: &blank})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter must not be blank")
}

func TestValidatorJoinsMessages(t *testing.T) {
	v := New()

	err := v.Struct(samplePayload{Percent: 150})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class_id is required")
	assert.Contains(t, err.Error(), "; ")
	assert.Contains(t, err.Error(), "completion_percentage")
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := New()
	chapter := "Chapter 1"

	assert.NoError(t, v.Struct(samplePayload{ClassID: "c1", Topic: "Algebra", Chapter: &chapter, Percent: 40}))
}
