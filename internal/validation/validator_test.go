package validation

import (
	"testing"

	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	Name string `json:"name" validate:"required"`
}

type sampleInput struct {
	NIM   string       `json:"nim" validate:"required"`
	Role  string       `json:"role" validate:"omitempty,member_role"`
	Items []sampleItem `json:"items" validate:"required,min=1,dive"`
}

func TestStructPasses(t *testing.T) {
	err := Struct(sampleInput{NIM: "2101", Role: "officer", Items: []sampleItem{{Name: "a"}}})
	assert.NoError(t, err)
}

func TestStructFieldErrors(t *testing.T) {
	err := Struct(sampleInput{Role: "chair", Items: []sampleItem{{Name: ""}}})
	require.Error(t, err)

	ce, ok := types.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, 422, ce.Code)
	assert.Equal(t, []string{"The nim field is required."}, ce.Fields["nim"])
	assert.Equal(t, []string{"role must be one of member, alumnus, officer"}, ce.Fields["role"])
	assert.Equal(t, []string{"The name field is required."}, ce.Fields["items.0.name"])
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "divisions.2.quota", fieldPath("CreateFormInput.divisions[2].quota"))
	assert.Equal(t, "name", fieldPath("Input.name"))
}
