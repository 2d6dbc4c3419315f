package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type patchDTO struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	Queue      *string `json:"queue"`
	Internal   *string `json:"-"`
	NotPtr     string  `json:"notPtr"`
}

func strPtr(s string) *string { return &s }

func TestUpdatesFromPtrDTO(t *testing.T) {
	dto := patchDTO{
		Status:     strPtr("CONTACTED"),
		AssignedTo: strPtr("dave"),
		Internal:   strPtr("skip"),
		NotPtr:     "skip",
	}
	updates := UpdatesFromPtrDTO(&dto, map[string]string{"assignedTo": "assigned_to"})

	assert.Equal(t, map[string]any{
		"status":      "CONTACTED",
		"assigned_to": "dave",
	}, updates)
}

func TestUpdatesFromPtrDTO_EmptyAndNonStruct(t *testing.T) {
	assert.Empty(t, UpdatesFromPtrDTO(&patchDTO{}, nil))
	assert.Empty(t, UpdatesFromPtrDTO(patchDTO{Status: strPtr("X")}, nil)) // not a pointer
	assert.Empty(t, UpdatesFromPtrDTO(strPtr("not a struct"), nil))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 42, ParseIntDefault("42", 7))
	assert.Equal(t, 42, ParseIntDefault(" 42 ", 7))
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("banana", 7))
	assert.Equal(t, 7, ParseIntDefault("-3", 7))
}
