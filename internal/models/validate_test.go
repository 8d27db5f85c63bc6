package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, ErrValidation)
	var fields []string
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestValidate_Memo(t *testing.T) {
	require.NoError(t, Validate(&Memo{Content: "buy milk"}))
	require.NoError(t, Validate(&Memo{Content: strings.Repeat("あ", MemoMaxLength)}))

	assert.Equal(t, []string{"content"}, fieldsOf(t, Validate(&Memo{})))
	assert.Equal(t, []string{"content"}, fieldsOf(t, Validate(&Memo{Content: "   "})))
	assert.Equal(t, []string{"content"}, fieldsOf(t, Validate(&Memo{Content: strings.Repeat("x", MemoMaxLength+1)})))
}

func TestValidate_TaskStatusRange(t *testing.T) {
	deadline := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, status := range []int{0, 50, 100} {
		require.NoError(t, Validate(&Task{Content: "c", Status: status, Deadline: deadline}))
	}
	for _, status := range []int{-1, 101} {
		assert.Equal(t, []string{"status"}, fieldsOf(t, Validate(&Task{Content: "c", Status: status, Deadline: deadline})))
	}
	assert.Equal(t, []string{"deadline"}, fieldsOf(t, Validate(&Task{Content: "c"})))
}

func TestValidate_EventOrdering(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Validate(&Event{Title: "standup", StartTime: start, EndTime: start}))
	require.NoError(t, Validate(&Event{Title: "standup", StartTime: start, EndTime: start.Add(time.Hour)}))

	err := Validate(&Event{Title: "standup", StartTime: start, EndTime: start.Add(-time.Minute)})
	assert.Equal(t, []string{"endTime"}, fieldsOf(t, err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must not be before startTime", verr.Errors[0].Message)
}

func TestValidate_DocumentAndTodo(t *testing.T) {
	require.NoError(t, Validate(&Document{Name: "notes", Content: ""}))
	assert.Equal(t, []string{"name"}, fieldsOf(t, Validate(&Document{Content: "body"})))

	require.NoError(t, Validate(&Todo{Content: "stretch", Everyday: true}))
	assert.Equal(t, []string{"content"}, fieldsOf(t, Validate(&Todo{Today: true})))
}

func TestValidationError_Message(t *testing.T) {
	single := NewValidationError("content", "is required")
	assert.Equal(t, "validation: content: is required", single.Error())

	multi := &ValidationError{Errors: []FieldError{{Field: "a"}, {Field: "b"}}}
	assert.Equal(t, "validation: 2 errors", multi.Error())
}
