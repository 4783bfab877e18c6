package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestMapPriority(t *testing.T) {
	testCases := []struct {
		name        string
		input       *string
		expected    Priority
		expectError bool
	}{
		{name: "low", input: ptr("Low"), expected: PriorityLow},
		{name: "medium upper case", input: ptr("MEDIUM"), expected: PriorityMedium},
		{name: "high", input: ptr("high"), expected: PriorityHigh},
		{name: "mandatory", input: ptr("Mandatory"), expected: PriorityMandatory},
		{name: "unrecognized falls back to low", input: ptr("urgent"), expected: PriorityLow, expectError: true},
		{name: "missing falls back to low", input: nil, expected: PriorityLow, expectError: true},
		{name: "blank falls back to low", input: ptr("  "), expected: PriorityLow, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			priority, failure := MapPriority(tc.input)

			assert.Equal(t, tc.expected, priority)

			if tc.expectError {
				require.NotNil(t, failure)
				assert.Equal(t, FieldPriority, failure.Field)
				assert.Equal(t, FailureMapping, failure.Kind)
			} else {
				assert.Nil(t, failure)
			}
		})
	}
}

func TestMapPriority_UrgentIsNotHigh(t *testing.T) {
	priority, failure := MapPriority(ptr("urgent"))

	assert.NotEqual(t, PriorityHigh, priority)
	require.NotNil(t, failure)
	assert.Equal(t, "urgent", failure.Value)
}

func TestMapStatus(t *testing.T) {
	testCases := []struct {
		name        string
		input       *string
		done        bool
		expectError bool
	}{
		{name: "done", input: ptr("Done"), done: true},
		{name: "resolved", input: ptr("Resolved"), done: true},
		{name: "closed", input: ptr("CLOSED"), done: true},
		{name: "in progress", input: ptr("In Progress"), done: false},
		{name: "to do", input: ptr("To Do"), done: false},
		{name: "missing", input: nil, done: false, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			done, failure := MapStatus(tc.input)

			assert.Equal(t, tc.done, done)
			assert.Equal(t, tc.expectError, failure != nil)
		})
	}
}

func TestMapType(t *testing.T) {
	testCases := []struct {
		name        string
		input       *string
		expected    IssueType
		expectError bool
	}{
		{name: "sub-task", input: ptr("Sub-task"), expected: IssueTypeSubTask},
		{name: "task with spaces", input: ptr(" Task "), expected: IssueTypeTask},
		{name: "incident", input: ptr("incident"), expected: IssueTypeIncident},
		{name: "story", input: ptr("Story"), expected: IssueTypeStory},
		{name: "unknown becomes story", input: ptr("Epic"), expected: IssueTypeStory, expectError: true},
		{name: "missing becomes task", input: nil, expected: IssueTypeTask, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issueType, failure := MapType(tc.input)

			assert.Equal(t, tc.expected, issueType)
			assert.Equal(t, tc.expectError, failure != nil)
		})
	}
}

func TestMapSummary(t *testing.T) {
	summary, failure := MapSummary(ptr("Fix login"))
	assert.Equal(t, "Fix login", summary)
	assert.Nil(t, failure)

	summary, failure = MapSummary(nil)
	assert.Equal(t, MissingSummary, summary)
	require.NotNil(t, failure)
	assert.Equal(t, FieldSummary, failure.Field)
}
