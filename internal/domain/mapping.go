package domain

import (
	"fmt"
	"strings"
)

// MissingSummary replaces a summary the tracker did not return.
const MissingSummary = "No Summary Pulled!"

const (
	FieldAssignee = "assignee"
	FieldPriority = "priority"
	FieldStatus   = "status"
	FieldType     = "type"
	FieldSummary  = "summary"
	FieldRecord   = "record"
)

type FailureKind string

const (
	// FailureMapping: a tracker value matched no local value, a default was used.
	FailureMapping FailureKind = "mapping"
	// FailureLookup: a referenced local row does not exist, nothing was written.
	FailureLookup FailureKind = "lookup"
)

// FieldFailure records one field of one synced issue that could not be
// applied as returned by the tracker.
type FieldFailure struct {
	IssueKey string
	Field    string
	Kind     FailureKind
	Value    string
}

func (f FieldFailure) String() string {
	return fmt.Sprintf("%s: %s %s failure (value %q)", f.IssueKey, f.Field, f.Kind, f.Value)
}

func normalize(value *string) (string, bool) {
	if value == nil {
		return "", false
	}

	v := strings.ToLower(strings.TrimSpace(*value))

	return v, v != ""
}

func raw(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}

func mappingFailure(field string, value *string) *FieldFailure {
	return &FieldFailure{Field: field, Kind: FailureMapping, Value: raw(value)}
}

// MapPriority maps a tracker priority name. Unknown or missing names fall
// back to Low.
func MapPriority(name *string) (Priority, *FieldFailure) {
	v, ok := normalize(name)
	if !ok {
		return PriorityLow, mappingFailure(FieldPriority, name)
	}

	switch v {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "mandatory":
		return PriorityMandatory, nil
	default:
		return PriorityLow, mappingFailure(FieldPriority, name)
	}
}

// MapStatus reports whether a tracker status name means done. Any present
// name that is not done/resolved/closed is a regular open status.
func MapStatus(name *string) (bool, *FieldFailure) {
	v, ok := normalize(name)
	if !ok {
		return false, mappingFailure(FieldStatus, name)
	}

	switch v {
	case "done", "resolved", "closed":
		return true, nil
	default:
		return false, nil
	}
}

// MapType maps a tracker issue type name. Unknown names become Story, a
// missing type becomes Task.
func MapType(name *string) (IssueType, *FieldFailure) {
	v, ok := normalize(name)
	if !ok {
		return IssueTypeTask, mappingFailure(FieldType, name)
	}

	switch v {
	case "sub-task", "subtask":
		return IssueTypeSubTask, nil
	case "task":
		return IssueTypeTask, nil
	case "incident":
		return IssueTypeIncident, nil
	case "story":
		return IssueTypeStory, nil
	default:
		return IssueTypeStory, mappingFailure(FieldType, name)
	}
}

func MapSummary(summary *string) (string, *FieldFailure) {
	if summary == nil {
		return MissingSummary, mappingFailure(FieldSummary, nil)
	}

	return *summary, nil
}
