package domain

type Priority string

const (
	PriorityLow       Priority = "Low"
	PriorityMedium    Priority = "Medium"
	PriorityHigh      Priority = "High"
	PriorityMandatory Priority = "Mandatory"
)

type IssueType string

const (
	IssueTypeTask     IssueType = "Task"
	IssueTypeSubTask  IssueType = "Sub-Task"
	IssueTypeStory    IssueType = "Story"
	IssueTypeIncident IssueType = "Incident"
)

type ActivityType string

const (
	ActivityModifiedObjective  ActivityType = "Modified Objective"
	ActivityModifiedKeyResult  ActivityType = "Modified Key Result"
	ActivityDeletedObjective   ActivityType = "Deleted Objective"
	ActivityDeletedKeyResult   ActivityType = "Deleted Key Result"
	ActivityCreatedObjective   ActivityType = "Created Objective"
	ActivityCreatedKeyResult   ActivityType = "Created Key Result"
	ActivityCompletedObjective ActivityType = "Completed Objective"
	ActivityCompletedKeyResult ActivityType = "Completed Key Result"
	ActivityCompletedJira      ActivityType = "Completed JIRA issue"
)

type ProgressDirection string

const (
	ProgressIncrease ProgressDirection = "increase"
	ProgressDecrease ProgressDirection = "decrease"
)

// EstimateCards is the planning poker deck.
var EstimateCards = []float64{0, 0.5, 1, 3, 5, 8, 13, 20, 40, 100}

func IsEstimateCard(value float64) bool {
	for _, card := range EstimateCards {
		if card == value {
			return true
		}
	}

	return false
}
