package entities

import "time"

// IssueSeverity ranks a validation issue.
type IssueSeverity string

// Severities used by catalog validation.
const (
	IssueWarning  IssueSeverity = "warning"
	IssueError    IssueSeverity = "error"
	IssueCritical IssueSeverity = "critical"
)

// ValidationIssue records a problem found while validating the catalog.
type ValidationIssue struct {
	ID             int64         `json:"id,omitempty"`
	AssetID        string        `json:"asset_id"`
	IssueType      string        `json:"issue_type"`
	Severity       IssueSeverity `json:"severity"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation,omitempty"`
	CreatedAt      time.Time     `json:"created_date"`
}
