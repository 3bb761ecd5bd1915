package models

import "time"

// MemberContribution counts the tasks a project member created and how many of
// them are completed. There is no assignee field, so creation is the measure.
type MemberContribution struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Tasks     int    `json:"tasks"`
	Completed int    `json:"completed"`
}

type ReportStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	NotStarted     int     `json:"notStarted"`
	CompletionRate float64 `json:"completionRate"`
}

// ProjectReport is everything the closure PDF is rendered from.
type ProjectReport struct {
	Project     ProjectView          `json:"project"`
	CreatorName string               `json:"creatorName"`
	GeneratedAt time.Time            `json:"generatedAt"`
	Stats       ReportStats          `json:"stats"`
	Members     []MemberContribution `json:"members"`
	Tasks       []Task               `json:"-"`
}
