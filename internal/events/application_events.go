package events

import "time"

const ApplicationLifecycleTopic = "onboarding.application.lifecycle.v1"

type ApplicationSubmittedEvent struct {
	EventType            string    `json:"event_type"`
	RequestID            string    `json:"request_id,omitempty"`
	ApplicationID        string    `json:"application_id"`
	EmployeeID           string    `json:"employee_id"`
	CompletionPercentage int       `json:"completion_percentage"`
	OccurredAt           time.Time `json:"occurred_at"`
}

type ApplicationApprovedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	EmployeeID    string    `json:"employee_id"`
	ReviewedBy    string    `json:"reviewed_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
