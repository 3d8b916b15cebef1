package application

import "math"

const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// IsValidStatus reports whether s is a known application status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsAllowedTransition is the single source of truth for application
// lifecycle moves. approved is terminal; rejected may re-enter draft
// for resubmission.
func IsAllowedTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return false
	}

	switch currentStatus {
	case StatusDraft:
		return targetStatus == StatusSubmitted
	case StatusSubmitted:
		return targetStatus == StatusUnderReview ||
			targetStatus == StatusApproved ||
			targetStatus == StatusRejected
	case StatusUnderReview:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	case StatusRejected:
		return targetStatus == StatusDraft
	default:
		return false
	}
}

// CompletionPercentage derives the aggregate progress value, clamped to
// [0,100]. requiredTotal comes from the form registry, never a literal.
func CompletionPercentage(completedCount, requiredTotal int) int {
	if requiredTotal <= 0 {
		return 0
	}
	p := int(math.Round(float64(completedCount*100) / float64(requiredTotal)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
