package form

const (
	StatusDraft       = "draft"
	StatusCompleted   = "completed"
	StatusStaffSigned = "staff_signed"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// IsValidStatus reports whether s is a known form status.
func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusStaffSigned, StatusSubmitted,
		StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsEmployeeSettable limits the statuses a form save may carry. Review
// outcomes are only ever written by the review workflow.
func IsEmployeeSettable(s string) bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusStaffSigned, StatusSubmitted:
		return true
	}
	return false
}

// IsAllowedTransition is the single source of truth for form status
// moves. Every handler goes through it instead of trusting the
// client-supplied status at face value.
//
// Any status counting toward completion accepts a review decision:
// submitting the application cascades its documents to under_review, but
// a document completed after that cascade must still be decidable.
func IsAllowedTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		// Content re-saves are fine while the form is still being edited.
		return currentStatus == StatusDraft || currentStatus == StatusCompleted
	}

	switch currentStatus {
	case StatusDraft:
		return targetStatus == StatusCompleted
	case StatusCompleted:
		return targetStatus == StatusDraft ||
			targetStatus == StatusStaffSigned ||
			targetStatus == StatusSubmitted ||
			targetStatus == StatusUnderReview ||
			targetStatus == StatusApproved ||
			targetStatus == StatusRejected
	case StatusStaffSigned:
		return targetStatus == StatusSubmitted ||
			targetStatus == StatusUnderReview ||
			targetStatus == StatusApproved ||
			targetStatus == StatusRejected
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

// IsInitialStatus limits what a form may be created with on first save.
func IsInitialStatus(s string) bool {
	return s == StatusDraft || s == StatusCompleted
}

// CountsTowardCompletion reports whether a form in status s contributes
// to the application completion percentage. Once counted, a form stays
// counted: the completed-forms list is append-only.
func CountsTowardCompletion(s string) bool {
	switch s {
	case StatusCompleted, StatusStaffSigned, StatusSubmitted, StatusUnderReview, StatusApproved:
		return true
	}
	return false
}

// IsTerminal reports whether a reviewer has finished with the form.
func IsTerminal(s string) bool {
	return s == StatusApproved || s == StatusRejected
}
