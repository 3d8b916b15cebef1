package application_test

import (
	"testing"

	"go-onboard/internal/application"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	valid := []string{"draft", "submitted", "under_review", "approved", "rejected"}
	for _, s := range valid {
		assert.True(t, application.IsValidStatus(s), s)
	}

	assert.False(t, application.IsValidStatus("pending"))
	assert.False(t, application.IsValidStatus(""))
	assert.False(t, application.IsValidStatus("Draft"))
}

func TestIsAllowedTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"draft to submitted", application.StatusDraft, application.StatusSubmitted, true},
		{"draft to approved skips review", application.StatusDraft, application.StatusApproved, false},
		{"draft to rejected", application.StatusDraft, application.StatusRejected, false},
		{"submitted to under_review", application.StatusSubmitted, application.StatusUnderReview, true},
		{"submitted to approved", application.StatusSubmitted, application.StatusApproved, true},
		{"submitted to rejected", application.StatusSubmitted, application.StatusRejected, true},
		{"submitted back to draft", application.StatusSubmitted, application.StatusDraft, false},
		{"under_review to approved", application.StatusUnderReview, application.StatusApproved, true},
		{"under_review to rejected", application.StatusUnderReview, application.StatusRejected, true},
		{"under_review back to submitted", application.StatusUnderReview, application.StatusSubmitted, false},
		{"rejected back to draft for resubmission", application.StatusRejected, application.StatusDraft, true},
		{"rejected to approved", application.StatusRejected, application.StatusApproved, false},
		{"approved is terminal", application.StatusApproved, application.StatusRejected, false},
		{"approved to draft", application.StatusApproved, application.StatusDraft, false},
		{"self transition", application.StatusDraft, application.StatusDraft, false},
		{"unknown source", "archived", application.StatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, application.IsAllowedTransition(tc.from, tc.to))
		})
	}
}

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		required  int
		want      int
	}{
		{"zero completed", 0, 17, 0},
		{"one of seventeen rounds to six", 1, 17, 6},
		{"half rounds up", 9, 17, 53},
		{"all completed", 17, 17, 100},
		{"clamped above hundred", 20, 17, 100},
		{"zero required guards division", 5, 0, 0},
		{"negative required", 5, -1, 0},
		{"negative completed clamps to zero", -3, 17, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, application.CompletionPercentage(tc.completed, tc.required))
		})
	}
}
