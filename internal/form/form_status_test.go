package form_test

import (
	"testing"

	"go-onboard/internal/form"

	"github.com/stretchr/testify/assert"
)

func TestFormIsAllowedTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"draft resave", form.StatusDraft, form.StatusDraft, true},
		{"completed resave", form.StatusCompleted, form.StatusCompleted, true},
		{"submitted resave", form.StatusSubmitted, form.StatusSubmitted, false},
		{"draft to completed", form.StatusDraft, form.StatusCompleted, true},
		{"draft to submitted skips completion", form.StatusDraft, form.StatusSubmitted, false},
		{"completed back to draft", form.StatusCompleted, form.StatusDraft, true},
		{"completed to staff_signed", form.StatusCompleted, form.StatusStaffSigned, true},
		{"completed to submitted", form.StatusCompleted, form.StatusSubmitted, true},
		{"completed to under_review", form.StatusCompleted, form.StatusUnderReview, true},
		{"staff_signed to submitted", form.StatusStaffSigned, form.StatusSubmitted, true},
		{"staff_signed to under_review", form.StatusStaffSigned, form.StatusUnderReview, true},
		{"staff_signed back to draft", form.StatusStaffSigned, form.StatusDraft, false},
		{"submitted to approved", form.StatusSubmitted, form.StatusApproved, true},
		{"submitted to rejected", form.StatusSubmitted, form.StatusRejected, true},
		{"submitted to under_review", form.StatusSubmitted, form.StatusUnderReview, true},
		{"under_review to approved", form.StatusUnderReview, form.StatusApproved, true},
		{"rejected to draft for rework", form.StatusRejected, form.StatusDraft, true},
		{"rejected to submitted", form.StatusRejected, form.StatusSubmitted, false},
		{"approved is terminal", form.StatusApproved, form.StatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, form.IsAllowedTransition(tc.from, tc.to))
		})
	}
}

// Every status that lets an application pass the submission gate must
// also accept both review decisions. A form the gate counts as done but
// a reviewer cannot decide would wedge the application.
func TestFormReviewableWhenCounted(t *testing.T) {
	counted := []string{
		form.StatusCompleted,
		form.StatusStaffSigned,
		form.StatusSubmitted,
		form.StatusUnderReview,
	}

	for _, status := range counted {
		t.Run(status, func(t *testing.T) {
			assert.True(t, form.CountsTowardCompletion(status))
			assert.True(t, form.IsAllowedTransition(status, form.StatusApproved))
			assert.True(t, form.IsAllowedTransition(status, form.StatusRejected))
		})
	}
}

func TestFormStatusPredicates(t *testing.T) {
	t.Run("employee settable", func(t *testing.T) {
		assert.True(t, form.IsEmployeeSettable(form.StatusDraft))
		assert.True(t, form.IsEmployeeSettable(form.StatusCompleted))
		assert.True(t, form.IsEmployeeSettable(form.StatusStaffSigned))
		assert.True(t, form.IsEmployeeSettable(form.StatusSubmitted))
		assert.False(t, form.IsEmployeeSettable(form.StatusApproved))
		assert.False(t, form.IsEmployeeSettable(form.StatusRejected))
		assert.False(t, form.IsEmployeeSettable(form.StatusUnderReview))
	})

	t.Run("initial status", func(t *testing.T) {
		assert.True(t, form.IsInitialStatus(form.StatusDraft))
		assert.True(t, form.IsInitialStatus(form.StatusCompleted))
		assert.False(t, form.IsInitialStatus(form.StatusSubmitted))
	})

	t.Run("counts toward completion", func(t *testing.T) {
		assert.False(t, form.CountsTowardCompletion(form.StatusDraft))
		assert.True(t, form.CountsTowardCompletion(form.StatusCompleted))
		assert.True(t, form.CountsTowardCompletion(form.StatusStaffSigned))
		assert.True(t, form.CountsTowardCompletion(form.StatusSubmitted))
		assert.True(t, form.CountsTowardCompletion(form.StatusUnderReview))
		assert.True(t, form.CountsTowardCompletion(form.StatusApproved))
		assert.False(t, form.CountsTowardCompletion(form.StatusRejected))
	})

	t.Run("terminal", func(t *testing.T) {
		assert.True(t, form.IsTerminal(form.StatusApproved))
		assert.True(t, form.IsTerminal(form.StatusRejected))
		assert.False(t, form.IsTerminal(form.StatusSubmitted))
	})
}
