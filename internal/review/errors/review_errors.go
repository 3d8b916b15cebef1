package reviewerrors

import (
	"net/http"

	"go-onboard/internal/shared/apperror"
)

var (
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approved or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidReviewerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reviewed_by",
		http.StatusBadRequest,
	)
	ErrFormNotReviewable = apperror.New(
		apperror.CodeInvalidState,
		"form is not in a reviewable state",
		http.StatusBadRequest,
	)
	ErrApproveViaFinalOnly = apperror.New(
		apperror.CodeInvalidState,
		"application approval must go through final-approve",
		http.StatusBadRequest,
	)
)
