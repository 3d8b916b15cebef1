package applicationerrors

import (
	"net/http"

	"go-onboard/internal/shared/apperror"
)

var (
	ErrInvalidApplicationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid application id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidReviewerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reviewer id",
		http.StatusBadRequest,
	)
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"application not found",
		http.StatusNotFound,
	)
	ErrApplicationExists = apperror.New(
		apperror.CodeConflict,
		"an onboarding application already exists for this employee",
		http.StatusConflict,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"unknown application status",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid application status transition",
		http.StatusBadRequest,
	)
	ErrApplicationLocked = apperror.New(
		apperror.CodeLocked,
		"application has been approved and is locked",
		http.StatusConflict,
	)
	ErrRequiredFormsIncomplete = apperror.New(
		apperror.CodeInvalidState,
		"all required forms must be completed before submitting",
		http.StatusBadRequest,
	)
)
