package taskerrors

import (
	"net/http"

	"go-onboard/internal/shared/apperror"
)

var (
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task id",
		http.StatusBadRequest,
	)
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
	ErrInvalidColumn = apperror.New(
		apperror.CodeInvalidInput,
		"unknown board column",
		http.StatusBadRequest,
	)
	ErrInvalidAssigneeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignee id",
		http.StatusBadRequest,
	)
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"task not found",
		http.StatusNotFound,
	)
)
