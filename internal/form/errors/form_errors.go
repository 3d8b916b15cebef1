package formerrors

import (
	"net/http"

	"go-onboard/internal/shared/apperror"
)

var (
	ErrUnknownFormType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown form type",
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
	ErrInvalidFormID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid form id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid form status",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid form status transition",
		http.StatusBadRequest,
	)
	ErrFormNotFound = apperror.New(
		apperror.CodeNotFound,
		"form not found",
		http.StatusNotFound,
	)
	ErrEmployeeMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not own this application",
		http.StatusBadRequest,
	)
)
