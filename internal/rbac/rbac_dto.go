package rbac

import "go-onboard/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse
