package form

import (
	"encoding/json"
	"time"
)

type SaveFormRequest struct {
	ApplicationID string         `json:"application_id" binding:"required,uuid"`
	EmployeeID    string         `json:"employee_id" binding:"required,uuid"`
	Status        string         `json:"status" binding:"required,oneof=draft completed staff_signed submitted"`
	Data          map[string]any `json:"data"`
}

type FormResponse struct {
	ID            string         `json:"id"`
	ApplicationID string         `json:"application_id"`
	EmployeeID    string         `json:"employee_id"`
	FormType      string         `json:"form_type"`
	Status        string         `json:"status"`
	Data          map[string]any `json:"data,omitempty"`
	ReviewComment *string        `json:"review_comment,omitempty"`
	ReviewedBy    *string        `json:"reviewed_by,omitempty"`
	ReviewedAt    *string        `json:"reviewed_at,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

func mapToResponse(f FormDocument) FormResponse {
	resp := FormResponse{
		ID:            f.ID.String(),
		ApplicationID: f.ApplicationID.String(),
		EmployeeID:    f.EmployeeID.String(),
		FormType:      f.FormType,
		Status:        f.Status,
		ReviewComment: f.ReviewComment,
		CreatedAt:     f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     f.UpdatedAt.Format(time.RFC3339),
	}
	if len(f.Data) > 0 {
		var data map[string]any
		if json.Unmarshal(f.Data, &data) == nil {
			resp.Data = data
		}
	}
	if f.ReviewedBy != nil {
		v := f.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if f.ReviewedAt != nil {
		v := f.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

// MapToResponse exposes the entity mapping to the review module so both
// surfaces return the same payload shape.
func MapToResponse(f FormDocument) FormResponse {
	return mapToResponse(f)
}

func mapToListResponse(forms []FormDocument) []FormResponse {
	resp := make([]FormResponse, len(forms))
	for i, f := range forms {
		resp[i] = mapToResponse(f)
	}
	return resp
}
