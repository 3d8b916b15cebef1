package task

import "time"

type CreateTaskRequest struct {
	ApplicationID string     `json:"application_id" binding:"required,uuid"`
	EmployeeID    string     `json:"employee_id" binding:"required,uuid"`
	Title         string     `json:"title" binding:"required"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

type MoveTaskRequest struct {
	Column     string `json:"column" binding:"required,oneof=todo in_progress done"`
	AssignedTo string `json:"assigned_to,omitempty" binding:"omitempty,uuid"`
}

type TaskResponse struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	EmployeeID    string     `json:"employee_id"`
	Title         string     `json:"title"`
	Column        string     `json:"column"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func mapToResponse(t OnboardingTask) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID.String(),
		ApplicationID: t.ApplicationID.String(),
		EmployeeID:    t.EmployeeID.String(),
		Title:         t.Title,
		Column:        t.Column,
		DueDate:       t.DueDate,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		assignee := t.AssignedTo.String()
		resp.AssignedTo = &assignee
	}
	return resp
}

func mapToListResponse(tasks []OnboardingTask) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = mapToResponse(t)
	}
	return res
}
