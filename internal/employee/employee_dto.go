package employee

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone,omitempty"`
	Position       string `json:"position" binding:"required"`
	Department     string `json:"department,omitempty"`
	HireDate       string `json:"hire_date" binding:"required"`
	EmployeeNumber string `json:"employee_number,omitempty"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Position       string `json:"position"`
	Department     string `json:"department,omitempty"`
	HireDate       string `json:"hire_date"`
}
