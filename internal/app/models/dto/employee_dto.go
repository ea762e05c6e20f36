package dto

import "github.com/idms/ems/internal/app/models"

// EmployeeForm carries the multipart form fields for create and update.
// The photo file part is handled separately by the controller.
type EmployeeForm struct {
	FullName    string `form:"fullName"`
	DOB         string `form:"dob"`
	Email       string `form:"email"`
	Department  string `form:"department"`
	PhoneNumber string `form:"phoneNumber"`
	Designation string `form:"designation"`
	Gender      string `form:"gender"`
}

// ListMeta carries the fixed option sets used to populate dropdowns
type ListMeta struct {
	Departments  []string `json:"departments"`
	Designations []string `json:"designations"`
	Genders      []string `json:"genders"`
}

// EmployeeListResponse is the list endpoint payload
type EmployeeListResponse struct {
	Employees []*models.Employee `json:"employees"`
	Meta      ListMeta           `json:"meta"`
}

// EmployeeResponse wraps a single employee record
type EmployeeResponse struct {
	Employee *models.Employee `json:"employee"`
}
