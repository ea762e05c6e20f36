package models

import (
	"time"

	"github.com/idms/ems/pkg/filter"
)

// Dropdown option sets. Department, designation and gender values are
// constrained to these lists at validation time and the lists are served
// to clients alongside list responses.
var (
	AllowedDepartments  = []string{"HR", "Engineering", "Finance", "Marketing", "Operations", "Admin"}
	AllowedDesignations = []string{"Intern", "Executive", "Manager", "Senior Manager", "Lead", "Director"}
	AllowedGenders      = []string{"Male", "Female", "Other"}
)

// IsAllowedValue reports whether value appears in the allowed list
func IsAllowedValue(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

// Employee represents an employee record
type Employee struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	DOB         time.Time `json:"dob"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	PhoneNumber string    `json:"phoneNumber"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	PhotoPath   string    `json:"photoPath"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FilterRecord projects the employee onto the shared filter predicate
func (e *Employee) FilterRecord() filter.Record {
	return filter.Record{
		FullName:    e.FullName,
		Email:       e.Email,
		Department:  e.Department,
		Designation: e.Designation,
		Gender:      e.Gender,
	}
}
