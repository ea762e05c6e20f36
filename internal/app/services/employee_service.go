package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/app/models/dto"
	"github.com/idms/ems/internal/pkg/apperrors"
	"github.com/idms/ems/internal/pkg/filestorage"
	"github.com/idms/ems/internal/pkg/validation"
	"github.com/idms/ems/pkg/filter"
)

// EmployeeStore is the slice of the employee repository the service needs
type EmployeeStore interface {
	List(ctx context.Context, f filter.Filters) ([]*models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	Create(ctx context.Context, e *models.Employee) error
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id int64) error
}

// EmployeeService handles validated CRUD over employee records and the
// photo file lifecycle tied to them.
type EmployeeService struct {
	repo    EmployeeStore
	storage filestorage.Storage
	logger  zerolog.Logger
	now     func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(repo EmployeeStore, storage filestorage.Storage, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		repo:    repo,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// List retrieves employees matching the filters, newest first
func (s *EmployeeService) List(ctx context.Context, f filter.Filters) ([]*models.Employee, error) {
	employees, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []*models.Employee{}
	}
	return employees, nil
}

// validateForm checks every employee field and returns the parsed date
// of birth. The first failing field produces the error message shown to
// the user.
func (s *EmployeeService) validateForm(form dto.EmployeeForm) (time.Time, error) {
	if strings.TrimSpace(form.FullName) == "" {
		return time.Time{}, apperrors.NewValidationError("Full name is required")
	}

	dob, err := parseDate(form.DOB)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("Date of birth is required")
	}
	if !validation.IsPastDate(dob, s.now()) {
		return time.Time{}, apperrors.NewValidationError("Date of birth must be in the past")
	}

	if !validation.IsValidEmail(form.Email) {
		return time.Time{}, apperrors.NewValidationError("Valid email is required")
	}

	if !validation.IsValidPhoneNumber(form.PhoneNumber) {
		return time.Time{}, apperrors.NewValidationError("Phone number must be exactly 10 digits")
	}

	if !models.IsAllowedValue(form.Department, models.AllowedDepartments) {
		return time.Time{}, apperrors.NewValidationError("Department must be selected from dropdown")
	}

	if !models.IsAllowedValue(form.Designation, models.AllowedDesignations) {
		return time.Time{}, apperrors.NewValidationError("Designation must be selected from dropdown")
	}

	if !models.IsAllowedValue(form.Gender, models.AllowedGenders) {
		return time.Time{}, apperrors.NewValidationError("Gender is required")
	}

	return dob, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// Create validates the form, stores the photo and persists the record.
// The photo is mandatory on creation. If the insert fails the stored
// file is removed again so no orphan is left behind.
func (s *EmployeeService) Create(ctx context.Context, form dto.EmployeeForm, photo *multipart.FileHeader, createdBy int64) (*models.Employee, error) {
	dob, err := s.validateForm(form)
	if err != nil {
		return nil, err
	}

	if photo == nil {
		return nil, apperrors.NewValidationError("Employee photo is required")
	}

	photoPath, err := s.storage.Save(photo)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FullName:    strings.TrimSpace(form.FullName),
		DOB:         dob,
		Email:       strings.ToLower(strings.TrimSpace(form.Email)),
		Department:  form.Department,
		PhoneNumber: form.PhoneNumber,
		Designation: form.Designation,
		Gender:      form.Gender,
		PhotoPath:   photoPath,
		CreatedBy:   createdBy,
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if delErr := s.storage.Delete(photoPath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", photoPath).Msg("Failed to remove photo after aborted create")
		}
		return nil, err
	}

	return employee, nil
}

// Update validates the form and fully replaces the record's fields. The
// photo path is only replaced when a new file was uploaded, in which
// case the previous file is deleted once the row update has committed.
func (s *EmployeeService) Update(ctx context.Context, id int64, form dto.EmployeeForm, photo *multipart.FileHeader) (*models.Employee, error) {
	dob, err := s.validateForm(form)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photoPath := existing.PhotoPath
	if photo != nil {
		photoPath, err = s.storage.Save(photo)
		if err != nil {
			return nil, err
		}
	}

	employee := &models.Employee{
		ID:          existing.ID,
		FullName:    strings.TrimSpace(form.FullName),
		DOB:         dob,
		Email:       strings.ToLower(strings.TrimSpace(form.Email)),
		Department:  form.Department,
		PhoneNumber: form.PhoneNumber,
		Designation: form.Designation,
		Gender:      form.Gender,
		PhotoPath:   photoPath,
		CreatedBy:   existing.CreatedBy,
		CreatedAt:   existing.CreatedAt,
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		if photo != nil {
			if delErr := s.storage.Delete(photoPath); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", photoPath).Msg("Failed to remove photo after aborted update")
			}
		}
		return nil, err
	}

	// The old file's lifetime ends exactly when its replacement is
	// persisted.
	if photo != nil && existing.PhotoPath != "" && existing.PhotoPath != photoPath {
		if delErr := s.storage.Delete(existing.PhotoPath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", existing.PhotoPath).Msg("Failed to delete replaced photo")
		}
	}

	return employee, nil
}

// Delete removes the record and then attempts to delete its photo file.
// A failed file removal is logged and ignored: the record delete is the
// authoritative act and a leftover file is detectable garbage, while
// resurrecting a deleted record over a filesystem error would not be.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if existing.PhotoPath != "" {
		if delErr := s.storage.Delete(existing.PhotoPath); delErr != nil {
			s.logger.Warn().Err(delErr).Int64("employeeId", id).Str("path", existing.PhotoPath).Msg("Failed to delete employee photo")
		}
	}

	return nil
}
