package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/pkg/apperrors"
	"github.com/idms/ems/internal/pkg/dberrors"
	"github.com/idms/ems/pkg/filter"
)

// EmployeeRepository handles database operations for employees
type EmployeeRepository struct {
	db *pgxpool.Pool
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{
		db: db,
	}
}

const employeeColumns = `id, full_name, dob, email, department, phone_number, designation, gender, photo_path, created_by, created_at, updated_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID,
		&e.FullName,
		&e.DOB,
		&e.Email,
		&e.Department,
		&e.PhoneNumber,
		&e.Designation,
		&e.Gender,
		&e.PhotoPath,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List retrieves employees matching the filters, newest first. The SQL
// mirrors filter.Matches: search is an OR of case-insensitive substring
// matches over full_name, email and department; the remaining filters
// compare their column exactly, ignoring case; all combine with AND.
func (r *EmployeeRepository) List(ctx context.Context, f filter.Filters) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`

	var conditions []string
	var args []interface{}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR email ILIKE $%d OR department ILIKE $%d)", n, n, n))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		conditions = append(conditions, fmt.Sprintf("lower(department) = lower($%d)", len(args)))
	}
	if f.Designation != "" {
		args = append(args, f.Designation)
		conditions = append(conditions, fmt.Sprintf("lower(designation) = lower($%d)", len(args)))
	}
	if f.Gender != "" {
		args = append(args, f.Gender)
		conditions = append(conditions, fmt.Sprintf("lower(gender) = lower($%d)", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// escapeLike escapes LIKE wildcards so search terms match literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("error retrieving employee: %w", err)
	}

	return e, nil
}

// Create inserts a new employee. Email uniqueness is enforced by the
// unique index on lower(email); a violation maps to ErrEmailAlreadyExists.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (full_name, dob, email, department, phone_number, designation, gender, photo_path, created_by)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9)
		RETURNING id, email, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		e.FullName, e.DOB, e.Email, e.Department, e.PhoneNumber,
		e.Designation, e.Gender, e.PhotoPath, e.CreatedBy,
	).Scan(&e.ID, &e.Email, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "employees_email_lower_unique") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating employee: %w", err)
	}

	return nil
}

// Update fully replaces an employee's fields, photo path included (the
// caller decides whether the photo path carries the old or a new value).
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	query := `
		UPDATE employees
		SET full_name = $1, dob = $2, email = lower($3), department = $4,
			phone_number = $5, designation = $6, gender = $7, photo_path = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING email, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		e.FullName, e.DOB, e.Email, e.Department, e.PhoneNumber,
		e.Designation, e.Gender, e.PhotoPath, e.ID,
	).Scan(&e.Email, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrEmployeeNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, "employees_email_lower_unique") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating employee: %w", err)
	}

	return nil
}

// Delete removes an employee by ID
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting employee: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEmployeeNotFound
	}

	return nil
}
