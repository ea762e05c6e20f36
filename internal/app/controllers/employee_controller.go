package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/idms/ems/internal/app/models"
	"github.com/idms/ems/internal/app/models/dto"
	"github.com/idms/ems/internal/middleware"
	"github.com/idms/ems/pkg/filter"
)

// maxPhotoSize limits uploaded photos to 2 MiB
const maxPhotoSize = 2 << 20

// EmployeeService is the service surface the employee controller depends on
type EmployeeService interface {
	List(ctx context.Context, f filter.Filters) ([]*models.Employee, error)
	Create(ctx context.Context, form dto.EmployeeForm, photo *multipart.FileHeader, createdBy int64) (*models.Employee, error)
	Update(ctx context.Context, id int64, form dto.EmployeeForm, photo *multipart.FileHeader) (*models.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// ExportService renders the filtered list as a downloadable workbook
type ExportService interface {
	ExportXLSX(ctx context.Context, f filter.Filters) (*excelize.File, error)
}

// EmployeeController handles employee CRUD endpoints
type EmployeeController struct {
	employeeService EmployeeService
	exportService   ExportService
	logger          zerolog.Logger
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employeeService EmployeeService, exportService ExportService, logger zerolog.Logger) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
		exportService:   exportService,
		logger:          logger,
	}
}

func filtersFromQuery(ctx *gin.Context) filter.Filters {
	return filter.Filters{
		Search:      ctx.Query("search"),
		Department:  ctx.Query("department"),
		Designation: ctx.Query("designation"),
		Gender:      ctx.Query("gender"),
	}
}

// List returns employees matching the optional filters, newest first
// @Summary List employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring match over name, email or department"
// @Param department query string false "Exact department"
// @Param designation query string false "Exact designation"
// @Param gender query string false "Exact gender"
// @Success 200 {object} dto.EmployeeListResponse "Matching employees plus dropdown option sets"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /employees [get]
func (c *EmployeeController) List(ctx *gin.Context) {
	employees, err := c.employeeService.List(ctx.Request.Context(), filtersFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeListResponse{
		Employees: employees,
		Meta: dto.ListMeta{
			Departments:  models.AllowedDepartments,
			Designations: models.AllowedDesignations,
			Genders:      models.AllowedGenders,
		},
	})
}

// photoFromForm extracts and validates the optional photo file part
func photoFromForm(ctx *gin.Context) (*multipart.FileHeader, *dto.ErrorResponse) {
	header, err := ctx.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, dto.NewErrorResponse(dto.ErrorCodeValidation, "Invalid photo upload")
	}

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return nil, dto.NewErrorResponse(dto.ErrorCodeValidation, "Only image uploads are allowed")
	}
	if header.Size > maxPhotoSize {
		return nil, dto.NewErrorResponse(dto.ErrorCodeValidation, "Photo must be 2MB or smaller")
	}

	return header, nil
}

// Create handles employee creation
// @Summary Create an employee
// @Tags employees
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.EmployeeResponse "Created employee"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Duplicate email"
// @Router /employees [post]
func (c *EmployeeController) Create(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Unauthorized"))
		return
	}

	var form dto.EmployeeForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Invalid form data"))
		return
	}

	photo, errResp := photoFromForm(ctx)
	if errResp != nil {
		ctx.JSON(http.StatusBadRequest, errResp)
		return
	}

	employee, err := c.employeeService.Create(ctx.Request.Context(), form, photo, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("employeeId", employee.ID).Str("email", employee.Email).Msg("Employee created")

	ctx.JSON(http.StatusCreated, dto.EmployeeResponse{Employee: employee})
}

func employeeIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Invalid employee id"))
		return 0, false
	}
	return id, true
}

// Update handles employee updates
// @Summary Update an employee
// @Tags employees
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse "Updated employee"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate email"
// @Router /employees/{id} [put]
func (c *EmployeeController) Update(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)
	if !ok {
		return
	}

	var form dto.EmployeeForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidation, "Invalid form data"))
		return
	}

	photo, errResp := photoFromForm(ctx)
	if errResp != nil {
		ctx.JSON(http.StatusBadRequest, errResp)
		return
	}

	employee, err := c.employeeService.Update(ctx.Request.Context(), id, form, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeResponse{Employee: employee})
}

// Delete handles employee deletion
// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} dto.SuccessResponse "Deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Router /employees/{id} [delete]
func (c *EmployeeController) Delete(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)
	if !ok {
		return
	}

	if err := c.employeeService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("employeeId", id).Msg("Employee deleted")

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Employee deleted successfully"})
}

// Export streams the filtered employee list as an XLSX workbook
// @Summary Export employees
// @Tags employees
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary "Workbook"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /employees/export [get]
func (c *EmployeeController) Export(ctx *gin.Context) {
	file, err := c.exportService.ExportXLSX(ctx.Request.Context(), filtersFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(ctx.Writer); err != nil {
		c.logger.Error().Err(err).Msg("Failed to stream export workbook")
	}
}
