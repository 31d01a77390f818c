package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-service/internal/api/dto"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/service"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// DepartmentsHandler manages department endpoints.
type DepartmentsHandler struct {
	service *service.OrgService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(orgService *service.OrgService) *DepartmentsHandler {
	return &DepartmentsHandler{service: orgService}
}

// List GET /api/departments. Public: the reporting front renders this.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(items)
}

// Get GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("department")
	}
	dept, err := h.service.GetDepartment(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(departmentResponse(dept))
}

// Create POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	dept, err := h.service.CreateDepartment(c.Context(), principal.Employee, departmentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(departmentResponse(dept))
}

// Update PUT /api/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("department")
	}
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	dept, err := h.service.UpdateDepartment(c.Context(), principal.Employee, id, departmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(departmentResponse(dept))
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("department")
	}
	if err := h.service.DeleteDepartment(c.Context(), principal.Employee, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func departmentInput(req dto.DepartmentRequest) service.DepartmentInput {
	return service.DepartmentInput{
		Name:                  req.Name,
		Floor:                 req.Floor,
		ResponsibleEmployeeID: req.ResponsibleEmployeeID,
	}
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:                  dept.ID,
		Name:                dept.Name,
		Floor:               dept.Floor,
		ResponsibleEmployee: employeeBrief(dept.Responsible),
	}
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
