package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-service/internal/api/dto"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/service"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// EmployeesHandler manages admin employee endpoints.
type EmployeesHandler struct {
	service *service.OrgService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(orgService *service.OrgService) *EmployeesHandler {
	return &EmployeesHandler{service: orgService}
}

// List GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employees, err := h.service.ListEmployees(c.Context(), principal.Employee)
	if err != nil {
		return err
	}
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, employeeResponse(&employees[i]))
	}
	return c.JSON(items)
}

// Get GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("employee")
	}
	employee, err := h.service.GetEmployee(c.Context(), principal.Employee, id)
	if err != nil {
		return err
	}
	return c.JSON(employeeResponse(employee))
}

// Create POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	employee, err := h.service.CreateEmployee(c.Context(), principal.Employee, employeeInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(employeeResponse(employee))
}

// Update PUT /api/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("employee")
	}
	var req dto.EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	employee, err := h.service.UpdateEmployee(c.Context(), principal.Employee, id, employeeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(employeeResponse(employee))
}

// Delete DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("employee")
	}
	if err := h.service.DeleteEmployee(c.Context(), principal.Employee, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func employeeInput(req dto.EmployeeRequest) service.EmployeeInput {
	return service.EmployeeInput{
		Name:        req.Name,
		Surname:     req.Surname,
		RoleID:      req.RoleID,
		PhoneNumber: req.PhoneNumber,
		TelegramID:  req.TelegramID,
		Login:       req.Login,
		Password:    req.Password,
	}
}

func employeeResponse(employee *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:          employee.ID,
		Name:        employee.Name,
		Surname:     employee.Surname,
		Role:        employee.RoleName,
		PhoneNumber: employee.PhoneNumber,
		TelegramID:  employee.TelegramID,
		Login:       employee.Login,
	}
}
