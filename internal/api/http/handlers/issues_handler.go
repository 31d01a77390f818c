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

// IssuesHandler manages issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// CreateIssue POST /api/issues. Public: anyone in the building may report.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return apperrors.NewBadRequest("empty body")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	result, err := h.service.RegisterIssue(c.Context(), req.DepartmentID.String(), req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.IssueCreatedResponse{
		ID:               result.Issue.ID,
		NotificationSent: result.NotificationSent,
		Message:          "issue registered",
	})
}

// ListIssues GET /api/issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	views, err := h.service.ListIssues(c.Context(), principal.Employee)
	if err != nil {
		return err
	}
	items := make([]dto.IssueViewResponse, 0, len(views))
	for i := range views {
		items = append(items, issueViewResponse(&views[i]))
	}
	return c.JSON(items)
}

// TransitionStatus PUT /api/issues/:id.
func (h *IssuesHandler) TransitionStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issueID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewNotFound("issue")
	}
	var req dto.TransitionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	issue, err := h.service.TransitionStatus(c.Context(), principal.Employee, issueID, req.NewStatusID.String())
	if err != nil {
		return err
	}
	return c.JSON(dto.TransitionStatusResponse{
		IssueID:     issue.ID,
		NewStatusID: issue.StatusID,
		Message:     "status updated",
	})
}

func issueViewResponse(view *domain.IssueView) dto.IssueViewResponse {
	resp := dto.IssueViewResponse{
		ID:          view.ID,
		Description: view.Description,
		CreatedAt:   view.CreatedAt,
		Status: dto.StatusResponse{
			ID:   view.Status.ID,
			Name: view.Status.Name,
		},
		Department: dto.DepartmentResponse{
			ID:    view.Department.ID,
			Name:  view.Department.Name,
			Floor: view.Department.Floor,
		},
	}
	resp.Department.ResponsibleEmployee = employeeBrief(view.Department.Responsible)
	return resp
}

func employeeBrief(employee *domain.Employee) *dto.EmployeeBrief {
	if employee == nil {
		return nil
	}
	return &dto.EmployeeBrief{
		ID:      employee.ID,
		Name:    employee.Name,
		Surname: employee.Surname,
	}
}
