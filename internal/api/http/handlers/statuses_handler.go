package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-service/internal/api/dto"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/service"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// StatusesHandler manages status reference endpoints.
type StatusesHandler struct {
	service *service.OrgService
}

// NewStatusesHandler constructs handler.
func NewStatusesHandler(orgService *service.OrgService) *StatusesHandler {
	return &StatusesHandler{service: orgService}
}

// List GET /api/statuses. Public so the reporting front can label issues.
func (h *StatusesHandler) List(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, dto.StatusResponse{ID: status.ID, Name: status.Name})
	}
	return c.JSON(items)
}

// Create POST /api/statuses.
func (h *StatusesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	status, err := h.service.CreateStatus(c.Context(), principal.Employee, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.StatusResponse{ID: status.ID, Name: status.Name})
}

// Update PUT /api/statuses/:id.
func (h *StatusesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("status")
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	status, err := h.service.UpdateStatus(c.Context(), principal.Employee, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{ID: status.ID, Name: status.Name})
}

// Delete DELETE /api/statuses/:id.
func (h *StatusesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return apperrors.NewNotFound("status")
	}
	if err := h.service.DeleteStatus(c.Context(), principal.Employee, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
