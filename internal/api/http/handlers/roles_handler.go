package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-service/internal/api/dto"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/service"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// RolesHandler exposes the seeded role reference data.
type RolesHandler struct {
	service *service.OrgService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(orgService *service.OrgService) *RolesHandler {
	return &RolesHandler{service: orgService}
}

// List GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	roles, err := h.service.ListRoles(c.Context(), principal.Employee)
	if err != nil {
		return err
	}
	items := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		items = append(items, dto.RoleResponse{ID: role.ID, Name: role.Name})
	}
	return c.JSON(items)
}
