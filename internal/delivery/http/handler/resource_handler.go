package handler

import (
	"strings"

	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/resources"

	"github.com/gofiber/fiber/v3"
)

type ResourceHandler struct {
	svc *resources.Service
}

func NewResourceHandler(svc *resources.Service) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

func (h *ResourceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id/resources", h.Get)
}

func (h *ResourceHandler) Get(c fiber.Ctx) error {
	if h.svc == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Resource discovery disabled", nil, nil)
	}

	skillID := strings.TrimSpace(c.Params("id"))
	if skillID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing skill id", nil, nil)
	}

	items, err := h.svc.Get(c.Context(), skillID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
