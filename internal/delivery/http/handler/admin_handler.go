package handler

import (
	"errors"

	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/resources"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	rebuild   usecase.RebuildUsecase
	tree      usecase.GlobalTreeUsecase
	resources *resources.Service
}

type refreshResourcesRequest struct {
	SkillIDs []string `json:"skillIds"`
}

func NewAdminHandler(rebuild usecase.RebuildUsecase, tree usecase.GlobalTreeUsecase, res *resources.Service) *AdminHandler {
	return &AdminHandler{rebuild: rebuild, tree: tree, resources: res}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/tree/rebuild", h.RebuildTree)
	r.Post("/tree/cleanup", h.CleanupTree)
	r.Post("/resources/refresh", h.RefreshResources)
}

func (h *AdminHandler) RebuildTree(c fiber.Ctx) error {
	stats, err := h.rebuild.Rebuild(c.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrRebuildInProgress) {
			return middleware.NewAppError(fiber.StatusConflict, "Rebuild already in progress", nil, err)
		}
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *AdminHandler) CleanupTree(c fiber.Ctx) error {
	res, err := h.tree.Cleanup(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AdminHandler) RefreshResources(c fiber.Ctx) error {
	if h.resources == nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Resource discovery disabled", nil, nil)
	}

	var req refreshResourcesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if len(req.SkillIDs) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing skillIds", nil, nil)
	}

	report, err := h.resources.Refresh(c.Context(), req.SkillIDs)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
