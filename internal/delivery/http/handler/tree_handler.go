package handler

import (
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TreeHandler struct {
	uc usecase.GlobalTreeUsecase
}

func NewTreeHandler(uc usecase.GlobalTreeUsecase) *TreeHandler {
	return &TreeHandler{uc: uc}
}

func (h *TreeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/global", h.GetGlobal)
}

func (h *TreeHandler) GetGlobal(c fiber.Ctx) error {
	view, err := h.uc.GetGlobalTree(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, view)
}
