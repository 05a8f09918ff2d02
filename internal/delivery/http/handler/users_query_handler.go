package handler

import (
	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UsersQueryHandler struct {
	uc usecase.UserQueryUsecase
}

func NewUsersQueryHandler(uc usecase.UserQueryUsecase) *UsersQueryHandler {
	return &UsersQueryHandler{uc: uc}
}

func (h *UsersQueryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/by-skill", h.BySkill)
	r.Get("/with-skills", h.WithSkills)
}

func (h *UsersQueryHandler) BySkill(c fiber.Ctx) error {
	skillID := c.Query("skillId")
	if skillID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing skillId", nil, nil)
	}

	items, err := h.uc.UsersBySkill(c.Context(), skillID)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *UsersQueryHandler) WithSkills(c fiber.Ctx) error {
	items, err := h.uc.UsersWithSkills(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}
