package handler

import (
	"errors"

	"skill-atlas/internal/delivery/http/dto"
	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserSkillHandler struct {
	save  usecase.SkillSaveUsecase
	query usecase.UserQueryUsecase
}

type saveSkillsRequest struct {
	SkillTree dto.SkillGraphPayload `json:"skillTree"`
}

func NewUserSkillHandler(save usecase.SkillSaveUsecase, query usecase.UserQueryUsecase) *UserSkillHandler {
	return &UserSkillHandler{save: save, query: query}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/skills")
	grp.Get("/", h.Get)
	grp.Put("/", h.Save)
}

func (h *UserSkillHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	skills, points, err := h.query.GetUserSkills(c.Context(), userID)
	if err != nil {
		return mapSkillUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.UserSkillsResponse{
		EarnedSkills:    skills.EarnedSkills,
		AvailableSkills: skills.AvailableSkills,
		SkillPoints:     points,
		SkillTree:       skills.SkillTree,
	})
}

func (h *UserSkillHandler) Save(c fiber.Ctx) error {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req saveSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.save.SaveSkills(c.Context(), usecase.SaveSkillsInput{
		UserID: userID,
		Graph: skilltree.SkillGraph{
			Nodes:       req.SkillTree.Nodes,
			Connections: req.SkillTree.Connections,
		},
	})
	if err != nil {
		return mapSkillUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SaveSkillsResponse{
		EarnedSkills:    res.EarnedSkills,
		AvailableSkills: res.AvailableSkills,
		SkillPoints:     res.SkillPoints,
		Merged:          res.Merged,
	})
}

func mapSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
