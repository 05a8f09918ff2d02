package handler

import (
	"errors"
	"io"

	"skill-atlas/internal/delivery/http/dto"
	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/pkg/response"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc usecase.AnalyzeUsecase
}

func NewResumeHandler(uc usecase.AnalyzeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/analyze", h.Analyze)
}

func (h *ResumeHandler) Analyze(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	res, err := h.uc.AnalyzeResume(c.Context(), data)
	if err != nil {
		return mapAnalyzeUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AnalyzeResumeResponse{
		EarnedSkills:    res.EarnedSkills,
		AvailableSkills: res.AvailableSkills,
		SkillPoints:     res.SkillPoints,
		SkillTree:       res.Graph,
		Source:          res.Source,
	})
}

func mapAnalyzeUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrResumeTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "Resume file too large", nil, err)
	case errors.Is(err, usecase.ErrResumeNotPDF):
		return middleware.NewAppError(fiber.StatusBadRequest, "File must be a PDF", nil, err)
	case errors.Is(err, usecase.ErrResumeNoText):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No extractable text in PDF", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
