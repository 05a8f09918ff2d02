package v1

import (
	"skill-atlas/internal/delivery/http/handler"
	"skill-atlas/internal/delivery/http/middleware"
	"skill-atlas/internal/pkg/jwt"
	"skill-atlas/internal/resources"
	"skill-atlas/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps carries the constructed services the v1 surface is built from.
type Deps struct {
	JWT jwt.Service

	Auth      usecase.AuthUsecase
	SkillSave usecase.SkillSaveUsecase
	UserQuery usecase.UserQueryUsecase
	Tree      usecase.GlobalTreeUsecase
	Rebuild   usecase.RebuildUsecase
	Analyze   usecase.AnalyzeUsecase
	Resources *resources.Service
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(d.JWT)

	authHandler := handler.NewAuthHandler(d.Auth)
	resumeHandler := handler.NewResumeHandler(d.Analyze)
	treeHandler := handler.NewTreeHandler(d.Tree)
	userSkillHandler := handler.NewUserSkillHandler(d.SkillSave, d.UserQuery)
	usersQueryHandler := handler.NewUsersQueryHandler(d.UserQuery)
	adminHandler := handler.NewAdminHandler(d.Rebuild, d.Tree, d.Resources)
	resourceHandler := handler.NewResourceHandler(d.Resources)

	authHandler.RegisterRoutes(r.Group("/auth"))
	resumeHandler.RegisterRoutes(r.Group("/resumes"))
	treeHandler.RegisterRoutes(r.Group("/tree"))
	resourceHandler.RegisterRoutes(r.Group("/skills"))

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userSkillHandler.RegisterRoutes(usersGroup)
	usersQueryHandler.RegisterRoutes(usersGroup)

	adminHandler.RegisterRoutes(protected.Group("/admin"))
}
