package app

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-atlas/internal/config"
	"skill-atlas/internal/database"
	"skill-atlas/internal/database/migration"
	dbpostgres "skill-atlas/internal/database/postgres"
	"skill-atlas/internal/infrastructure/cache"
	"skill-atlas/internal/infrastructure/extract"
	"skill-atlas/internal/infrastructure/proposer"
	"skill-atlas/internal/pkg/jwt"
	"skill-atlas/internal/repository"
	"skill-atlas/internal/resources"
	"skill-atlas/internal/usecase"
	"skill-atlas/internal/ws"
)

// Container wires configuration, storage and the usecase graph.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	JWT       jwt.Service
	Auth      usecase.AuthUsecase
	SkillSave usecase.SkillSaveUsecase
	UserQuery usecase.UserQueryUsecase
	Tree      usecase.GlobalTreeUsecase
	Rebuild   usecase.RebuildUsecase
	Analyze   usecase.AnalyzeUsecase
	Resources *resources.Service
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	runner := migration.Runner{FS: database.MigrationsFS()}
	if err := runner.Run(migCtx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(logger)
	hub := ws.NewHub(logger)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	userRepo := repository.NewPostgresUserRepository(db)
	treeRepo := repository.NewPostgresGlobalTreeRepository(db)
	resourceRepo := repository.NewPostgresSkillResourceRepository(db)

	var graphProposer usecase.GraphProposer
	gem, err := proposer.NewGemini(cfg.Gemini, logger)
	if err != nil {
		if !errors.Is(err, proposer.ErrNotConfigured) {
			_ = db.Close()
			return nil, err
		}
		logger.Printf("[App] no proposer API key, keyword analysis only")
	} else {
		graphProposer = gem
	}

	resourceSvc := resources.NewService(resourceRepo, []resources.Source{
		resources.NewDevtoSource(),
		resources.NewGithubTopicSource(),
	}, 4, logger)

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  redisCache,
		Hub:    hub,

		JWT:       jwtSvc,
		Auth:      usecase.NewAuthUsecase(userRepo, jwtSvc),
		SkillSave: usecase.NewSkillSaveUsecase(userRepo, treeRepo, redisCache, cfg.Merge.GrowthThreshold, logger),
		UserQuery: usecase.NewUserQueryUsecase(userRepo, redisCache, logger),
		Tree:      usecase.NewGlobalTreeUsecase(treeRepo, redisCache, logger),
		Rebuild:   usecase.NewRebuildUsecase(userRepo, treeRepo, redisCache, logger),
		Analyze:   usecase.NewAnalyzeUsecase(extract.NewPDFExtractor(), graphProposer, cfg.Resume.MaxUploadBytes, logger),
		Resources: resourceSvc,
	}
	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
