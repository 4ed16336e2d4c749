package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/idea-observation-api/api/swagger"
	"github.com/noah-isme/idea-observation-api/internal/handler"
	internalmiddleware "github.com/noah-isme/idea-observation-api/internal/middleware"
	"github.com/noah-isme/idea-observation-api/internal/repository"
	"github.com/noah-isme/idea-observation-api/internal/service"
	"github.com/noah-isme/idea-observation-api/pkg/cache"
	"github.com/noah-isme/idea-observation-api/pkg/config"
	"github.com/noah-isme/idea-observation-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/idea-observation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/idea-observation-api/pkg/middleware/requestid"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, logr := a.cfg, a.logger

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache.Enabled)
	if err != nil {
		logr.Warn("redis unavailable, serving reference data without cache", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	users := repository.NewUserRepository(a.db)
	schools := repository.NewSchoolRepository(a.db)
	teachers := repository.NewTeacherRepository(a.db)
	classrooms := repository.NewClassroomRepository(a.db)
	students := repository.NewStudentRepository(a.db)
	reference := repository.NewReferenceRepository(a.db)
	observations := repository.NewObservationRepository(a.db)
	entries := repository.NewObservationEntryRepository(a.db)

	credentials := service.NewCredentialService(service.CredentialConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "reference"), metrics, cfg.Cache.ReferenceTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	authSvc := service.NewAuthService(users, credentials, validate, logr)
	schoolSvc := service.NewSchoolService(schools, validate, logr)
	teacherSvc := service.NewTeacherService(teachers, schools, validate, logr)
	classroomSvc := service.NewClassroomService(classrooms, schools, teachers, validate, logr)
	studentSvc := service.NewStudentService(students, schools, reference, validate, logr)
	referenceSvc := service.NewReferenceService(reference, cacheSvc, logr)
	observationSvc := service.NewObservationService(service.ObservationStores{
		Observations: observations,
		Entries:      entries,
		Students:     students,
		Classrooms:   classrooms,
		Teachers:     teachers,
		Observers:    users,
		Schools:      schools,
		Categories:   reference,
	}, validate, metrics, logr)
	reportSvc := service.NewReportService(observationSvc, service.NewKeywordAssembler(), validate, metrics, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metrics))
	}
	r.Use(internalmiddleware.ResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}),
		Directory:    handler.NewDirectoryHandler(schoolSvc, teacherSvc, classroomSvc),
		Students:     handler.NewStudentHandler(studentSvc),
		Reference:    handler.NewReferenceHandler(referenceSvc),
		Observations: handler.NewObservationHandler(observationSvc),
		Reports:      handler.NewReportHandler(reportSvc),
		Metrics:      handler.NewMetricsHandler(metrics, a.db),
	}, internalmiddleware.JWT(credentials, cfg.Auth.CookieName), cfg.Metrics.Enabled)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logr.Error("server stopped with error", zap.Error(err))
		return err
	}
	logr.Info("server stopped")
	return nil
}
