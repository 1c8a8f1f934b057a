package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campushub/faculty-api/api/swagger"
	"github.com/campushub/faculty-api/internal/handler"
	"github.com/campushub/faculty-api/internal/middleware"
	"github.com/campushub/faculty-api/internal/repository"
	"github.com/campushub/faculty-api/internal/service"
	"github.com/campushub/faculty-api/pkg/cache"
	"github.com/campushub/faculty-api/pkg/config"
	"github.com/campushub/faculty-api/pkg/database"
	"github.com/campushub/faculty-api/pkg/logger"
	corsmiddleware "github.com/campushub/faculty-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushub/faculty-api/pkg/middleware/requestid"
	"github.com/campushub/faculty-api/pkg/storage"
)

// @title Faculty API
// @version 1.0.0
// @description Teacher-facing API for subjects, sessions, attendance, assignments and notes
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if cfg.Roster.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	store, err := storage.NewStore(cfg.Storage.BaseDir, cfg.APIPrefix+"/files")
	if err != nil {
		logr.Fatal("failed to init file store", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	authSvc := service.NewAuthService(teacherRepo, directoryRepo, subjectRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "faculty-api",
	})
	var rosterCache service.RosterCache
	if cacheRepo != nil {
		rosterCache = cacheRepo
	}
	rosterSvc := service.NewRosterService(subjectRepo, directoryRepo, studentRepo, rosterCache, cfg.Roster.CacheTTL, logr)
	sessionSvc := service.NewSessionService(sessionRepo, subjectRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, sessionRepo, subjectRepo, rosterSvc, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, sessionRepo, studentRepo, rosterSvc, store, logr)
	noteSvc := service.NewNoteService(noteRepo, subjectRepo, store, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, directoryRepo, subjectRepo, validate, logr)
	directorySvc := service.NewDirectoryService(directoryRepo, subjectRepo, sessionRepo)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, teacherSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	noteHandler := handler.NewNoteHandler(noteSvc)
	subjectHandler := handler.NewSubjectHandler(rosterSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	fileHandler := handler.NewFileHandler(store, signer, cfg.Storage.MaxFileSizeBytes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	}

	api.GET("/departments", directoryHandler.Departments)
	api.GET("/departments/lookup", directoryHandler.DepartmentByName)
	api.GET("/departments/:id/batches", directoryHandler.Batches)
	api.GET("/batches/:id/subjects", directoryHandler.Subjects)
	api.GET("/batches/subjects", directoryHandler.SubjectsByBatches)

	api.GET("/files/shared", fileHandler.SharedDownload)

	protected := api.Group("", middleware.JWT(authSvc))
	{
		protected.GET("/teachers/me", teacherHandler.Profile)
		protected.PUT("/teachers/me", teacherHandler.UpdateProfile)

		protected.GET("/subjects/:id/roster", subjectHandler.Roster)
		protected.GET("/subjects/:id/sessions", sessionHandler.ListBySubject)
		protected.GET("/subjects/:id/attendance", attendanceHandler.SubjectAggregate)
		protected.GET("/subjects/:id/attendance/export", attendanceHandler.ExportRegister)
		protected.GET("/subjects/:id/overview", attendanceHandler.SubjectOverview)
		protected.GET("/subjects/:id/notes", noteHandler.ListBySubject)

		protected.POST("/sessions", sessionHandler.Create)
		protected.GET("/sessions/upcoming", sessionHandler.Upcoming)
		protected.GET("/sessions/:id", sessionHandler.Get)
		protected.DELETE("/sessions/:id", sessionHandler.Delete)
		protected.GET("/sessions/:id/attendance", attendanceHandler.SessionRollCall)
		protected.GET("/sessions/:id/subject", directoryHandler.SubjectFromSession)
		protected.POST("/sessions/:id/assignment", assignmentHandler.Ensure)

		protected.POST("/attendance", attendanceHandler.Mark)

		protected.GET("/assignments/:id", assignmentHandler.Get)
		protected.PUT("/assignments/:id", assignmentHandler.EditDetails)
		protected.GET("/assignments/:id/files", assignmentHandler.GetFiles)
		protected.PUT("/assignments/:id/files", assignmentHandler.SetFiles)
		protected.DELETE("/assignments/:id/files", assignmentHandler.RemoveFiles)
		protected.GET("/assignments/:id/submissions", assignmentHandler.Partition)
		protected.GET("/assignments/:id/submissions/:studentId", assignmentHandler.StudentSubmission)

		protected.POST("/notes", noteHandler.Create)
		protected.PUT("/notes/:id/files", noteHandler.SetFiles)
		protected.DELETE("/notes/:id", noteHandler.Delete)

		protected.POST("/files", fileHandler.Upload)
		protected.GET("/files/:key", fileHandler.Download)
		protected.POST("/files/:key/share", fileHandler.ShareLink)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
