package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campus360/portal-api/api/swagger"
	"github.com/campus360/portal-api/internal/handler"
	"github.com/campus360/portal-api/internal/middleware"
	"github.com/campus360/portal-api/internal/models"
	"github.com/campus360/portal-api/internal/realtime"
	"github.com/campus360/portal-api/internal/repository"
	"github.com/campus360/portal-api/internal/service"
	"github.com/campus360/portal-api/pkg/cache"
	"github.com/campus360/portal-api/pkg/config"
	"github.com/campus360/portal-api/pkg/database"
	"github.com/campus360/portal-api/pkg/logger"
	corsmiddleware "github.com/campus360/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus360/portal-api/pkg/middleware/requestid"
)

// @title Campus Portal API
// @version 1.0.0
// @description Campus portal backend: clubs, notices, events, attendance and the realtime feed
// @BasePath /api/v1
// @schemes http

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
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
		logr.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, club directory cache disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Realtime hub.
	metricsSvc := service.NewMetricsService()
	hub := realtime.NewHub(logr, metricsSvc)
	wsHandler := realtime.NewHandler(hub, cfg.Realtime, logr)

	// Services.
	notifier := service.NewNotifier(hub, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		ResetTokenTTL:      cfg.Reset.TokenTTL,
		ResetBaseURL:       cfg.Reset.BaseURL,
	})
	userSvc := service.NewUserService(userRepo, authSvc, nil, logr)
	membershipSvc := service.NewMembershipService(userRepo, clubRepo, logr)
	feedSvc := service.NewFeedService(noticeRepo, announcementRepo, eventRepo, membershipSvc, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, announcementRepo, notifier, nil, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, clubRepo, notifier, nil, logr)
	eventSvc := service.NewEventService(eventRepo, clubRepo, notifier, nil, logr)
	clubSvc := service.NewClubService(clubRepo, userRepo, announcementRepo, eventRepo, cacheRepo, cfg.Clubs.CacheTTL, nil, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, nil, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	clubHandler := handler.NewClubHandler(clubSvc, announcementSvc, eventSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	feedHandler := handler.NewFeedHandler(feedSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/ws", wsHandler.Serve)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	users := api.Group("/users", middleware.JWT(authSvc))
	{
		users.PUT("/role", userHandler.SetRole)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.GET("/attendance-goal", userHandler.AttendanceGoal)
		users.PUT("/attendance-goal", userHandler.SetAttendanceGoal)
		users.GET("/faculty", userHandler.ListFaculty)
	}

	clubs := api.Group("/clubs", middleware.JWT(authSvc))
	{
		clubs.GET("", clubHandler.List)
		clubs.POST("", middleware.RequireRoles(models.RoleClub), clubHandler.Create)

		clubs.GET("/my-club", middleware.RequireRoles(models.RoleClub), clubHandler.MyClub)
		clubs.PUT("/my-club", middleware.RequireRoles(models.RoleClub), clubHandler.UpdateMyClub)
		clubs.DELETE("/my-club", middleware.RequireRoles(models.RoleClub), clubHandler.DeleteMyClub)
		clubs.GET("/my-club/followers", middleware.RequireRoles(models.RoleClub), clubHandler.MyClubFollowers)
		clubs.DELETE("/my-club/followers/:userId", middleware.RequireRoles(models.RoleClub), clubHandler.RemoveFollower)

		clubs.GET("/coordinated", middleware.RequireRoles(models.RoleFaculty), clubHandler.CoordinatedClubs)
		clubs.GET("/coordinated/announcements", middleware.RequireRoles(models.RoleFaculty), clubHandler.CoordinatedAnnouncements)
		clubs.GET("/coordinated/events", middleware.RequireRoles(models.RoleFaculty), clubHandler.CoordinatedEvents)

		clubs.POST("/:clubId/follow", clubHandler.Follow)
		clubs.DELETE("/:clubId/follow", clubHandler.Unfollow)
		clubs.GET("/:clubId/followers/count", clubHandler.FollowerCount)

		clubs.GET("/:clubId/announcements", clubHandler.ListAnnouncements)
		clubs.POST("/:clubId/announcements", middleware.RequireRoles(models.RoleClub), clubHandler.CreateAnnouncement)
		clubs.GET("/:clubId/events", clubHandler.ListEvents)
		clubs.POST("/:clubId/events", middleware.RequireRoles(models.RoleClub), clubHandler.CreateEvent)
		clubs.DELETE("/:clubId/events/:eventId", clubHandler.DeleteEvent)
	}

	notices := api.Group("/notices", middleware.JWT(authSvc))
	{
		notices.GET("", noticeHandler.List)
		notices.POST("", middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin, models.RoleClub), noticeHandler.Create)
	}
	api.DELETE("/posts/:id", middleware.JWT(authSvc), noticeHandler.DeletePost)

	attendance := api.Group("/attendance", middleware.JWT(authSvc))
	{
		attendance.POST("/subjects", attendanceHandler.AddSubject)
		attendance.GET("/subjects", attendanceHandler.ListSubjects)
		attendance.DELETE("/subjects", attendanceHandler.DeleteSubjects)
		attendance.GET("/subjects/:subjectId", attendanceHandler.GetSubject)
		attendance.GET("/subjects/:subjectId/records", attendanceHandler.ListRecordsBySubject)
		attendance.POST("/records", attendanceHandler.SaveRecords)
		attendance.GET("/records", attendanceHandler.ListRecords)
	}

	api.GET("/feed", middleware.JWT(authSvc), feedHandler.GetFeed)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
