package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tijani-web/flowpitch-backend/internal/config"
	"github.com/tijani-web/flowpitch-backend/internal/database"
	"github.com/tijani-web/flowpitch-backend/internal/handler"
	"github.com/tijani-web/flowpitch-backend/internal/mailer"
	"github.com/tijani-web/flowpitch-backend/internal/middleware"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
}

func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := database.New(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
	})
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{Engine: r, DB: db, Config: cfg, Log: log}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	cfg, log, db := s.Config, s.Log, s.DB

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	stageRepo := repository.NewStageRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	mail := mailer.NewClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom, log)
	notifier := handler.NewNotifier(followerRepo, notificationRepo, log)
	guard := handler.NewProjectGuard(projectRepo, memberRepo, log)

	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret, log)
	oauthHandler := handler.NewOAuthHandler(userRepo, cfg, log)
	userHandler := handler.NewUserHandler(userRepo, log)
	projectHandler := handler.NewProjectHandler(projectRepo, guard, log)
	stageHandler := handler.NewStageHandler(stageRepo, guard, log)
	featureHandler := handler.NewFeatureHandler(featureRepo, stageRepo, guard, notifier, log)
	voteHandler := handler.NewVoteHandler(voteRepo, featureRepo, guard, log)
	commentHandler := handler.NewCommentHandler(commentRepo, featureRepo, userRepo, activityRepo, guard, notifier, log)
	discussionHandler := handler.NewDiscussionHandler(discussionRepo, activityRepo, guard, log)
	replyHandler := handler.NewReplyHandler(replyRepo, discussionRepo, guard, log)
	followerHandler := handler.NewFollowerHandler(followerRepo, activityRepo, guard, log)
	memberHandler := handler.NewMemberHandler(memberRepo, inviteRepo, userRepo, activityRepo, guard, mail, cfg.FrontendURL, log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, log)
	activityHandler := handler.NewActivityHandler(activityRepo, guard, log)
	searchHandler := handler.NewSearchHandler(searchRepo, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardRepo, guard, log)

	r := s.Engine
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	authOptional := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/change-password", authRequired, authHandler.ChangePassword)
		auth.POST("/logout", authRequired, authHandler.Logout)
		auth.GET("/me", authRequired, authHandler.Me)
	}

	oauth := api.Group("/oauth")
	{
		oauth.GET("/google", oauthHandler.GoogleLogin)
		oauth.GET("/google/callback", oauthHandler.GoogleCallback)
		oauth.GET("/github", oauthHandler.GithubLogin)
		oauth.GET("/github/callback", oauthHandler.GithubCallback)
		oauth.GET("/failure", oauthHandler.Failure)
	}

	users := api.Group("/users")
	{
		users.PUT("/me", authRequired, userHandler.UpdateMe)
		users.GET("/me/following", authRequired, followerHandler.ListMine)
		users.GET("/:username", userHandler.GetByUsername)
	}

	projects := api.Group("/projects")
	{
		projects.POST("", authRequired, projectHandler.Create)
		projects.GET("", authRequired, projectHandler.List)
		projects.GET("/:id", authOptional, projectHandler.Get)
		projects.PUT("/:id", authRequired, projectHandler.Update)
		projects.DELETE("/:id", authRequired, projectHandler.Delete)

		projects.GET("/:id/stages", authOptional, stageHandler.List)
		projects.POST("/:id/stages", authRequired, stageHandler.Create)

		projects.POST("/:id/features", authRequired, featureHandler.Create)
		projects.GET("/:id/features", authOptional, featureHandler.ListByProject)

		projects.POST("/:id/discussions", authRequired, discussionHandler.Create)
		projects.GET("/:id/discussions", authOptional, discussionHandler.ListByProject)

		projects.POST("/:id/follow", authRequired, followerHandler.Follow)
		projects.DELETE("/:id/follow", authRequired, followerHandler.Unfollow)
		projects.GET("/:id/followers", authOptional, followerHandler.ListByProject)

		projects.POST("/:id/invites", authRequired, memberHandler.Invite)
		projects.GET("/:id/members", authOptional, memberHandler.List)
		projects.PUT("/:id/members/:memberId", authRequired, memberHandler.UpdateRole)
		projects.DELETE("/:id/members/:memberId", authRequired, memberHandler.Remove)

		projects.GET("/:id/activity", authOptional, activityHandler.ListByProject)
	}

	stages := api.Group("/stages")
	{
		stages.PUT("/:id", authRequired, stageHandler.Update)
		stages.DELETE("/:id", authRequired, stageHandler.Delete)
	}

	features := api.Group("/features")
	{
		features.GET("/:id", authOptional, featureHandler.Get)
		features.PUT("/:id", authRequired, featureHandler.Update)
		features.DELETE("/:id", authRequired, featureHandler.Delete)

		features.POST("/:id/vote", authRequired, voteHandler.Cast)
		features.DELETE("/:id/vote", authRequired, voteHandler.Remove)

		features.POST("/:id/comments", authRequired, commentHandler.Create)
		features.GET("/:id/comments", authOptional, commentHandler.ListByFeature)
	}

	api.GET("/votes/me", authRequired, voteHandler.ListMine)

	comments := api.Group("/comments")
	{
		comments.PUT("/:id", authRequired, commentHandler.Update)
		comments.DELETE("/:id", authRequired, commentHandler.Delete)
	}

	discussions := api.Group("/discussions")
	{
		discussions.DELETE("/:id", authRequired, discussionHandler.Delete)
		discussions.POST("/:id/like", authRequired, discussionHandler.Like)
		discussions.DELETE("/:id/like", authRequired, discussionHandler.Unlike)
		discussions.POST("/:id/replies", authRequired, replyHandler.Create)
		discussions.GET("/:id/replies", authOptional, replyHandler.ListByDiscussion)
	}

	replies := api.Group("/replies")
	{
		replies.PUT("/:id", authRequired, replyHandler.Update)
		replies.DELETE("/:id", authRequired, replyHandler.Delete)
		replies.POST("/:id/like", authRequired, replyHandler.Like)
		replies.DELETE("/:id/like", authRequired, replyHandler.Unlike)
	}

	api.POST("/invites/:token/accept", authRequired, memberHandler.Accept)

	notifications := api.Group("/notifications", authRequired)
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	search := api.Group("/search", authOptional)
	{
		search.GET("", searchHandler.Combined)
		search.GET("/projects", searchHandler.Projects)
		search.GET("/features", searchHandler.Features)
		search.GET("/public/projects", searchHandler.PublicProjects)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/user", authRequired, dashboardHandler.User)
		dashboard.GET("/project/:id", authOptional, dashboardHandler.Project)
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatal("failed to listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	s.Log.Info("server exited")
}
