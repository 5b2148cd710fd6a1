package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/auth"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/comment"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/project"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/role"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ticket"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/user"
	"github.com/JustAGhost23/issue-tracker-backend/internal/config"
	infraauth "github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/auth"
	httprouter "github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/handlers"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/http/middleware"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/persistence/postgres"
	redisstore "github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/persistence/redis"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/queue"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/security"
	"github.com/JustAGhost23/issue-tracker-backend/internal/infrastructure/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		log.Fatal().Msg("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("ping redis")
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	keyedStore := redisstore.NewKeyedStore(redisClient)

	asynqOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	mailEnqueuer := queue.NewAsynqEnqueuer(asynqOpt, log)
	defer mailEnqueuer.Close()
	asynqWorker := queue.NewWorker(asynqOpt, log)
	go func() {
		if err := asynqWorker.Run(); err != nil {
			log.Warn().Err(err).Msg("asynq worker stopped")
		}
	}()

	var objectStorage ports.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		objectStorage, err = storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect object storage")
		}
	} else {
		log.Warn().Msg("no STORAGE_ENDPOINT configured; attachments held in memory")
		objectStorage = storage.NewMemoryStorage()
	}

	hasher := security.NewHasher(security.Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	issuer := infraauth.NewTokenIssuer(
		[]byte(cfg.JWT.AccessSecret),
		[]byte(cfg.JWT.RefreshSecret),
		time.Duration(cfg.JWT.AccessExpiry)*time.Second,
		time.Duration(cfg.JWT.RefreshExpiry)*time.Second,
		cfg.JWT.Issuer,
	)
	tokens := auth.NewTokens(issuer, keyedStore)
	dispatcher := activity.NewDispatcher(activityRepo, mailEnqueuer, log)
	authority := membership.NewAuthority(projectRepo)

	registerUC := auth.NewRegister(userRepo, keyedStore, hasher, mailEnqueuer)
	verifyEmailUC := auth.NewVerifyEmail(userRepo, keyedStore)
	loginUC := auth.NewLogin(userRepo, hasher, tokens)
	refreshUC := auth.NewRefresh(userRepo, tokens)
	logoutUC := auth.NewLogout(tokens)
	forgotPasswordUC := auth.NewForgotPassword(userRepo, keyedStore, mailEnqueuer)
	resetPasswordUC := auth.NewResetPassword(userRepo, keyedStore, hasher)

	createProjectUC := project.NewCreate(projectRepo)
	editProjectUC := project.NewEdit(projectRepo)
	deleteProjectUC := project.NewDelete(projectRepo)
	addMemberUC := membership.NewAddMember(projectRepo, userRepo, dispatcher)
	removeMemberUC := membership.NewRemoveMember(projectRepo, userRepo, dispatcher)
	leaveUC := membership.NewLeave(projectRepo, dispatcher)
	transferUC := membership.NewTransferOwnership(projectRepo, userRepo, dispatcher)

	createTicketUC := ticket.NewCreate(ticketRepo, projectRepo, authority, dispatcher)
	editTicketUC := ticket.NewEdit(ticketRepo, userRepo, authority, dispatcher)
	deleteTicketUC := ticket.NewDelete(ticketRepo, projectRepo, attachmentRepo, objectStorage, dispatcher, log)
	assignUC := ticket.NewAssign(ticketRepo, userRepo, authority, dispatcher)
	unassignUC := ticket.NewUnassign(ticketRepo, userRepo, authority, dispatcher)
	attachFileUC := ticket.NewAttachFile(ticketRepo, attachmentRepo, objectStorage, authority, dispatcher)
	deleteFileUC := ticket.NewDeleteFile(ticketRepo, attachmentRepo, objectStorage, authority, dispatcher, log)
	getFileUC := ticket.NewGetFile(ticketRepo, attachmentRepo, objectStorage, authority)

	createCommentUC := comment.NewCreate(commentRepo, ticketRepo, authority, dispatcher)
	editCommentUC := comment.NewEdit(commentRepo)
	deleteCommentUC := comment.NewDelete(commentRepo)

	editUserUC := user.NewEdit(userRepo)
	deleteUserUC := user.NewDelete(userRepo, projectRepo)

	requestChangeUC := role.NewRequestChange(requestRepo)
	cancelRequestUC := role.NewCancel(requestRepo)
	listRequestsUC := role.NewList(requestRepo)
	approveUC := role.NewApprove(requestRepo, userRepo, mailEnqueuer, log)
	rejectUC := role.NewReject(requestRepo, userRepo, mailEnqueuer, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.HTTP.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.SecureHeaders(cfg.Server.Development, cfg.HTTP.TrustedHosts)
	corsMiddleware := middleware.CORS(cfg.HTTP.AllowedOrigins)
	requireJWT := middleware.NewAuthValidator(tokens, userRepo).Handler

	authHandler := handlers.NewAuthHandler(registerUC, verifyEmailUC, loginUC, refreshUC, logoutUC, forgotPasswordUC, resetPasswordUC, cfg.Server.BaseURL, log)
	usersHandler := handlers.NewUsersHandler(userRepo, editUserUC, deleteUserUC, log)
	projectsHandler := handlers.NewProjectsHandler(projectRepo, activityRepo, createProjectUC, editProjectUC, deleteProjectUC, addMemberUC, removeMemberUC, leaveUC, transferUC, log)
	ticketsHandler := handlers.NewTicketsHandler(ticketRepo, activityRepo, attachmentRepo, authority, createTicketUC, editTicketUC, deleteTicketUC, assignUC, unassignUC, attachFileUC, deleteFileUC, getFileUC, log)
	commentsHandler := handlers.NewCommentsHandler(commentRepo, ticketRepo, authority, createCommentUC, editCommentUC, deleteCommentUC, log)
	rolesHandler := handlers.NewRolesHandler(requestChangeUC, cancelRequestUC, listRequestsUC, approveUC, rejectUC, log)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     authHandler,
		HealthHandler:   healthHandler,
		UsersHandler:    usersHandler,
		ProjectsHandler: projectsHandler,
		TicketsHandler:  ticketsHandler,
		CommentsHandler: commentsHandler,
		RolesHandler:    rolesHandler,
		RequireJWT:      requireJWT,
		Log:             log,
		Secure:          secureMiddleware,
		CORS:            corsMiddleware,
		IPRateLimit:     ipLimit,
		Metrics:         cfg.HTTP.Metrics,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	asynqWorker.Shutdown()
	log.Info().Msg("server stopped")
}
