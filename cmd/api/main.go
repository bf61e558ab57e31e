package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruiter-platform/config"
	_ "recruiter-platform/docs"
	"recruiter-platform/internal/datasync"
	"recruiter-platform/internal/delivery/http/middleware"
	v1 "recruiter-platform/internal/delivery/http/v1"
	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/repository/postgres"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/auth"
	"recruiter-platform/pkg/database"
	"recruiter-platform/pkg/llm"
	"recruiter-platform/pkg/logger"
	"recruiter-platform/pkg/queue"
	"recruiter-platform/pkg/redis"
	"recruiter-platform/pkg/security"
	"recruiter-platform/pkg/security/antivirus"
	"recruiter-platform/pkg/storage"
	"recruiter-platform/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title           Recruiter Platform API
// @version         1.0
// @description     Multi-region recruitment API with GDPR-aware cross-region sync.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting recruiter platform API", "port", cfg.Port, "region", cfg.APIRegion)

	audit := security.InitSecurityLogger("recruiter-api", cfg.APIRegion)
	defer audit.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	var redisPing usecase.Pinger
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limits fall back to memory", "error", err)
	} else {
		redisPing = usecase.PingFunc(redis.HealthCheck)
		defer redis.Close()
	}

	regions, err := datasync.ParseRegionConfig(cfg.SyncRegions, cfg.SyncRegionCountries)
	if err != nil {
		logger.Log.Error("Invalid region configuration", "error", err)
		os.Exit(1)
	}
	regionStore := datasync.NewSQLStore(regions, database.OpenSQL)
	defer regionStore.Close()
	planner := datasync.NewService(regions, regionStore)

	var notifier domain.SyncNotifier = domain.NoopSyncNotifier{}
	if cfg.RabbitMQURL != "" {
		mq, err := queue.Dial(queue.Config{URL: cfg.RabbitMQURL, QueueName: cfg.SyncQueueName})
		if err != nil {
			logger.Log.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer mq.Close()
		notifier = datasync.NewPublisher(mq, cfg.APIRegion)
	} else {
		logger.Log.Warn("RABBITMQ_URL not set, changes will not be replicated")
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise object storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)
		if !clam.Available(ctx) {
			logger.Log.Warn("ClamAV is not reachable, uploads will be rejected until it is", "address", cfg.ClamAVAddress)
		}
		scanner = clam
	}

	var llmClient llm.Client
	if client, err := llm.NewClient(ctx, llm.Config{
		Provider: llm.Provider(cfg.LLMProvider),
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLMModel,
	}); err != nil {
		logger.Log.Warn("LLM client disabled, transcript scoring unavailable", "error", err)
	} else {
		llmClient = client
		defer client.Close()
	}

	validate := validation.New()

	userRepo := postgres.NewUserRepository(dbPool)
	countryRepo := postgres.NewCountryRepository(dbPool)
	exposureRepo := postgres.NewCountryExposureSetRepository(dbPool)
	jobPostRepo := postgres.NewJobPostRepository(dbPool)
	stepRepo := postgres.NewJobPostStepRepository(dbPool)
	assignmentRepo := postgres.NewStepAssignmentRepository(dbPool)
	promptRepo := postgres.NewPromptRepository(dbPool)
	configRepo := postgres.NewInterviewConfigurationRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	scoringRepo := postgres.NewScoringRepository(dbPool)
	commentRepo := postgres.NewCommentRepository(dbPool)
	profileRepo := postgres.NewUserProfileRepository(dbPool)
	applicationRepo := postgres.NewJobApplicationRepository(dbPool)
	questionnaireRepo := postgres.NewQuestionnaireRepository(dbPool)
	fileRepo := postgres.NewFileRepository(dbPool)
	syncConfigRepo := postgres.NewSyncConfigurationRepository(dbPool)

	authUC := usecase.NewAuthUsecase(userRepo)
	countryUC := usecase.NewCountryUsecase(countryRepo, exposureRepo)
	jobPostUC := usecase.NewJobPostUsecase(jobPostRepo, assignmentRepo, countryUC, notifier, validate)
	stepUC := usecase.NewJobPostStepUsecase(stepRepo, assignmentRepo, jobPostRepo, notifier, validate)
	promptUC := usecase.NewPromptUsecase(promptRepo, validate)
	configUC := usecase.NewInterviewConfigurationUsecase(configRepo, notifier, validate)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, scoringRepo, applicationRepo, configUC, promptUC, llmClient, notifier, validate)
	commentUC := usecase.NewCommentUsecase(commentRepo, notifier, validate)
	profileUC := usecase.NewUserProfileUsecase(profileRepo, notifier, validate)
	applicationUC := usecase.NewJobApplicationUsecase(applicationRepo, jobPostUC, assignmentRepo, notifier, validate)
	questionnaireUC := usecase.NewQuestionnaireUsecase(questionnaireRepo, validate)
	fileUC := usecase.NewFileUsecase(fileRepo, store, scanner, security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay), notifier)
	syncConfigUC := usecase.NewSyncConfigurationUsecase(syncConfigRepo, planner, validate)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": dbPool,
		"redis":    redisPing,
	})

	var jwks *auth.Provider
	if cfg.JWKSURL != "" {
		jwks = auth.NewProvider(cfg.JWKSURL)
	}

	deps := v1.RouterDeps{
		AuthUC:                   authUC,
		CountryUC:                countryUC,
		JobPostUC:                jobPostUC,
		JobPostStepUC:            stepUC,
		PromptUC:                 promptUC,
		InterviewConfigurationUC: configUC,
		InterviewUC:              interviewUC,
		CommentUC:                commentUC,
		UserProfileUC:            profileUC,
		JobApplicationUC:         applicationUC,
		QuestionnaireUC:          questionnaireUC,
		FileUC:                   fileUC,
		SyncConfigurationUC:      syncConfigUC,
		HealthUC:                 healthUC,
		Verifier:                 auth.NewVerifier(cfg.JWTSecret, jwks, cfg.AuthIssuer),
		AllowedOrigins:           cfg.AllowedOrigins(),
	}
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := middleware.NewMetrics(reg)
		if err != nil {
			logger.Log.Error("Failed to register metrics", "error", err)
			os.Exit(1)
		}
		deps.Metrics, deps.Gatherer = metrics, reg
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           v1.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "minio":
		return storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			Region:    cfg.MinIORegion,
		})
	case "s3", "":
		return storage.NewS3(ctx, storage.S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
	default:
		return nil, errors.New("unknown storage backend " + cfg.StorageBackend)
	}
}
