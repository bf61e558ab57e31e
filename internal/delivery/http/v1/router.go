package v1

import (
	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC                   domain.AuthUsecase
	CountryUC                domain.CountryUsecase
	JobPostUC                domain.JobPostUsecase
	JobPostStepUC            domain.JobPostStepUsecase
	PromptUC                 domain.PromptUsecase
	InterviewConfigurationUC domain.InterviewConfigurationUsecase
	InterviewUC              domain.InterviewUsecase
	CommentUC                domain.CommentUsecase
	UserProfileUC            domain.UserProfileUsecase
	JobApplicationUC         domain.JobApplicationUsecase
	QuestionnaireUC          domain.QuestionnaireUsecase
	FileUC                   domain.FileUsecase
	SyncConfigurationUC      domain.SyncConfigurationUsecase
	HealthUC                 usecase.HealthUsecase

	Verifier       middleware.TokenVerifier
	AllowedOrigins []string
	// Metrics and Gatherer are optional; /metrics is only served when both are set.
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins)) // before anything that can abort
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.GlobalRateLimitMiddleware())

	if deps.Metrics != nil && deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))
	{
		NewAuthHandler(protected, deps.AuthUC)
		NewCountryHandler(protected, deps.CountryUC)
		NewJobPostHandler(protected, deps.JobPostUC)
		NewJobPostStepHandler(protected, deps.JobPostStepUC)
		NewPromptHandler(protected, deps.PromptUC)
		NewInterviewConfigurationHandler(protected, deps.InterviewConfigurationUC)
		NewInterviewHandler(protected, deps.InterviewUC)
		NewCommentHandler(protected, deps.CommentUC)
		NewUserProfileHandler(protected, deps.UserProfileUC)
		NewJobApplicationHandler(protected, deps.JobApplicationUC)
		NewQuestionnaireHandler(protected, deps.QuestionnaireUC)
		NewFileHandler(protected, deps.FileUC)
		NewSyncConfigurationHandler(protected, deps.SyncConfigurationUC)
	}

	return r
}
