package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"
	"recruiter-platform/pkg/llm"
	"recruiter-platform/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const scoringInstructions = "You are an expert HR and technical interviewer. You evaluate candidates fairly and provide constructive, detailed feedback. " +
	"Return ONLY valid JSON that matches the schema."

const scoringAttempts = 2

// ScoringCriteria are the weights substituted into the scoring prompt.
type ScoringCriteria struct {
	Technical      int
	Communication  int
	ProblemSolving int
	English        int
}

var DefaultScoringCriteria = ScoringCriteria{Technical: 35, Communication: 25, ProblemSolving: 25, English: 15}

type interviewScore struct {
	Technical      *float64 `json:"Technical"`
	Communication  *float64 `json:"Communication"`
	ProblemSolving *float64 `json:"ProblemSolving"`
	English        *float64 `json:"English"`
}

type interviewUsecase struct {
	interviews   domain.InterviewRepository
	scorings     domain.ScoringRepository
	applications domain.JobApplicationRepository
	configs      domain.InterviewConfigurationUsecase
	prompts      domain.PromptUsecase
	llm          llm.Client
	sync         domain.SyncNotifier
	validate     *validator.Validate
}

func NewInterviewUsecase(
	interviews domain.InterviewRepository,
	scorings domain.ScoringRepository,
	applications domain.JobApplicationRepository,
	configs domain.InterviewConfigurationUsecase,
	prompts domain.PromptUsecase,
	llmClient llm.Client,
	sync domain.SyncNotifier,
	validate *validator.Validate,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviews:   interviews,
		scorings:     scorings,
		applications: applications,
		configs:      configs,
		prompts:      prompts,
		llm:          llmClient,
		sync:         sync,
		validate:     validate,
	}
}

// Create snapshots the configuration's prompts, pinning unversioned ones to
// their current latest version.
func (u *interviewUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.CreateInterviewInput) (*domain.Interview, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if _, err := u.applications.GetStep(ctx, input.JobApplicationStepID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job application step not found")
		}
		return nil, err
	}
	cfg, err := u.configs.Get(ctx, input.InterviewConfigurationName, input.InterviewConfigurationVersion)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	iv := &domain.Interview{
		ID:                            uuid.New(),
		JobApplicationStepID:          input.JobApplicationStepID,
		InterviewConfigurationName:    cfg.Name,
		InterviewConfigurationVersion: cfg.Version,
		ConversationID:                normalizeOptional(input.ConversationID),
		StartedAt:                     &now,
		TenantID:                      tenantID,
		GdprSyncFields:                domain.DefaultGdprFields(),
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}

	refs := []struct {
		name    string
		version *int
		outName **string
		outVer  **int
	}{
		{cfg.InstructionPromptName, cfg.InstructionPromptVersion, &iv.InstructionPromptName, &iv.InstructionPromptVersion},
		{cfg.PersonalityPromptName, cfg.PersonalityPromptVersion, &iv.PersonalityPromptName, &iv.PersonalityPromptVersion},
		{cfg.QuestionsPromptName, cfg.QuestionsPromptVersion, &iv.QuestionsPromptName, &iv.QuestionsPromptVersion},
	}
	for _, ref := range refs {
		p, err := u.prompts.Resolve(ctx, ref.name, ref.version)
		if err != nil {
			return nil, err
		}
		name, version := p.Name, p.Version
		*ref.outName = &name
		*ref.outVer = &version
	}

	if err := u.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}
	notify(ctx, u.sync, domain.EntityInterview, iv.ID.String(), domain.TableInterviews, false)
	return iv, nil
}

func (u *interviewUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	iv, err := u.interviews.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Interview not found")
	}
	return iv, err
}

func (u *interviewUsecase) ListByApplicationStep(ctx context.Context, stepID uuid.UUID) ([]domain.Interview, error) {
	return u.interviews.ListByApplicationStep(ctx, stepID)
}

func (u *interviewUsecase) Complete(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	iv, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if iv.CompletedAt != nil {
		return iv, nil
	}

	completed := time.Now()
	duration := 0
	if iv.StartedAt != nil {
		duration = int(completed.Sub(*iv.StartedAt).Seconds())
	}
	if err := u.interviews.Complete(ctx, id, completed, duration); err != nil {
		return nil, err
	}
	iv.CompletedAt = &completed
	iv.Duration = &duration
	notify(ctx, u.sync, domain.EntityInterview, iv.ID.String(), domain.TableInterviews, false)
	return iv, nil
}

// RenderTranscript formats the conversation the way the scoring prompt expects.
func RenderTranscript(entries []domain.TranscriptEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		label := "**Candidate**"
		if e.Role == "agent" {
			label = "**Interviewer**"
		}
		lines = append(lines, fmt.Sprintf("%s: %s [time_in_call_secs=%d]", label, e.Message, e.TimeInCallSecs))
	}
	return strings.Join(lines, "\n")
}

// BuildScoringPrompt fills the placeholders of the scoring prompt template.
func BuildScoringPrompt(template string, entries []domain.TranscriptEntry, c ScoringCriteria) string {
	r := strings.NewReplacer(
		"{transcript_conversation}", RenderTranscript(entries),
		"{technical_weight}", strconv.Itoa(c.Technical),
		"{communication_weight}", strconv.Itoa(c.Communication),
		"{problem_solving_weight}", strconv.Itoa(c.ProblemSolving),
		"{english_weight}", strconv.Itoa(c.English),
	)
	return r.Replace(template)
}

func (u *interviewUsecase) ScoreTranscript(ctx context.Context, input *domain.ScoreTranscriptInput) (*domain.Scoring, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	if u.llm == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Interview scoring is not configured", nil)
	}

	iv, err := u.interviews.GetByConversationID(ctx, input.ConversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No interview found for conversation " + input.ConversationID)
		}
		return nil, err
	}

	tpl, err := u.prompts.Resolve(ctx, domain.TranscriptScoringPromptName, nil)
	if err != nil {
		return nil, fmt.Errorf("resolve scoring prompt: %w", err)
	}
	prompt := BuildScoringPrompt(tpl.Content, input.Transcript, DefaultScoringCriteria)

	raw, score, err := u.score(ctx, prompt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scoring := &domain.Scoring{
		ID:             uuid.New(),
		InterviewID:    iv.ID,
		Technical:      *score.Technical,
		Communication:  *score.Communication,
		ProblemSolving: *score.ProblemSolving,
		English:        *score.English,
		Details:        &raw,
		GdprSyncFields: domain.DefaultGdprFields(),
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	scoring.Average = AverageScore(scoring.Technical, scoring.Communication, scoring.ProblemSolving, scoring.English)

	if err := u.scorings.Upsert(ctx, scoring); err != nil {
		return nil, err
	}
	notify(ctx, u.sync, domain.EntityFeedback, scoring.ID.String(), domain.TableScorings, false)
	return scoring, nil
}

func (u *interviewUsecase) score(ctx context.Context, prompt string) (string, *interviewScore, error) {
	var lastErr error
	for attempt := 1; attempt <= scoringAttempts; attempt++ {
		raw, err := u.llm.GenerateJSON(ctx, scoringInstructions, prompt)
		if err == nil {
			var s interviewScore
			if err = json.Unmarshal([]byte(raw), &s); err == nil {
				if s.Technical != nil && s.Communication != nil && s.ProblemSolving != nil && s.English != nil {
					return raw, &s, nil
				}
				err = errors.New("scoring response is missing fields")
			}
		}
		lastErr = err
		logger.Log.Warn("Interview scoring attempt failed", "attempt", attempt, "error", err)
	}
	return "", nil, fmt.Errorf("score transcript: %w", lastErr)
}

// AverageScore is the mean rounded to two decimals.
func AverageScore(scores ...float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return math.Round(sum/float64(len(scores))*100) / 100
}

func (u *interviewUsecase) GetScore(ctx context.Context, interviewID uuid.UUID) (*domain.Scoring, error) {
	s, err := u.scorings.GetByInterviewID(ctx, interviewID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Scoring not found")
	}
	return s, err
}
