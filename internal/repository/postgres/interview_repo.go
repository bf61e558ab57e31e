package postgres

import (
	"context"
	"fmt"
	"time"

	"recruiter-platform/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type interviewRepo struct {
	db *pgxpool.Pool
}

func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

const interviewColumns = `id, job_application_step_id, interview_configuration_name, interview_configuration_version,
	instruction_prompt_name, instruction_prompt_version, personality_prompt_name, personality_prompt_version,
	questions_prompt_name, questions_prompt_version, conversation_id, started_at, completed_at, duration, tenant_id`

var interviewSelect = fmt.Sprintf(`SELECT %s, %s, %s FROM interviews`, interviewColumns, gdprColumns, auditColumns)

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var i domain.Interview
	err := row.Scan(fields(
		[]any{
			&i.ID, &i.JobApplicationStepID, &i.InterviewConfigurationName, &i.InterviewConfigurationVersion,
			&i.InstructionPromptName, &i.InstructionPromptVersion, &i.PersonalityPromptName, &i.PersonalityPromptVersion,
			&i.QuestionsPromptName, &i.QuestionsPromptVersion, &i.ConversationID, &i.StartedAt, &i.CompletedAt,
			&i.Duration, &i.TenantID,
		},
		gdprDest(&i.GdprSyncFields),
		auditDest(&i.AuditFields),
	)...)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *interviewRepo) Create(ctx context.Context, i *domain.Interview) error {
	query := fmt.Sprintf(`INSERT INTO interviews (%s, %s, %s) VALUES (%s)`,
		interviewColumns, gdprInsertColumns, auditColumns, placeholders(1, 25))
	_, err := r.db.Exec(ctx, query, fields(
		[]any{
			i.ID, i.JobApplicationStepID, i.InterviewConfigurationName, i.InterviewConfigurationVersion,
			i.InstructionPromptName, i.InstructionPromptVersion, i.PersonalityPromptName, i.PersonalityPromptVersion,
			i.QuestionsPromptName, i.QuestionsPromptVersion, i.ConversationID, i.StartedAt, i.CompletedAt,
			i.Duration, i.TenantID,
		},
		gdprArgs(i.GdprSyncFields),
		auditArgs(i.AuditFields),
	)...)
	return mapError(err)
}

func (r *interviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	i, err := scanInterview(r.db.QueryRow(ctx, interviewSelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return i, nil
}

func (r *interviewRepo) GetByConversationID(ctx context.Context, conversationID string) (*domain.Interview, error) {
	i, err := scanInterview(r.db.QueryRow(ctx, interviewSelect+` WHERE conversation_id = $1`, conversationID))
	if err != nil {
		return nil, mapError(err)
	}
	return i, nil
}

func (r *interviewRepo) ListByApplicationStep(ctx context.Context, stepID uuid.UUID) ([]domain.Interview, error) {
	rows, err := r.db.Query(ctx, interviewSelect+` WHERE job_application_step_id = $1 ORDER BY created_at`, stepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := []domain.Interview{}
	for rows.Next() {
		i, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *i)
	}
	return interviews, rows.Err()
}

func (r *interviewRepo) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time, duration int) error {
	tag, err := r.db.Exec(ctx, `UPDATE interviews SET completed_at = $2, duration = $3, updated_at = now()
		WHERE id = $1`, id, completedAt, duration)
	return affected(tag.RowsAffected(), err)
}

type scoringRepo struct {
	db *pgxpool.Pool
}

func NewScoringRepository(db *pgxpool.Pool) domain.ScoringRepository {
	return &scoringRepo{db: db}
}

const scoringColumns = `id, interview_id, technical, communication, problem_solving, english, average, details`

// Upsert keeps one scoring per interview; a rescore replaces the values
// and keeps the original id.
func (r *scoringRepo) Upsert(ctx context.Context, s *domain.Scoring) error {
	query := fmt.Sprintf(`INSERT INTO scorings (%s, %s, %s) VALUES (%s)
		ON CONFLICT (interview_id) DO UPDATE SET
			technical = EXCLUDED.technical, communication = EXCLUDED.communication,
			problem_solving = EXCLUDED.problem_solving, english = EXCLUDED.english,
			average = EXCLUDED.average, details = EXCLUDED.details,
			updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by
		RETURNING id, created_at, created_by`,
		scoringColumns, gdprInsertColumns, auditColumns, placeholders(1, 18))
	err := r.db.QueryRow(ctx, query, fields(
		[]any{s.ID, s.InterviewID, s.Technical, s.Communication, s.ProblemSolving, s.English, s.Average, s.Details},
		gdprArgs(s.GdprSyncFields),
		auditArgs(s.AuditFields),
	)...).Scan(&s.ID, &s.CreatedAt, &s.CreatedBy)
	return mapError(err)
}

func (r *scoringRepo) GetByInterviewID(ctx context.Context, interviewID uuid.UUID) (*domain.Scoring, error) {
	var s domain.Scoring
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s, %s, %s FROM scorings WHERE interview_id = $1`,
		scoringColumns, gdprColumns, auditColumns), interviewID).Scan(fields(
		[]any{&s.ID, &s.InterviewID, &s.Technical, &s.Communication, &s.ProblemSolving, &s.English, &s.Average, &s.Details},
		gdprDest(&s.GdprSyncFields),
		auditDest(&s.AuditFields),
	)...)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}
