package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type jobApplicationUsecase struct {
	repo        domain.JobApplicationRepository
	jobPosts    domain.JobPostUsecase
	assignments domain.StepAssignmentRepository
	sync        domain.SyncNotifier
	validate    *validator.Validate
}

func NewJobApplicationUsecase(
	repo domain.JobApplicationRepository,
	jobPosts domain.JobPostUsecase,
	assignments domain.StepAssignmentRepository,
	sync domain.SyncNotifier,
	validate *validator.Validate,
) domain.JobApplicationUsecase {
	return &jobApplicationUsecase{
		repo:        repo,
		jobPosts:    jobPosts,
		assignments: assignments,
		sync:        sync,
		validate:    validate,
	}
}

func (u *jobApplicationUsecase) Apply(ctx context.Context, userID string, tenantID *string, input *domain.ApplyInput) (*domain.JobApplication, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	post, err := u.jobPosts.GetPublished(ctx, input.JobPostName, input.JobPostVersion)
	if err != nil {
		return nil, err
	}

	exists, err := u.repo.Exists(ctx, userID, post.Name, post.Version)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job post")
	}

	assignments, err := u.assignments.ListByJobPost(ctx, post.Name, post.Version)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.AuditFields{CreatedAt: now, UpdatedAt: now, CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID)}
	app := &domain.JobApplication{
		ID:             uuid.New(),
		UserID:         userID,
		JobPostName:    post.Name,
		JobPostVersion: post.Version,
		Status:         domain.ApplicationStatusApplied,
		TenantID:       tenantID,
		GdprSyncFields: domain.DefaultGdprFields(),
		AuditFields:    audit,
	}
	app.CountryExposureSetID = post.CountryExposureSetID
	for _, a := range assignments {
		app.Steps = append(app.Steps, domain.JobApplicationStep{
			ID:               uuid.New(),
			JobApplicationID: app.ID,
			StepNumber:       a.StepNumber,
			StepName:         a.StepName,
			StepVersion:      a.StepVersion,
			Status:           domain.StepStatusPending,
			GdprSyncFields:   app.GdprSyncFields,
			AuditFields:      audit,
		})
	}
	if len(app.Steps) > 0 {
		app.CurrentStep = app.Steps[0].StepNumber
	}

	err = u.repo.Create(ctx, app, post.MaxAmountOfCandidatesRestriction)
	switch {
	case errors.Is(err, domain.ErrCandidateLimitReached):
		return nil, apperror.BadRequest("This job post has reached its maximum number of candidates")
	case errors.Is(err, domain.ErrDuplicate):
		return nil, apperror.Conflict("You have already applied to this job post")
	case err != nil:
		return nil, err
	}

	changes := []domain.SyncChange{{EntityType: domain.EntityJobApplication, EntityID: app.ID.String(), Table: domain.TableJobApplications}}
	for _, s := range app.Steps {
		changes = append(changes, domain.SyncChange{EntityType: domain.EntityJobApplicationStep, EntityID: s.ID.String(), Table: domain.TableJobApplicationSteps})
	}
	notifyBatch(ctx, u.sync, changes)
	return app, nil
}

func (u *jobApplicationUsecase) ListMine(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	return u.repo.ListByUser(ctx, userID)
}

func (u *jobApplicationUsecase) ListByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]domain.JobApplication, error) {
	return u.repo.ListByJobPost(ctx, jobPostName, jobPostVersion)
}

func (u *jobApplicationUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.JobApplication, error) {
	app, err := u.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Job application not found")
	}
	if err != nil {
		return nil, err
	}

	// Candidates only see their own applications.
	role, _ := ctx.Value(domain.KeyUserRole).(string)
	ctxUserID, _ := ctx.Value(domain.KeyUserID).(string)
	if role == domain.RoleCandidate && ctxUserID != app.UserID {
		return nil, apperror.NotFound("Job application not found")
	}

	steps, err := u.repo.ListSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Steps = steps
	return app, nil
}

func (u *jobApplicationUsecase) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, input *domain.UpdateApplicationStatusInput) (*domain.JobApplication, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	app, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.UpdateStatus(ctx, id, input.Status, userID); err != nil {
		return nil, err
	}
	app.Status = input.Status
	app.UpdatedAt = time.Now()
	app.UpdatedBy = userPtr(userID)
	notify(ctx, u.sync, domain.EntityJobApplication, app.ID.String(), domain.TableJobApplications, false)
	return app, nil
}

// AdvanceStep completes the current step and moves to the next pending one.
func (u *jobApplicationUsecase) AdvanceStep(ctx context.Context, userID string, id uuid.UUID) (*domain.JobApplication, error) {
	app, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(app.Steps) == 0 {
		return nil, apperror.BadRequest("This application has no steps")
	}

	step, err := u.repo.CompleteStep(ctx, id, app.CurrentStep, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.BadRequest("No pending step to complete")
		}
		return nil, err
	}
	notify(ctx, u.sync, domain.EntityJobApplicationStep, step.ID.String(), domain.TableJobApplicationSteps, false)
	return u.Get(ctx, id)
}

var exportColumns = []string{"APPLICATION ID", "CANDIDATE", "EMAIL", "NATIONALITY", "STATUS", "CURRENT STEP", "APPLIED AT"}

// ExportByJobPost renders the applications of a post as an xlsx workbook.
func (u *jobApplicationUsecase) ExportByJobPost(ctx context.Context, jobPostName string, jobPostVersion int) ([]byte, error) {
	apps, err := u.repo.ListByJobPost(ctx, jobPostName, jobPostVersion)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, app := range apps {
		var name, email, nationality string
		if app.Candidate != nil {
			name = app.Candidate.Name
			email = app.Candidate.Email
			if app.Candidate.Nationality != nil {
				nationality = *app.Candidate.Nationality
			}
		}
		values := []any{
			app.ID.String(), name, email, nationality, app.Status, app.CurrentStep,
			app.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
