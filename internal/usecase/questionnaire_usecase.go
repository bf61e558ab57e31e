package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/questionnaire"
	"recruiter-platform/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type questionnaireUsecase struct {
	repo     domain.QuestionnaireRepository
	validate *validator.Validate
}

func NewQuestionnaireUsecase(repo domain.QuestionnaireRepository, validate *validator.Validate) domain.QuestionnaireUsecase {
	return &questionnaireUsecase{repo: repo, validate: validate}
}

// checkTemplate enforces the question types of the template type and the
// option rules shared with the workbook import.
func checkTemplate(tpl *domain.QuestionnaireTemplate) error {
	for si := range tpl.Sections {
		for qi := range tpl.Sections[si].Questions {
			q := &tpl.Sections[si].Questions[qi]
			if !domain.IsQuestionTypeAllowed(tpl.TemplateType, q.QuestionType) {
				return apperror.BadRequest(fmt.Sprintf("Question type %s is not allowed in a %s template", q.QuestionType, tpl.TemplateType))
			}
			if questionnaire.IsChoiceType(q.QuestionType) && len(q.Options) == 0 {
				return apperror.BadRequest(fmt.Sprintf("Question %s needs at least one option", q.Name))
			}
			if err := questionnaire.NormalizeOptionNames(q.Name, q.Options); err != nil {
				return apperror.BadRequest(err.Error())
			}
		}
	}
	return nil
}

func (u *questionnaireUsecase) Create(ctx context.Context, userID string, tenantID *string, input *domain.QuestionnaireTemplateInput) (*domain.QuestionnaireTemplate, error) {
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}
	exists, err := u.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("A questionnaire template with this name already exists")
	}

	now := time.Now()
	tpl := &domain.QuestionnaireTemplate{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Version:      1,
		TemplateType: input.TemplateType,
		Title:        input.Title,
		Description:  normalizeOptional(input.Description),
		Sections:     input.Sections,
		TenantID:     tenantID,
		AuditFields: domain.AuditFields{
			CreatedAt: now, UpdatedAt: now,
			CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
		},
	}
	if tpl.Sections == nil {
		tpl.Sections = []domain.QuestionnaireSection{}
	}
	if err := checkTemplate(tpl); err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (u *questionnaireUsecase) Get(ctx context.Context, id uuid.UUID) (*domain.QuestionnaireTemplate, error) {
	tpl, err := u.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Questionnaire template not found")
	}
	return tpl, err
}

func (u *questionnaireUsecase) List(ctx context.Context, filter domain.QuestionnaireFilter) (*domain.PaginatedResult[domain.QuestionnaireTemplate], error) {
	filter.PageParams = filter.PageParams.Normalize()
	items, total, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPaginatedResult(items, total, filter.PageParams), nil
}

// Import applies a workbook all-or-nothing: any row error means nothing is
// written and the errors are returned in the result.
func (u *questionnaireUsecase) Import(ctx context.Context, userID string, tenantID *string, workbook []byte) (*domain.ImportResult, error) {
	plan, rowErrs, err := questionnaire.Parse(bytes.NewReader(workbook))
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	result := &domain.ImportResult{Templates: []domain.QuestionnaireTemplate{}, Errors: rowErrs}
	if len(rowErrs) > 0 {
		return result, nil
	}

	now := time.Now()
	created := map[string]*domain.QuestionnaireTemplate{}
	var pending []*domain.QuestionnaireTemplate
	var updated []*domain.QuestionnaireTemplate

	lookup := func(name string) (*domain.QuestionnaireTemplate, error) {
		if tpl, ok := created[name]; ok {
			return tpl, nil
		}
		tpl, err := u.repo.GetLatestByName(ctx, name)
		if err != nil {
			return nil, err
		}
		created[name] = tpl
		updated = append(updated, tpl)
		return tpl, nil
	}

	for _, ch := range plan.Changes {
		switch ch.Scope {
		case questionnaire.ScopeCreateTemplate:
			exists, err := u.repo.ExistsByName(ctx, ch.TemplateName)
			if err != nil {
				return nil, err
			}
			if _, dup := created[ch.TemplateName]; exists || dup {
				result.Errors = append(result.Errors, domain.ImportRowError{Row: ch.Row, Message: fmt.Sprintf("template %q already exists", ch.TemplateName)})
				continue
			}
			tpl := &domain.QuestionnaireTemplate{
				ID:           uuid.New(),
				Name:         ch.TemplateName,
				Version:      1,
				TemplateType: ch.TemplateType,
				Title:        ch.Title,
				Sections:     ch.Sections,
				TenantID:     tenantID,
				AuditFields: domain.AuditFields{
					CreatedAt: now, UpdatedAt: now,
					CreatedBy: userPtr(userID), UpdatedBy: userPtr(userID),
				},
			}
			created[tpl.Name] = tpl
			pending = append(pending, tpl)

		case questionnaire.ScopeAppendToTemplate, questionnaire.ScopeAppendToSection:
			tpl, err := lookup(ch.TemplateName)
			if errors.Is(err, domain.ErrNotFound) {
				result.Errors = append(result.Errors, domain.ImportRowError{Row: ch.Row, Message: fmt.Sprintf("template %q does not exist", ch.TemplateName)})
				continue
			}
			if err != nil {
				return nil, err
			}
			if msg := mergeSections(tpl, ch); msg != "" {
				result.Errors = append(result.Errors, domain.ImportRowError{Row: ch.Row, Message: msg})
			}
		}
	}

	for _, tpl := range created {
		if err := checkTemplate(tpl); err != nil {
			result.Errors = append(result.Errors, domain.ImportRowError{Row: 0, Message: fmt.Sprintf("template %q: %v", tpl.Name, err)})
		}
	}
	if len(result.Errors) > 0 {
		return result, nil
	}

	for _, tpl := range updated {
		tpl.UpdatedAt = now
		tpl.UpdatedBy = userPtr(userID)
	}
	if err := u.repo.ApplyImport(ctx, pending, updated); err != nil {
		return nil, err
	}
	for _, tpl := range pending {
		result.Templates = append(result.Templates, *tpl)
	}
	for _, tpl := range updated {
		result.Templates = append(result.Templates, *tpl)
	}
	return result, nil
}

// mergeSections folds a change into tpl and returns a message on conflict.
func mergeSections(tpl *domain.QuestionnaireTemplate, ch *questionnaire.Change) string {
	for _, incoming := range ch.Sections {
		idx := -1
		for i := range tpl.Sections {
			if strings.EqualFold(tpl.Sections[i].Title, incoming.Title) {
				idx = i
				break
			}
		}

		if ch.Scope == questionnaire.ScopeAppendToTemplate {
			if idx >= 0 {
				return fmt.Sprintf("section %q already exists in %q", incoming.Title, tpl.Name)
			}
			incoming.Order = len(tpl.Sections) + 1
			tpl.Sections = append(tpl.Sections, incoming)
			continue
		}

		if idx < 0 {
			return fmt.Sprintf("section %q does not exist in %q", incoming.Title, tpl.Name)
		}
		target := &tpl.Sections[idx]
		for _, q := range incoming.Questions {
			for _, existing := range target.Questions {
				if existing.Name == q.Name {
					return fmt.Sprintf("question %q already exists in section %q", q.Name, target.Title)
				}
			}
			q.Order = len(target.Questions) + 1
			target.Questions = append(target.Questions, q)
		}
	}
	return ""
}

func (u *questionnaireUsecase) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}
	return u.repo.SoftDelete(ctx, id, userID)
}
