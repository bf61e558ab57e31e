package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/questionnaire"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memQuestionnaires struct {
	domain.QuestionnaireRepository
	byName   map[string]*domain.QuestionnaireTemplate
	created  []string
	replaced []string
	// failOn makes ApplyImport fail when it reaches this template name.
	failOn string
}

func newMemQuestionnaires(existing ...*domain.QuestionnaireTemplate) *memQuestionnaires {
	m := &memQuestionnaires{byName: map[string]*domain.QuestionnaireTemplate{}}
	for _, tpl := range existing {
		m.byName[tpl.Name] = tpl
	}
	return m
}

func (m *memQuestionnaires) ExistsByName(_ context.Context, name string) (bool, error) {
	_, ok := m.byName[name]
	return ok, nil
}

func (m *memQuestionnaires) GetLatestByName(_ context.Context, name string) (*domain.QuestionnaireTemplate, error) {
	tpl, ok := m.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *tpl
	cp.Sections = append([]domain.QuestionnaireSection(nil), tpl.Sections...)
	return &cp, nil
}

func (m *memQuestionnaires) Create(_ context.Context, tpl *domain.QuestionnaireTemplate) error {
	m.created = append(m.created, tpl.Name)
	m.byName[tpl.Name] = tpl
	return nil
}

// ApplyImport stages every write and commits only if all of them succeed.
func (m *memQuestionnaires) ApplyImport(_ context.Context, created, updated []*domain.QuestionnaireTemplate) error {
	for _, tpl := range append(append([]*domain.QuestionnaireTemplate{}, created...), updated...) {
		if tpl.Name == m.failOn {
			return errors.New("db down")
		}
	}
	for _, tpl := range created {
		m.created = append(m.created, tpl.Name)
		m.byName[tpl.Name] = tpl
	}
	for _, tpl := range updated {
		m.replaced = append(m.replaced, tpl.Name)
		m.byName[tpl.Name] = tpl
	}
	return nil
}

func importWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", questionnaire.SheetName))
	header := make([]any, len(questionnaire.Columns))
	for i, c := range questionnaire.Columns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(questionnaire.SheetName, "A1", &[]any{"Import"}))
	require.NoError(t, f.SetSheetRow(questionnaire.SheetName, "A2", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(questionnaire.SheetName, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func existingForm() *domain.QuestionnaireTemplate {
	return &domain.QuestionnaireTemplate{
		ID:           uuid.New(),
		Name:         "onboarding",
		Version:      1,
		TemplateType: domain.TemplateTypeForm,
		Title:        "Onboarding",
		Sections: []domain.QuestionnaireSection{
			{Title: "Basics", Order: 1, Questions: []domain.QuestionnaireQuestion{
				{Name: "city", Text: "City", QuestionType: domain.QuestionTypeText, Order: 1},
			}},
		},
	}
}

func TestQuestionnaireImport(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and appends in one pass", func(t *testing.T) {
		repo := newMemQuestionnaires(existingForm())
		uc := usecase.NewQuestionnaireUsecase(repo, validation.New())

		data := importWorkbook(t, [][]any{
			{"CreateTemplate", "big-five", "Personality", "Big Five", "Openness", "o1", "I enjoy new ideas", "Likert", "yes", "Agree", "", "", 5},
			{"AppendToSection", "onboarding", "", "", "basics", "shoe", "Shoe size", "Dropdown", "no", "42"},
			{"AppendToTemplate", "onboarding", "", "", "Extras", "notes", "Anything else?", "Textarea", "no"},
		})
		result, err := uc.Import(ctx, "user-1", nil, data)
		require.NoError(t, err)
		require.Empty(t, result.Errors)
		assert.Equal(t, []string{"big-five"}, repo.created)
		assert.Equal(t, []string{"onboarding"}, repo.replaced)

		form := repo.byName["onboarding"]
		require.Len(t, form.Sections, 2)
		require.Len(t, form.Sections[0].Questions, 2)
		assert.Equal(t, "shoe", form.Sections[0].Questions[1].Name)
		assert.Equal(t, 2, form.Sections[0].Questions[1].Order)
		assert.Equal(t, "shoe_42", form.Sections[0].Questions[1].Options[0].Name)
		assert.Equal(t, "Extras", form.Sections[1].Title)
		assert.Equal(t, 2, form.Sections[1].Order)
	})

	t.Run("persists nothing when any row fails", func(t *testing.T) {
		repo := newMemQuestionnaires(existingForm())
		uc := usecase.NewQuestionnaireUsecase(repo, validation.New())

		data := importWorkbook(t, [][]any{
			{"CreateTemplate", "big-five", "Personality", "Big Five", "Openness", "o1", "I enjoy new ideas", "Likert", "yes", "Agree"},
			{"AppendToSection", "missing", "", "", "Basics", "q", "Question", "Text", "no"},
			{"AppendToSection", "onboarding", "", "", "Nope", "q", "Question", "Text", "no"},
		})
		result, err := uc.Import(ctx, "user-1", nil, data)
		require.NoError(t, err)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, 4, result.Errors[0].Row)
		assert.Equal(t, 5, result.Errors[1].Row)
		assert.Empty(t, repo.created)
		assert.Empty(t, repo.replaced)
	})

	t.Run("rolls back created templates when a later write fails", func(t *testing.T) {
		repo := newMemQuestionnaires(existingForm())
		repo.failOn = "onboarding"
		uc := usecase.NewQuestionnaireUsecase(repo, validation.New())

		data := importWorkbook(t, [][]any{
			{"CreateTemplate", "big-five", "Personality", "Big Five", "Openness", "o1", "I enjoy new ideas", "Likert", "yes", "Agree", "", "", 5},
			{"AppendToTemplate", "onboarding", "", "", "Extras", "notes", "Anything else?", "Textarea", "no"},
		})
		result, err := uc.Import(ctx, "user-1", nil, data)
		require.EqualError(t, err, "db down")
		assert.Nil(t, result)
		assert.Empty(t, repo.created)
		assert.Empty(t, repo.replaced)
		assert.NotContains(t, repo.byName, "big-five")
		assert.Len(t, repo.byName["onboarding"].Sections, 1)
	})

	t.Run("an unreadable workbook is a bad request", func(t *testing.T) {
		uc := usecase.NewQuestionnaireUsecase(newMemQuestionnaires(), validation.New())
		_, err := uc.Import(ctx, "user-1", nil, []byte("not a workbook"))
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})
}

func TestQuestionnaireCreateEnforcesTypeRules(t *testing.T) {
	uc := usecase.NewQuestionnaireUsecase(newMemQuestionnaires(), validation.New())
	_, err := uc.Create(context.Background(), "user-1", nil, &domain.QuestionnaireTemplateInput{
		Name:         "quiz",
		TemplateType: domain.TemplateTypeQuiz,
		Title:        "Quiz",
		Sections: []domain.QuestionnaireSection{{
			Title:     "Only",
			Questions: []domain.QuestionnaireQuestion{{Name: "q", Text: "Why?", QuestionType: domain.QuestionTypeText}},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
}
