package questionnaire_test

import (
	"bytes"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/questionnaire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", questionnaire.SheetName))

	header := make([]any, len(questionnaire.Columns))
	for i, c := range questionnaire.Columns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(questionnaire.SheetName, "A1", &[]any{"Questionnaire import"}))
	require.NoError(t, f.SetSheetRow(questionnaire.SheetName, "A2", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(questionnaire.SheetName, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "strongly_agree", questionnaire.Slug("  Strongly Agree! "))
	assert.Equal(t, "c_and_c", questionnaire.Slug("C++ and C#"))
}

func TestNormalizeOptionNames(t *testing.T) {
	opts := []domain.QuestionnaireOption{
		{Label: "Yes"},
		{Label: "Yes"},
		{Label: "Other", Name: "option_1"},
		{Label: "Custom", Name: "kept"},
	}
	require.NoError(t, questionnaire.NormalizeOptionNames("q1", opts))
	assert.Equal(t, "q1_yes", opts[0].Name)
	assert.Equal(t, "q1_yes_2", opts[1].Name)
	assert.Equal(t, "q1_option_1", opts[2].Name)
	assert.Equal(t, "kept", opts[3].Name)
}

func TestNormalizeOptionNames_TooMany(t *testing.T) {
	opts := make([]domain.QuestionnaireOption, 51)
	for i := range opts {
		opts[i] = domain.QuestionnaireOption{Label: "Same"}
	}
	err := questionnaire.NormalizeOptionNames("q", opts)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	rows := [][]any{
		{"CreateTemplate", "go-quiz", "Quiz", "Go basics", "Syntax", "q1", "Which keyword declares a constant?", "SingleChoice", "TRUE", "const", "", "TRUE", 1},
		{"CreateTemplate", "go-quiz", "Quiz", "Go basics", "Syntax", "q1", "", "", "", "var", "", "FALSE", 0},
		{},
		{"AppendToTemplate", "profile-form", "", "", "About you", "bio", "Tell us about yourself", "Textarea", "no"},
	}

	plan, rowErrs, err := questionnaire.Parse(workbook(t, rows))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, plan.Changes, 2)

	quiz := plan.Changes[0]
	assert.Equal(t, questionnaire.ScopeCreateTemplate, quiz.Scope)
	assert.Equal(t, "Quiz", quiz.TemplateType)
	require.Len(t, quiz.Sections, 1)
	require.Len(t, quiz.Sections[0].Questions, 1)
	q := quiz.Sections[0].Questions[0]
	assert.True(t, q.IsRequired)
	require.Len(t, q.Options, 2)
	assert.Equal(t, "q1_const", q.Options[0].Name)
	assert.True(t, q.Options[0].IsCorrect)
	require.NotNil(t, q.Options[0].Score)
	assert.Equal(t, 1.0, *q.Options[0].Score)

	form := plan.Changes[1]
	assert.Equal(t, questionnaire.ScopeAppendToTemplate, form.Scope)
	assert.Equal(t, 3+3, form.Row)
	assert.Empty(t, form.Sections[0].Questions[0].Options)
}

func TestParse_CollectsRowErrors(t *testing.T) {
	rows := [][]any{
		{"Replace", "x"},
		{"CreateTemplate", "p", "Personality", "Traits", "Main", "q1", "I enjoy teamwork", "Text"},
		{"CreateTemplate", "quiz", "Quiz", "Quiz", "Main", "q1", "2+2?", "SingleChoice", "", "4", "", "no"},
	}

	_, rowErrs, err := questionnaire.Parse(workbook(t, rows))
	require.NoError(t, err)
	require.Len(t, rowErrs, 3)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Message, "unknown scope")
	assert.Equal(t, 4, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Message, "not allowed")
	assert.Equal(t, 5, rowErrs[2].Row)
	assert.Contains(t, rowErrs[2].Message, "correct option")
}

func TestParse_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, _, err := questionnaire.Parse(bytes.NewReader(buf.Bytes()))
	assert.Error(t, err)
}
