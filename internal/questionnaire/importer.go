// Package questionnaire parses questionnaire template workbooks.
package questionnaire

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"recruiter-platform/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName    = "Import"
	firstDataRow = 3
)

const (
	ScopeCreateTemplate   = "CreateTemplate"
	ScopeAppendToTemplate = "AppendToTemplate"
	ScopeAppendToSection  = "AppendToSection"
)

// Columns of the Import sheet, in order.
var Columns = []string{
	"Scope", "TemplateName", "TemplateType", "TemplateTitle", "SectionTitle",
	"QuestionName", "QuestionText", "QuestionType", "IsRequired",
	"OptionLabel", "OptionName", "IsCorrect", "Score",
}

const (
	colScope = iota
	colTemplateName
	colTemplateType
	colTemplateTitle
	colSectionTitle
	colQuestionName
	colQuestionText
	colQuestionType
	colIsRequired
	colOptionLabel
	colOptionName
	colIsCorrect
	colScore
)

var choiceTypes = map[string]struct{}{
	domain.QuestionTypeRadio: {}, domain.QuestionTypeCheckbox: {}, domain.QuestionTypeDropdown: {},
	domain.QuestionTypeSingleChoice: {}, domain.QuestionTypeMultiChoice: {}, domain.QuestionTypeLikert: {},
}

// IsChoiceType reports whether questions of type t carry options.
func IsChoiceType(t string) bool {
	_, ok := choiceTypes[t]
	return ok
}

// Change is everything the workbook adds to one template under one scope.
type Change struct {
	Scope        string
	TemplateName string
	TemplateType string
	Title        string
	Sections     []domain.QuestionnaireSection
	Row          int
}

// Plan is the parsed workbook in first-seen order.
type Plan struct {
	Changes []*Change
}

type parser struct {
	plan    Plan
	errs    []domain.ImportRowError
	changes map[string]*Change
	// first row of each question, for errors reported after grouping
	questionRows map[string]int
}

// Parse reads the Import sheet. Row errors are collected rather than
// stopping at the first one; a non-nil error means the file is unreadable.
func Parse(r io.Reader) (*Plan, []domain.ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}

	p := &parser{
		changes:      map[string]*Change{},
		questionRows: map[string]int{},
	}
	for i := firstDataRow - 1; i < len(rows); i++ {
		p.row(i+1, rows[i])
	}
	p.finish()
	return &p.plan, p.errs, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func (p *parser) fail(row int, format string, args ...any) {
	p.errs = append(p.errs, domain.ImportRowError{Row: row, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) row(n int, row []string) {
	empty := true
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			empty = false
			break
		}
	}
	if empty {
		return
	}

	scope := cell(row, colScope)
	name := cell(row, colTemplateName)
	switch scope {
	case ScopeCreateTemplate, ScopeAppendToTemplate, ScopeAppendToSection:
	default:
		p.fail(n, "unknown scope %q", scope)
		return
	}
	if name == "" {
		p.fail(n, "TemplateName is required")
		return
	}

	key := scope + "\x00" + name
	ch, ok := p.changes[key]
	if !ok {
		ch = &Change{Scope: scope, TemplateName: name, Row: n}
		if scope == ScopeCreateTemplate {
			ch.TemplateType = cell(row, colTemplateType)
			ch.Title = cell(row, colTemplateTitle)
			switch ch.TemplateType {
			case domain.TemplateTypeQuiz, domain.TemplateTypePersonality, domain.TemplateTypeForm:
			default:
				p.fail(n, "unknown template type %q", ch.TemplateType)
				return
			}
			if ch.Title == "" {
				p.fail(n, "TemplateTitle is required when creating a template")
				return
			}
		}
		p.changes[key] = ch
		p.plan.Changes = append(p.plan.Changes, ch)
	}

	sectionTitle := cell(row, colSectionTitle)
	if sectionTitle == "" {
		p.fail(n, "SectionTitle is required")
		return
	}
	section := findSection(ch, sectionTitle)
	if section == nil {
		ch.Sections = append(ch.Sections, domain.QuestionnaireSection{Title: sectionTitle, Order: len(ch.Sections) + 1})
		section = &ch.Sections[len(ch.Sections)-1]
	}

	qName := cell(row, colQuestionName)
	if qName == "" {
		p.fail(n, "QuestionName is required")
		return
	}
	question := findQuestion(section, qName)
	if question == nil {
		qType := cell(row, colQuestionType)
		qText := cell(row, colQuestionText)
		if qText == "" {
			p.fail(n, "QuestionText is required")
			return
		}
		if ch.TemplateType != "" && !domain.IsQuestionTypeAllowed(ch.TemplateType, qType) {
			p.fail(n, "question type %q is not allowed in a %s template", qType, ch.TemplateType)
			return
		}
		if ch.TemplateType == "" && !domain.IsQuestionTypeAllowed(domain.TemplateTypeForm, qType) {
			p.fail(n, "unknown question type %q", qType)
			return
		}
		required, err := parseBool(cell(row, colIsRequired))
		if err != nil {
			p.fail(n, "IsRequired: %v", err)
			return
		}
		section.Questions = append(section.Questions, domain.QuestionnaireQuestion{
			Name:         qName,
			Text:         qText,
			QuestionType: qType,
			IsRequired:   required,
			Order:        len(section.Questions) + 1,
		})
		question = &section.Questions[len(section.Questions)-1]
		p.questionRows[questionKey(ch, section.Title, qName)] = n
	}

	label := cell(row, colOptionLabel)
	if label == "" {
		return
	}
	if !IsChoiceType(question.QuestionType) {
		p.fail(n, "question %q of type %s cannot have options", qName, question.QuestionType)
		return
	}
	correct, err := parseBool(cell(row, colIsCorrect))
	if err != nil {
		p.fail(n, "IsCorrect: %v", err)
		return
	}
	opt := domain.QuestionnaireOption{
		Label:     label,
		Name:      cell(row, colOptionName),
		IsCorrect: correct,
		Order:     len(question.Options) + 1,
	}
	if raw := cell(row, colScore); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			p.fail(n, "Score %q is not a number", raw)
			return
		}
		opt.Score = &score
	}
	question.Options = append(question.Options, opt)
}

// finish runs the per-question checks once every row is grouped.
func (p *parser) finish() {
	for _, ch := range p.plan.Changes {
		for si := range ch.Sections {
			for qi := range ch.Sections[si].Questions {
				q := &ch.Sections[si].Questions[qi]
				row, ok := p.questionRows[questionKey(ch, ch.Sections[si].Title, q.Name)]
				if !ok {
					row = ch.Row
				}
				if IsChoiceType(q.QuestionType) && len(q.Options) == 0 {
					p.fail(row, "question %q needs at least one option", q.Name)
					continue
				}
				if ch.TemplateType == domain.TemplateTypeQuiz && !hasCorrect(q.Options) {
					p.fail(row, "quiz question %q needs a correct option", q.Name)
				}
				if err := NormalizeOptionNames(q.Name, q.Options); err != nil {
					p.fail(row, "%v", err)
				}
			}
		}
	}
}

func questionKey(ch *Change, section, question string) string {
	return ch.Scope + "\x00" + ch.TemplateName + "\x00" + strings.ToLower(section) + "\x00" + question
}

func findSection(ch *Change, title string) *domain.QuestionnaireSection {
	for i := range ch.Sections {
		if strings.EqualFold(ch.Sections[i].Title, title) {
			return &ch.Sections[i]
		}
	}
	return nil
}

func findQuestion(s *domain.QuestionnaireSection, name string) *domain.QuestionnaireQuestion {
	for i := range s.Questions {
		if s.Questions[i].Name == name {
			return &s.Questions[i]
		}
	}
	return nil
}

func hasCorrect(opts []domain.QuestionnaireOption) bool {
	for _, o := range opts {
		if o.IsCorrect {
			return true
		}
	}
	return false
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}
