package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"recruiter-platform/internal/domain"
	"recruiter-platform/internal/usecase"
	"recruiter-platform/pkg/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterviews struct {
	domain.InterviewRepository
	byConversation map[string]*domain.Interview
}

func (f *fakeInterviews) GetByConversationID(_ context.Context, id string) (*domain.Interview, error) {
	if iv, ok := f.byConversation[id]; ok {
		return iv, nil
	}
	return nil, domain.ErrNotFound
}

type fakeScorings struct {
	domain.ScoringRepository
	saved []*domain.Scoring
}

func (f *fakeScorings) Upsert(_ context.Context, s *domain.Scoring) error {
	f.saved = append(f.saved, s)
	return nil
}

type fakePrompts struct {
	domain.PromptUsecase
	content string
}

func (f fakePrompts) Resolve(_ context.Context, name string, version *int) (*domain.Prompt, error) {
	if name != domain.TranscriptScoringPromptName || version != nil {
		return nil, errors.New("unexpected prompt lookup")
	}
	return &domain.Prompt{Name: name, Version: 4, Content: f.content}, nil
}

// scriptedLLM replies with the queued responses in order.
type scriptedLLM struct {
	replies []string
	prompts []string
}

func (s *scriptedLLM) GenerateJSON(_ context.Context, _ string, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", errors.New("no reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedLLM) Close() error { return nil }

func transcript() []domain.TranscriptEntry {
	return []domain.TranscriptEntry{
		{Role: "agent", Message: "Tell me about Go", TimeInCallSecs: 3},
		{Role: "user", Message: "I like channels", TimeInCallSecs: 9},
	}
}

func TestRenderTranscript(t *testing.T) {
	assert.Equal(t,
		"**Interviewer**: Tell me about Go [time_in_call_secs=3]\n**Candidate**: I like channels [time_in_call_secs=9]",
		usecase.RenderTranscript(transcript()))
}

func TestBuildScoringPrompt(t *testing.T) {
	tpl := "T={technical_weight} C={communication_weight} P={problem_solving_weight} E={english_weight}\n{transcript_conversation}"
	got := usecase.BuildScoringPrompt(tpl, transcript()[:1], usecase.DefaultScoringCriteria)
	assert.Equal(t, "T=35 C=25 P=25 E=15\n**Interviewer**: Tell me about Go [time_in_call_secs=3]", got)
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 7.33, usecase.AverageScore(7, 7, 8))
	assert.Equal(t, 8.25, usecase.AverageScore(8, 9, 7, 9))
	assert.Equal(t, 0.0, usecase.AverageScore())
}

func TestScoreTranscript(t *testing.T) {
	ctx := context.Background()
	conv := "conv-1"
	iv := &domain.Interview{ID: uuid.New(), ConversationID: &conv}
	newUsecase := func(model *scriptedLLM, scorings *fakeScorings) domain.InterviewUsecase {
		return usecase.NewInterviewUsecase(
			&fakeInterviews{byConversation: map[string]*domain.Interview{conv: iv}},
			scorings, nil, nil,
			fakePrompts{content: "Score this: {transcript_conversation}"},
			model, &recordingNotifier{}, validation.New(),
		)
	}

	t.Run("retries once after a malformed reply", func(t *testing.T) {
		model := &scriptedLLM{replies: []string{
			`{"Technical": 8}`,
			`{"Technical": 8, "Communication": 7, "ProblemSolving": 9, "English": 6}`,
		}}
		scorings := &fakeScorings{}
		uc := newUsecase(model, scorings)

		s, err := uc.ScoreTranscript(ctx, &domain.ScoreTranscriptInput{ConversationID: conv, Transcript: transcript()})
		require.NoError(t, err)
		assert.Len(t, model.prompts, 2)
		assert.Contains(t, model.prompts[0], "**Candidate**: I like channels")
		assert.Equal(t, iv.ID, s.InterviewID)
		assert.Equal(t, 7.5, s.Average)
		require.Len(t, scorings.saved, 1)
	})

	t.Run("gives up after two attempts", func(t *testing.T) {
		model := &scriptedLLM{replies: []string{"not json", "still not json"}}
		scorings := &fakeScorings{}
		uc := newUsecase(model, scorings)

		_, err := uc.ScoreTranscript(ctx, &domain.ScoreTranscriptInput{ConversationID: conv, Transcript: transcript()})
		assert.Error(t, err)
		assert.Empty(t, scorings.saved)
	})

	t.Run("unknown conversation is 404", func(t *testing.T) {
		uc := newUsecase(&scriptedLLM{}, &fakeScorings{})
		_, err := uc.ScoreTranscript(ctx, &domain.ScoreTranscriptInput{ConversationID: "nope", Transcript: transcript()})
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})

	t.Run("no model configured is 503", func(t *testing.T) {
		uc := usecase.NewInterviewUsecase(&fakeInterviews{}, &fakeScorings{}, nil, nil, fakePrompts{}, nil, nil, validation.New())
		_, err := uc.ScoreTranscript(ctx, &domain.ScoreTranscriptInput{ConversationID: conv, Transcript: transcript()})
		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
	})
}
