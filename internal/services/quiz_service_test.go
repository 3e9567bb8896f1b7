package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studysphere/study-service/internal/events"
	"github.com/studysphere/study-service/internal/llm"
	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
	"github.com/studysphere/study-service/internal/repositories/memory"
	"github.com/studysphere/study-service/internal/utils"
)

const testContext = "Photosynthesis converts sunlight into glucose. Plants absorb water through roots. Chlorophyll gives leaves their green color."

// wellFormedResponse fabricates the fenced JSON shape the prompt requests.
func wellFormedResponse(n int) string {
	payload := map[string]interface{}{
		"question":       fmt.Sprintf("Question %d?", n),
		"correct_answer": fmt.Sprintf("Correct answer %d.", n),
		"distractors": []string{
			fmt.Sprintf("Distractor %d-a.", n),
			fmt.Sprintf("Distractor %d-b.", n),
			fmt.Sprintf("Distractor %d-c.", n),
		},
		"explanation": fmt.Sprintf("Explanation %d.", n),
	}
	body, _ := json.Marshal(payload)
	return "```json\n" + string(body) + "\n```"
}

func newTestQuizService(t *testing.T, generator llm.Generator, seed int64) (QuizService, *memory.SessionRepository, *events.MockPublisher) {
	t.Helper()
	sessions := memory.NewSessionRepository()
	publisher := events.NewMockPublisher()
	svc, err := NewQuizService(generator, sessions, publisher, utils.NewDevelopmentLogger(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return svc, sessions, publisher
}

func sequencedGenerator(t *testing.T) llm.Generator {
	t.Helper()
	n := 0
	return llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		n++
		return wellFormedResponse(n), nil
	})
}

func TestQuizService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns five questions with four options each", func(t *testing.T) {
		svc, sessions, publisher := newTestQuizService(t, sequencedGenerator(t), 1)

		quiz, err := svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)
		require.Len(t, quiz.Questions, 5)
		assert.Equal(t, 30, quiz.TimePerQuestion)

		for i, q := range quiz.Questions {
			assert.Equal(t, i+1, q.ID)
			require.Len(t, q.Options, 4)

			occurrences := 0
			for _, opt := range q.Options {
				if opt == q.CorrectAnswer {
					occurrences++
				}
			}
			assert.Equal(t, 1, occurrences, "correct answer must appear exactly once in options")
			assert.NotEmpty(t, q.Explanation)
			assert.Contains(t, models.ValidCognitiveLevels(), q.Level)
		}

		// Session stored for scoring.
		stored, err := sessions.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, stored, 5)

		published := publisher.PublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventQuizGenerated, published[0].Type)
	})

	t.Run("shuffle varies correct answer position", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, sequencedGenerator(t), 42)

		quiz, err := svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)

		firstPositions := map[int]bool{}
		for _, q := range quiz.Questions {
			for i, opt := range q.Options {
				if opt == q.CorrectAnswer {
					firstPositions[i] = true
				}
			}
		}
		assert.Greater(t, len(firstPositions), 1,
			"correct answer landed on the same index for all five questions; shuffle is not effective")
	})

	t.Run("whitespace context has no sentences", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, sequencedGenerator(t), 1)

		_, err := svc.Generate(ctx, "alice", "   ")
		assert.ErrorIs(t, err, ErrEmptyContext)
	})

	t.Run("unparseable model output is repaired with a fallback question", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "I'm sorry, I can't produce JSON today.", nil
		}), 1)

		quiz, err := svc.Generate(ctx, "alice", "Photosynthesis is how plants make food.")
		require.NoError(t, err, "parse failure is repaired, not propagated")
		require.Len(t, quiz.Questions, 5)
		for _, q := range quiz.Questions {
			assert.Contains(t, q.Question, "main idea")
			require.Len(t, q.Options, 4)
		}
	})

	t.Run("missing field aborts the whole batch", func(t *testing.T) {
		svc, sessions, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "```json\n" + `{"question": "Q?", "correct_answer": "A.", "distractors": ["a", "b", "c"]}` + "\n```", nil
		}), 1)

		_, err := svc.Generate(ctx, "alice", testContext)
		assert.ErrorIs(t, err, ErrInvalidLLMResponse)

		_, err = sessions.Get(ctx, "alice")
		assert.ErrorIs(t, err, repositories.ErrNoQuizSession, "failed generation must not leave a session behind")
	})

	t.Run("wrong distractor count aborts the whole batch", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "```json\n" + `{"question": "Q?", "correct_answer": "A.", "distractors": ["a", "b"], "explanation": "E."}` + "\n```", nil
		}), 1)

		_, err := svc.Generate(ctx, "alice", testContext)
		assert.ErrorIs(t, err, ErrInvalidLLMResponse)
	})

	t.Run("model transport failure aborts", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("connection refused")
		}), 1)

		_, err := svc.Generate(ctx, "alice", testContext)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidLLMResponse)
	})

	t.Run("raw JSON without a fence is accepted", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return `{"question": "Q?", "correct_answer": "A.", "distractors": ["a", "b", "c"], "explanation": "E."}`, nil
		}), 1)

		quiz, err := svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)
		assert.Equal(t, "Q?", quiz.Questions[0].Question)
	})

	t.Run("new generation overwrites the previous session", func(t *testing.T) {
		n := 0
		svc, sessions, _ := newTestQuizService(t, llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			n++
			return wellFormedResponse(n), nil
		}), 1)

		_, err := svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)
		_, err = svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)

		stored, err := sessions.Get(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, stored, 5, "second generation must replace, not append")
		assert.Equal(t, "Question 6?", stored[0].Question)
	})
}

func TestQuizService_Score(t *testing.T) {
	ctx := context.Background()

	generate := func(t *testing.T) (QuizService, *QuizSet) {
		svc, _, _ := newTestQuizService(t, sequencedGenerator(t), 7)
		quiz, err := svc.Generate(ctx, "alice", testContext)
		require.NoError(t, err)
		return svc, quiz
	}

	t.Run("all correct answers", func(t *testing.T) {
		svc, quiz := generate(t)

		answers := make([]models.QuizAnswer, 0, len(quiz.Questions))
		for _, q := range quiz.Questions {
			answers = append(answers, models.QuizAnswer{QuestionID: q.ID, SelectedOption: q.CorrectAnswer})
		}

		result, err := svc.Score(ctx, "alice", answers)
		require.NoError(t, err)
		assert.Equal(t, len(answers), result.Score)
		assert.Equal(t, len(answers), result.Total)
		require.Len(t, result.Results, len(answers))
		for _, r := range result.Results {
			assert.True(t, r.IsCorrect)
		}
	})

	t.Run("wrong answers are recorded but not scored", func(t *testing.T) {
		svc, quiz := generate(t)

		q := quiz.Questions[0]
		var wrong string
		for _, opt := range q.Options {
			if opt != q.CorrectAnswer {
				wrong = opt
				break
			}
		}

		result, err := svc.Score(ctx, "alice", []models.QuizAnswer{
			{QuestionID: q.ID, SelectedOption: wrong},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 1, result.Total)
		require.Len(t, result.Results, 1)
		assert.False(t, result.Results[0].IsCorrect)
		assert.Equal(t, q.CorrectAnswer, result.Results[0].CorrectAnswer)
		assert.Equal(t, q.Explanation, result.Results[0].Explanation)
	})

	t.Run("unknown question ids are skipped silently", func(t *testing.T) {
		svc, quiz := generate(t)

		q := quiz.Questions[0]
		result, err := svc.Score(ctx, "alice", []models.QuizAnswer{
			{QuestionID: q.ID, SelectedOption: q.CorrectAnswer},
			{QuestionID: 99, SelectedOption: "anything"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.Total, "total counts every submitted answer")
		assert.Len(t, result.Results, 1, "unmatched ids produce no result entry")
	})

	t.Run("partial submission still consumes the session", func(t *testing.T) {
		svc, quiz := generate(t)

		_, err := svc.Score(ctx, "alice", []models.QuizAnswer{
			{QuestionID: quiz.Questions[0].ID, SelectedOption: quiz.Questions[0].CorrectAnswer},
		})
		require.NoError(t, err)

		_, err = svc.Score(ctx, "alice", []models.QuizAnswer{
			{QuestionID: 2, SelectedOption: "anything"},
		})
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})

	t.Run("scoring without a session", func(t *testing.T) {
		svc, _, _ := newTestQuizService(t, sequencedGenerator(t), 1)

		_, err := svc.Score(ctx, "nobody", []models.QuizAnswer{{QuestionID: 1, SelectedOption: "x"}})
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})
}

func TestExtractCandidate(t *testing.T) {
	t.Run("prefers fenced block", func(t *testing.T) {
		raw := "Here you go:\n```json\n{\"a\": 1}\n```\nanything after"
		assert.Equal(t, `{"a": 1}`, extractCandidate(raw))
	})

	t.Run("falls back to raw response", func(t *testing.T) {
		assert.Equal(t, `{"a": 1}`, extractCandidate(` {"a": 1} `))
	})
}
