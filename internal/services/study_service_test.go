package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studysphere/study-service/internal/llm"
	"github.com/studysphere/study-service/internal/utils"
)

func TestStudyService_Summarize(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDevelopmentLogger()

	t.Run("returns trimmed model output", func(t *testing.T) {
		svc := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			assert.True(t, strings.Contains(prompt, "some study text"))
			return "  A short summary.  ", nil
		}), logger)

		summary, err := svc.Summarize(ctx, "some study text")
		require.NoError(t, err)
		assert.Equal(t, "A short summary.", summary)
	})

	t.Run("model failure degrades to sentinel", func(t *testing.T) {
		svc := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		}), logger)

		summary, err := svc.Summarize(ctx, "text")
		require.NoError(t, err, "sentinel policy must not surface the failure")
		assert.Equal(t, "Failed to generate summary.", summary)
	})

	t.Run("empty model output degrades to sentinel", func(t *testing.T) {
		svc := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "   ", nil
		}), logger)

		summary, err := svc.Summarize(ctx, "text")
		require.NoError(t, err)
		assert.Equal(t, "No summary generated.", summary)
	})
}

func TestStudyService_Answer(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDevelopmentLogger()

	t.Run("returns answer", func(t *testing.T) {
		svc := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "Go is a programming language.", nil
		}), logger)

		answer, err := svc.Answer(ctx, "What is Go?")
		require.NoError(t, err)
		assert.Equal(t, "Go is a programming language.", answer)
	})

	t.Run("sentinels", func(t *testing.T) {
		failing := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("boom")
		}), logger)
		answer, err := failing.Answer(ctx, "What is Go?")
		require.NoError(t, err)
		assert.Equal(t, "Failed to generate answer.", answer)

		empty := NewStudyService(llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", nil
		}), logger)
		answer, err = empty.Answer(ctx, "What is Go?")
		require.NoError(t, err)
		assert.Equal(t, "No answer generated.", answer)
	})
}
