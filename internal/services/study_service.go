package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/studysphere/study-service/internal/llm"
	"github.com/studysphere/study-service/internal/utils"
)

const (
	summaryPrompt = "Summarize the following text in a clear and understandable way (max 150 words):\n\n%s"
	answerPrompt  = "Provide a clear and accurate answer to the following study-related question (max 200 words):\n\n%s"

	summaryFailedSentinel = "Failed to generate summary."
	summaryEmptySentinel  = "No summary generated."
	answerFailedSentinel  = "Failed to generate answer."
	answerEmptySentinel   = "No answer generated."
)

// StudyService produces summaries and answers through the language model.
// It runs under llm.FailSentinel: a model failure degrades to a fixed
// sentinel string with HTTP success instead of failing the request, so
// automated callers cannot tell a failure from a real response. That is the
// documented trade-off, in contrast to quiz generation which aborts.
type StudyService interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, question string) (string, error)
}

type studyService struct {
	generator llm.Generator
	policy    llm.FailurePolicy
	logger    utils.Logger
}

func NewStudyService(generator llm.Generator, logger utils.Logger) StudyService {
	return &studyService{
		generator: generator,
		policy:    llm.FailSentinel,
		logger:    logger,
	}
}

func (s *studyService) Summarize(ctx context.Context, text string) (string, error) {
	return s.generate(ctx, fmt.Sprintf(summaryPrompt, text), summaryFailedSentinel, summaryEmptySentinel)
}

func (s *studyService) Answer(ctx context.Context, question string) (string, error) {
	return s.generate(ctx, fmt.Sprintf(answerPrompt, question), answerFailedSentinel, answerEmptySentinel)
}

func (s *studyService) generate(ctx context.Context, prompt, failedSentinel, emptySentinel string) (string, error) {
	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if s.policy == llm.FailAbort {
			return "", fmt.Errorf("language model call failed: %w", err)
		}
		s.logger.ErrorContext(ctx, "language model call failed", "error", err)
		return failedSentinel, nil
	}

	response = strings.TrimSpace(response)
	if response == "" {
		s.logger.WarnContext(ctx, "language model returned empty response")
		return emptySentinel, nil
	}
	return response, nil
}
