package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"github.com/studysphere/study-service/internal/events"
	"github.com/studysphere/study-service/internal/llm"
	"github.com/studysphere/study-service/internal/models"
	"github.com/studysphere/study-service/internal/repositories"
	"github.com/studysphere/study-service/internal/utils"
)

const (
	questionCount   = 5
	distractorCount = 3
	// Advisory only; the server does not enforce it.
	timePerQuestion = 30
)

// bloomLevel pairs a Bloom taxonomy level with the verb phrase questions at
// that level should be framed with.
type bloomLevel struct {
	Level   models.CognitiveLevel
	Framing string
}

var cognitiveLevels = []bloomLevel{
	{models.LevelRemember, "What is"},
	{models.LevelUnderstand, "Explain"},
	{models.LevelApply, "How would you apply"},
	{models.LevelAnalyze, "Compare and contrast"},
	{models.LevelEvaluate, "Assess the importance of"},
}

const questionPromptTemplate = `Generate a %s-level multiple-choice question based on this context: %s.
Pay particular attention to this sentence: %s
Frame the question in the style "%s ...".
Return a valid JSON object with:
- question: string (1-2 sentences)
- correct_answer: string (1 sentence)
- distractors: array of 3 strings (1 sentence each)
- explanation: string (1-2 sentences)
Example:
{
  "question": "What is photosynthesis?",
  "correct_answer": "It is the process by which plants make food using sunlight.",
  "distractors": ["It is the process of plant respiration.", "It is the process of seed germination.", "It is the process of root growth."],
  "explanation": "Photosynthesis uses sunlight, CO2, and water to produce glucose and oxygen."
}
Wrap the JSON in triple backticks (` + "```json\n...\n```" + `) to ensure proper formatting.`

// QuizSet is the response of a generation call. Correct answers and
// explanations are included; the server does not conceal them.
type QuizSet struct {
	Questions       []models.QuizQuestion `json:"questions"`
	TimePerQuestion int                   `json:"time_per_question"`
}

// QuizService generates quizzes from a context string and scores submitted
// answers against the stored per-user session. Each user holds at most one
// session: generation overwrites, scoring consumes.
type QuizService interface {
	Generate(ctx context.Context, userID, contextText string) (*QuizSet, error)
	Score(ctx context.Context, userID string, answers []models.QuizAnswer) (*models.QuizResult, error)
}

type quizService struct {
	generator llm.Generator
	sessions  repositories.SessionRepository
	publisher events.Publisher
	logger    utils.Logger
	tokenizer *sentences.DefaultSentenceTokenizer

	// Generation aborts the whole batch on model failure, unlike the
	// sentinel policy of StudyService.
	policy llm.FailurePolicy

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizService wires a quiz engine. rng may be nil; tests pass a seeded
// source to make sampling and shuffling reproducible.
func NewQuizService(
	generator llm.Generator,
	sessions repositories.SessionRepository,
	publisher events.Publisher,
	logger utils.Logger,
	rng *rand.Rand,
) (QuizService, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &quizService{
		generator: generator,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		tokenizer: tokenizer,
		policy:    llm.FailAbort,
		rng:       rng,
	}, nil
}

func (s *quizService) Generate(ctx context.Context, userID, contextText string) (*QuizSet, error) {
	sents := s.sentencesOf(contextText)
	if len(sents) == 0 {
		return nil, ErrEmptyContext
	}

	questions := make([]models.QuizQuestion, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		level, sentence := s.sampleSlot(sents)

		prompt := fmt.Sprintf(questionPromptTemplate, level.Level, contextText, sentence, level.Framing)
		response, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			// FailAbort: one failed slot fails all five.
			return nil, fmt.Errorf("language model call failed: %w", err)
		}

		payload, err := s.questionPayload(response, contextText)
		if err != nil {
			return nil, err
		}

		questions = append(questions, models.QuizQuestion{
			ID:            i + 1,
			Question:      payload.Question,
			Level:         level.Level,
			Options:       s.shuffledOptions(payload),
			CorrectAnswer: payload.CorrectAnswer,
			Explanation:   payload.Explanation,
		})
	}

	// Overwrites any unscored session for this user.
	if err := s.sessions.Put(ctx, userID, questions); err != nil {
		return nil, fmt.Errorf("store quiz session: %w", err)
	}

	s.logger.InfoContext(ctx, "quiz session generated",
		"user_id", userID,
		"question_count", len(questions))
	s.publishEvent(ctx, events.NewEvent(events.EventQuizGenerated, events.QuizGeneratedEvent{
		UserID:        userID,
		QuestionCount: len(questions),
	}))

	return &QuizSet{Questions: questions, TimePerQuestion: timePerQuestion}, nil
}

// Score matches submitted answers against the stored session. Answers whose
// question id matches nothing are skipped silently: they count toward Total
// but produce no result entry. The session is deleted whether or not every
// question was answered.
func (s *quizService) Score(ctx context.Context, userID string, answers []models.QuizAnswer) (*models.QuizResult, error) {
	questions, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoQuizSession) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("load quiz session: %w", err)
	}

	score := 0
	results := make([]models.QuizAnswerResult, 0, len(answers))
	for _, answer := range answers {
		question := findQuestion(questions, answer.QuestionID)
		if question == nil {
			s.logger.WarnContext(ctx, "answer for unknown question id",
				"user_id", userID,
				"question_id", answer.QuestionID)
			continue
		}

		isCorrect := answer.SelectedOption == question.CorrectAnswer
		if isCorrect {
			score++
		}
		results = append(results, models.QuizAnswerResult{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			CorrectAnswer:  question.CorrectAnswer,
			IsCorrect:      isCorrect,
			Explanation:    question.Explanation,
		})
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "quiz session delete failed", "user_id", userID, "error", err)
	}

	result := &models.QuizResult{Score: score, Total: len(answers), Results: results}
	s.logger.InfoContext(ctx, "quiz scored",
		"user_id", userID,
		"score", result.Score,
		"total", result.Total)
	s.publishEvent(ctx, events.NewEvent(events.EventQuizScored, events.QuizScoredEvent{
		UserID: userID,
		Score:  result.Score,
		Total:  result.Total,
	}))

	return result, nil
}

func (s *quizService) sentencesOf(text string) []string {
	var out []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(sentence.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// sampleSlot picks a cognitive level and a sentence uniformly at random.
// Slots are independent; repeats are expected.
func (s *quizService) sampleSlot(sents []string) (bloomLevel, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cognitiveLevels[s.rng.Intn(len(cognitiveLevels))], sents[s.rng.Intn(len(sents))]
}

func (s *quizService) shuffledOptions(payload quizPayload) []string {
	options := make([]string, 0, 1+len(payload.Distractors))
	options = append(options, payload.CorrectAnswer)
	options = append(options, payload.Distractors...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func (s *quizService) publishEvent(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "event_type", event.Type, "error", err)
	}
}

func findQuestion(questions []models.QuizQuestion, id int) *models.QuizQuestion {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	return nil
}

// ----- model output parsing -----

type quizPayload struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Distractors   []string `json:"distractors"`
	Explanation   string   `json:"explanation"`
}

var fencedJSON = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// extractCandidate prefers the body of a fenced json code block and falls
// back to the raw response.
func extractCandidate(response string) string {
	if m := fencedJSON.FindStringSubmatch(response); m != nil {
		return m[1]
	}
	return strings.TrimSpace(response)
}

// questionPayload runs the two-stage parse of a model response. The stages
// carry different severities: a response that is not JSON at all is repaired
// with a deterministic fallback question, while JSON that parses but is
// structurally wrong aborts the whole generation call.
func (s *quizService) questionPayload(response, contextText string) (quizPayload, error) {
	candidate := extractCandidate(response)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		s.logger.Warn("model response is not valid JSON, substituting fallback question",
			"error", err)
		return fallbackPayload(contextText), nil
	}

	for _, key := range []string{"question", "correct_answer", "distractors", "explanation"} {
		if _, ok := fields[key]; !ok {
			return quizPayload{}, fmt.Errorf("%w: missing field %q", ErrInvalidLLMResponse, key)
		}
	}

	var payload quizPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return quizPayload{}, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}
	if len(payload.Distractors) != distractorCount {
		return quizPayload{}, fmt.Errorf("%w: expected %d distractors, got %d",
			ErrInvalidLLMResponse, distractorCount, len(payload.Distractors))
	}
	return payload, nil
}

// fallbackPayload is the deterministic repair for unparseable model output,
// templated on the context string.
func fallbackPayload(contextText string) quizPayload {
	return quizPayload{
		Question:      fmt.Sprintf("What is the main idea of the topic '%s'?", contextText),
		CorrectAnswer: fmt.Sprintf("It is a key concept related to %s.", contextText),
		Distractors: []string{
			fmt.Sprintf("It is unrelated to %s.", contextText),
			fmt.Sprintf("It is a minor detail of %s.", contextText),
			fmt.Sprintf("It is the opposite of %s.", contextText),
		},
		Explanation: "This is a fallback question generated because the model response could not be parsed.",
	}
}
