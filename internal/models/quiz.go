package models

type CognitiveLevel string

const (
	LevelRemember   CognitiveLevel = "Remember"
	LevelUnderstand CognitiveLevel = "Understand"
	LevelApply      CognitiveLevel = "Apply"
	LevelAnalyze    CognitiveLevel = "Analyze"
	LevelEvaluate   CognitiveLevel = "Evaluate"
)

func ValidCognitiveLevels() []CognitiveLevel {
	return []CognitiveLevel{
		LevelRemember,
		LevelUnderstand,
		LevelApply,
		LevelAnalyze,
		LevelEvaluate,
	}
}

// QuizQuestion is one generated multiple-choice question. Options holds the
// correct answer and three distractors in shuffled order; the correct answer
// is also exposed verbatim so the client can run the quiz without a second
// round-trip per question.
type QuizQuestion struct {
	ID            int            `json:"id"`
	Question      string         `json:"question"`
	Level         CognitiveLevel `json:"level"`
	Options       []string       `json:"options"`
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation"`
}

// QuizAnswer is a single submitted answer, matched against the stored
// session question by ID.
type QuizAnswer struct {
	QuestionID     int    `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// QuizAnswerResult records the outcome of scoring one submitted answer.
type QuizAnswerResult struct {
	QuestionID     int    `json:"question_id"`
	SelectedOption string `json:"selected_option"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	Explanation    string `json:"explanation"`
}

// QuizResult is the response of a scoring call. Total counts every submitted
// answer, including ones whose question ID matched nothing; Results only
// contains the matched ones.
type QuizResult struct {
	Score   int                `json:"score"`
	Total   int                `json:"total"`
	Results []QuizAnswerResult `json:"results"`
}
