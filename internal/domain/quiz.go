package domain

import "time"

// NoAnswer is recorded for a question that had no selection when the quiz was graded.
const NoAnswer = "No answer"

// QuizQuestion is a multiple-choice question. It only lives while an attempt is in progress.
type QuizQuestion struct {
	Question      string
	Options       []string
	CorrectAnswer string
	Explanation   string
}

// Quiz is a generated question set for one document.
type Quiz struct {
	Questions []QuizQuestion
}

// AnswerRecord is the graded outcome of one question.
type AnswerRecord struct {
	QuestionText   string
	SelectedAnswer string
	CorrectAnswer  string
	IsCorrect      bool
}

// QuizAttempt is one completed, scored, persisted quiz-taking event. It is immutable once created.
type QuizAttempt struct {
	ID         int64
	DocumentID int64
	Score      float64 // percentage in [0,100]
	Timestamp  time.Time
	Answers    []AnswerRecord
}

// CorrectCount returns how many answers in the attempt were correct.
func (a QuizAttempt) CorrectCount() int {
	n := 0
	for _, ans := range a.Answers {
		if ans.IsCorrect {
			n++
		}
	}
	return n
}

// QuizSubmission is the payload persisted when a quiz is submitted.
type QuizSubmission struct {
	DocumentID int64
	Score      float64
	Answers    []AnswerRecord
}

// GradeQuiz compares every selection against the question's correct answer using exact
// text equality. A question without a selection is recorded as NoAnswer and counts as
// incorrect. The returned score is 100*correct/total and is not rounded.
func GradeQuiz(questions []QuizQuestion, selections map[int]string) ([]AnswerRecord, float64) {
	if len(questions) == 0 {
		return []AnswerRecord{}, 0
	}

	correct := 0
	records := make([]AnswerRecord, 0, len(questions))
	for i, q := range questions {
		selected, ok := selections[i]
		if !ok || selected == "" {
			selected = NoAnswer
		}
		isCorrect := selected == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		records = append(records, AnswerRecord{
			QuestionText:   q.Question,
			SelectedAnswer: selected,
			CorrectAnswer:  q.CorrectAnswer,
			IsCorrect:      isCorrect,
		})
	}

	return records, float64(correct) / float64(len(questions)) * 100
}
