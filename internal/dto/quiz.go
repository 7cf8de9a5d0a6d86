package dto

import "study-buddy/internal/domain"

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizResponse is the generated question set returned by POST /generate-quiz.
type QuizResponse struct {
	Questions []QuizQuestion `json:"questions"`
}

type AnswerRecord struct {
	ID             int64  `json:"id,omitempty"`
	QuestionText   string `json:"question_text"`
	SelectedAnswer string `json:"selected_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

type SubmitQuizRequest struct {
	DocumentID int64          `json:"document_id"`
	Score      float64        `json:"score"`
	Answers    []AnswerRecord `json:"answers"`
}

type QuizAttemptResponse struct {
	ID        int64          `json:"id"`
	Score     float64        `json:"score"`
	Timestamp Timestamp      `json:"timestamp"`
	Answers   []AnswerRecord `json:"answers"`
}

type DeleteAttemptsRequest struct {
	AttemptIDs []int64 `json:"attempt_ids"`
}

func (q QuizResponse) ToDomain() *domain.Quiz {
	quiz := &domain.Quiz{Questions: make([]domain.QuizQuestion, 0, len(q.Questions))}
	for _, qq := range q.Questions {
		quiz.Questions = append(quiz.Questions, domain.QuizQuestion{
			Question:      qq.Question,
			Options:       qq.Options,
			CorrectAnswer: qq.CorrectAnswer,
			Explanation:   qq.Explanation,
		})
	}
	return quiz
}

func NewQuizResponse(q *domain.Quiz) QuizResponse {
	resp := QuizResponse{Questions: make([]QuizQuestion, 0, len(q.Questions))}
	for _, qq := range q.Questions {
		resp.Questions = append(resp.Questions, QuizQuestion{
			Question:      qq.Question,
			Options:       qq.Options,
			CorrectAnswer: qq.CorrectAnswer,
			Explanation:   qq.Explanation,
		})
	}
	return resp
}

func answersToDomain(in []AnswerRecord) []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, 0, len(in))
	for _, a := range in {
		out = append(out, domain.AnswerRecord{
			QuestionText:   a.QuestionText,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  a.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}
	return out
}

func newAnswerRecords(in []domain.AnswerRecord) []AnswerRecord {
	out := make([]AnswerRecord, 0, len(in))
	for _, a := range in {
		out = append(out, AnswerRecord{
			QuestionText:   a.QuestionText,
			SelectedAnswer: a.SelectedAnswer,
			CorrectAnswer:  a.CorrectAnswer,
			IsCorrect:      a.IsCorrect,
		})
	}
	return out
}

func NewSubmitQuizRequest(s domain.QuizSubmission) SubmitQuizRequest {
	return SubmitQuizRequest{DocumentID: s.DocumentID, Score: s.Score, Answers: newAnswerRecords(s.Answers)}
}

func (r SubmitQuizRequest) ToDomain() domain.QuizSubmission {
	return domain.QuizSubmission{DocumentID: r.DocumentID, Score: r.Score, Answers: answersToDomain(r.Answers)}
}

// ToDomain converts the attempt. The response does not carry the document id, so the
// caller supplies the one it asked for.
func (a QuizAttemptResponse) ToDomain(documentID int64) domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:         a.ID,
		DocumentID: documentID,
		Score:      a.Score,
		Timestamp:  a.Timestamp.Time,
		Answers:    answersToDomain(a.Answers),
	}
}

func NewQuizAttemptResponse(a domain.QuizAttempt) QuizAttemptResponse {
	return QuizAttemptResponse{
		ID:        a.ID,
		Score:     a.Score,
		Timestamp: NewTimestamp(a.Timestamp),
		Answers:   newAnswerRecords(a.Answers),
	}
}
