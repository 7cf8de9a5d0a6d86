package models

import "time"

// QuizAttempt is one graded submission.
type QuizAttempt struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	DocumentID int64     `db:"document_id"`
	Score      float64   `db:"score"`
	Timestamp  time.Time `db:"timestamp"`
}

// QuizAnswer is one answered question of an attempt.
type QuizAnswer struct {
	ID             int64  `db:"id"`
	AttemptID      int64  `db:"attempt_id"`
	QuestionText   string `db:"question_text"`
	SelectedAnswer string `db:"selected_answer"`
	CorrectAnswer  string `db:"correct_answer"`
	IsCorrect      bool   `db:"is_correct"`
}

type FlashcardSet struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	DocumentID int64     `db:"document_id"`
	Title      string    `db:"title"`
	Timestamp  time.Time `db:"timestamp"`
}

type Flashcard struct {
	ID    int64  `db:"id"`
	SetID int64  `db:"set_id"`
	Front string `db:"front"`
	Back  string `db:"back"`
}
