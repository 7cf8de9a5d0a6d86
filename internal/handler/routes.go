package handler

import (
	"study-buddy/internal/middleware"
	"study-buddy/internal/tutor"

	"github.com/gofiber/fiber/v2"
)

// Services are the devserver services exposed over HTTP.
type Services struct {
	Auth      tutor.AuthService
	Documents tutor.DocumentService
	Study     tutor.StudyService
}

// SetupRoutes registers every devserver route on app.
func SetupRoutes(app *fiber.App, s Services) {
	auth := NewAuthHandler(s.Auth)
	docs := NewDocumentHandler(s.Documents)
	study := NewStudyHandler(s.Study)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/register/", auth.Register)
	app.Post("/token", auth.Login)
	app.Post("/forgot-password", auth.ForgotPassword)
	app.Post("/reset-password", auth.ResetPassword)

	protected := middleware.Protected(s.Auth)
	docID := middleware.ValidateIDParam(documentIDParam)

	app.Get("/documents/", protected, docs.List)
	app.Post("/documents/upload", protected, docs.Upload)
	app.Delete("/documents/:document_id", protected, docID, docs.Delete)
	app.Get("/documents/:document_id/history", protected, docID, docs.History)
	app.Delete("/documents/:document_id/chat", protected, docID, docs.ClearChat)
	app.Get("/documents/:document_id/quiz-history", protected, docID, study.QuizHistory)
	app.Delete("/documents/:document_id/quizzes", protected, docID, study.DeleteAllAttempts)
	app.Get("/documents/:document_id/progress-report", protected, docID, study.Progress)

	app.Post("/ask", protected, study.Ask)
	app.Post("/summarize", protected, study.Summarize)
	app.Post("/generate-quiz", protected, study.GenerateQuiz)
	app.Post("/submit-quiz", protected, study.SubmitQuiz)

	app.Post("/quiz-attempts/delete-multiple", protected, study.DeleteAttempts)
	app.Delete("/quiz-attempts/:attempt_id", protected, middleware.ValidateIDParam(attemptIDParam), study.DeleteAttempt)

	app.Post("/flashcards/generate", protected, study.GenerateFlashcards)
	app.Post("/flashcards/delete-multiple", protected, study.DeleteFlashcardSets)
	app.Get("/flashcards/document/:document_id", protected, docID, study.FlashcardSets)
	app.Delete("/flashcards/document/:document_id/all", protected, docID, study.DeleteAllFlashcardSets)
	app.Delete("/flashcards/set/:set_id", protected, middleware.ValidateIDParam(setIDParam), study.DeleteFlashcardSet)
}
