package handler

import (
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/tutor"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	attemptIDParam = "attempt_id"
	setIDParam     = "set_id"
)

// StudyHandler serves questions, summaries, quizzes, flashcards and progress.
type StudyHandler struct {
	study tutor.StudyService
}

func NewStudyHandler(study tutor.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

func invalidInput(err error) error {
	logger.Get().Debug("Failed to parse request body", zap.Error(err))
	return domain.NewValidationError("Invalid input format")
}

// documentRequest parses the {document_id} body shared by the generation endpoints.
func documentRequest(c *fiber.Ctx) (int64, error) {
	var req dto.DocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, invalidInput(err)
	}
	if req.DocumentID <= 0 {
		return 0, domain.ValidationErrors{domain.NewMissingFieldError("document_id")}
	}
	return req.DocumentID, nil
}

// Ask handles POST /ask
func (h *StudyHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	answer, err := h.study.Ask(c.UserContext(), middleware.UserID(c), req.DocumentIDs, req.Question, dto.ChatToDomain(req.ChatHistory))
	if err != nil {
		return err
	}
	return c.JSON(dto.AskResponse{Answer: answer})
}

// Summarize handles POST /summarize
func (h *StudyHandler) Summarize(c *fiber.Ctx) error {
	documentID, err := documentRequest(c)
	if err != nil {
		return err
	}
	summary, err := h.study.Summarize(c.UserContext(), middleware.UserID(c), documentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.SummarizeResponse{Summary: summary})
}

// GenerateQuiz handles POST /generate-quiz
func (h *StudyHandler) GenerateQuiz(c *fiber.Ctx) error {
	documentID, err := documentRequest(c)
	if err != nil {
		return err
	}
	quiz, err := h.study.GenerateQuiz(c.UserContext(), middleware.UserID(c), documentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(quiz))
}

// SubmitQuiz handles POST /submit-quiz
func (h *StudyHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	msg, err := h.study.SubmitQuiz(c.UserContext(), middleware.UserID(c), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: msg})
}

// QuizHistory handles GET /documents/:document_id/quiz-history
func (h *StudyHandler) QuizHistory(c *fiber.Ctx) error {
	attempts, err := h.study.QuizHistory(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(attempts, func(a domain.QuizAttempt, _ int) dto.QuizAttemptResponse {
		return dto.NewQuizAttemptResponse(a)
	}))
}

// DeleteAttempt handles DELETE /quiz-attempts/:attempt_id
func (h *StudyHandler) DeleteAttempt(c *fiber.Ctx) error {
	msg, err := h.study.DeleteAttempt(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, attemptIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// DeleteAttempts handles POST /quiz-attempts/delete-multiple
func (h *StudyHandler) DeleteAttempts(c *fiber.Ctx) error {
	var req dto.DeleteAttemptsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	msg, err := h.study.DeleteAttempts(c.UserContext(), middleware.UserID(c), req.AttemptIDs)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// DeleteAllAttempts handles DELETE /documents/:document_id/quizzes
func (h *StudyHandler) DeleteAllAttempts(c *fiber.Ctx) error {
	msg, err := h.study.DeleteAllAttempts(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// GenerateFlashcards handles POST /flashcards/generate
func (h *StudyHandler) GenerateFlashcards(c *fiber.Ctx) error {
	documentID, err := documentRequest(c)
	if err != nil {
		return err
	}
	set, err := h.study.GenerateFlashcards(c.UserContext(), middleware.UserID(c), documentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFlashcardSetResponse(*set))
}

// FlashcardSets handles GET /flashcards/document/:document_id
func (h *StudyHandler) FlashcardSets(c *fiber.Ctx) error {
	sets, err := h.study.FlashcardSets(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(lo.Map(sets, func(s domain.FlashcardSet, _ int) dto.FlashcardSetResponse {
		return dto.NewFlashcardSetResponse(s)
	}))
}

// DeleteFlashcardSet handles DELETE /flashcards/set/:set_id
func (h *StudyHandler) DeleteFlashcardSet(c *fiber.Ctx) error {
	if err := h.study.DeleteFlashcardSet(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, setIDParam)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteFlashcardSets handles POST /flashcards/delete-multiple
func (h *StudyHandler) DeleteFlashcardSets(c *fiber.Ctx) error {
	var req dto.DeleteItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	if err := h.study.DeleteFlashcardSets(c.UserContext(), middleware.UserID(c), req.ItemIDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllFlashcardSets handles DELETE /flashcards/document/:document_id/all
func (h *StudyHandler) DeleteAllFlashcardSets(c *fiber.Ctx) error {
	if err := h.study.DeleteAllFlashcardSets(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Progress handles GET /documents/:document_id/progress-report
func (h *StudyHandler) Progress(c *fiber.Ctx) error {
	report, err := h.study.Progress(c.UserContext(), middleware.UserID(c), middleware.IDParam(c, documentIDParam))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProgressReportResponse(report))
}
