package tutor

import (
	"context"
	"testing"
	"time"

	"study-buddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type studyFixture struct {
	svc        StudyService
	docs       *MockDocumentRepository
	chats      *MockChatRepository
	attempts   *MockQuizAttemptRepository
	flashcards *MockFlashcardRepository
	gen        *MockStudyGenerator
	tx         *passthroughTx
}

func newStudyFixture() *studyFixture {
	f := &studyFixture{
		docs:       new(MockDocumentRepository),
		chats:      new(MockChatRepository),
		attempts:   new(MockQuizAttemptRepository),
		flashcards: new(MockFlashcardRepository),
		gen:        new(MockStudyGenerator),
		tx:         &passthroughTx{},
	}
	f.svc = NewStudyService(StudyDeps{
		Documents:  f.docs,
		Chats:      f.chats,
		Attempts:   f.attempts,
		Flashcards: f.flashcards,
		Tx:         f.tx,
		Generator:  f.gen,
		Chunks:     NewChunkCache(time.Minute),
	})
	return f
}

var biologyDoc = &domain.StoredDocument{ID: 4, OwnerID: 1, Filename: "biology.txt", Content: "ATP is the energy currency of the cell."}

func TestStudyService_Ask(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	history := []domain.ChatMessage{{Role: domain.RoleHuman, Content: "Hi"}}

	f.docs.On("GetDocument", ctx, int64(1), int64(4)).Return(biologyDoc, nil)
	f.gen.On("Answer", ctx, []string{biologyDoc.Content}, "What is ATP?", history).Return("Energy currency.", nil).Once()
	f.chats.On("AppendMessages", ctx, int64(4), []domain.ChatMessage{
		{Role: domain.RoleHuman, Content: "What is ATP?"},
		{Role: domain.RoleAI, Content: "Energy currency."},
	}).Return(nil).Once()

	answer, err := f.svc.Ask(ctx, 1, []int64{4}, "What is ATP?", history)
	require.NoError(t, err)
	assert.Equal(t, "Energy currency.", answer)
	assert.Equal(t, 1, f.tx.calls)
	f.gen.AssertExpectations(t)
	f.chats.AssertExpectations(t)
}

func TestStudyService_Ask_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	f.docs.On("GetDocument", ctx, int64(2), int64(4)).Return(nil, nil)

	_, err := f.svc.Ask(ctx, 1, []int64{4}, "  ", nil)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = f.svc.Ask(ctx, 1, nil, "What?", nil)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = f.svc.Ask(ctx, 2, []int64{4}, "What?", nil)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err), "another user's document")
	assert.Equal(t, "Document not found.", domain.UserMessage(err))

	f.gen.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.chats.AssertNotCalled(t, "AppendMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyService_Ask_GeneratorFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	f.docs.On("GetDocument", ctx, int64(1), int64(4)).Return(biologyDoc, nil)
	f.gen.On("Answer", ctx, mock.Anything, "What is ATP?", mock.Anything).
		Return("", domain.NewLLMServiceError(assert.AnError))

	_, err := f.svc.Ask(ctx, 1, []int64{4}, "What is ATP?", nil)
	assert.Equal(t, domain.CodeLLMService, domain.CodeOf(err))
	f.chats.AssertNotCalled(t, "AppendMessages", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudyService_SubmitQuiz(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	submission := domain.QuizSubmission{DocumentID: 4, Score: 66.66666666666667}
	f.docs.On("GetDocument", ctx, int64(1), int64(4)).Return(biologyDoc, nil)
	f.attempts.On("CreateAttempt", ctx, int64(1), submission).Return(&domain.QuizAttempt{ID: 9, Score: submission.Score}, nil).Once()

	msg, err := f.svc.SubmitQuiz(ctx, 1, submission)
	require.NoError(t, err)
	assert.Equal(t, SubmitQuizMessage, msg)

	_, err = f.svc.SubmitQuiz(ctx, 1, domain.QuizSubmission{DocumentID: 4, Score: 120})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	f.attempts.AssertExpectations(t)
}

func TestStudyService_DeleteAttempts(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	f.attempts.On("DeleteAttempts", ctx, int64(1), []int64{2, 4}).Return(int64(2), nil).Once()
	f.attempts.On("DeleteAttempts", ctx, int64(1), []int64{5}).
		Return(int64(0), domain.NewForbiddenError("One or more quiz attempts not found or access denied"))

	msg, err := f.svc.DeleteAttempts(ctx, 1, []int64{2, 4})
	require.NoError(t, err)
	assert.Equal(t, "2 quiz attempts deleted successfully.", msg)

	_, err = f.svc.DeleteAttempts(ctx, 1, []int64{5})
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))

	_, err = f.svc.DeleteAttempt(ctx, 1, 5)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	assert.Equal(t, "Quiz attempt not found or access denied", domain.UserMessage(err))

	_, err = f.svc.DeleteAttempts(ctx, 1, nil)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestStudyService_DeleteAllAttempts(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	f.docs.On("GetDocument", ctx, int64(1), int64(4)).Return(biologyDoc, nil)
	f.docs.On("GetDocument", ctx, int64(2), int64(4)).Return(nil, nil)
	f.attempts.On("DeleteDocumentAttempts", ctx, int64(1), int64(4)).Return(int64(3), nil).Once()

	msg, err := f.svc.DeleteAllAttempts(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, DeleteAllAttemptsMessage, msg)

	_, err = f.svc.DeleteAllAttempts(ctx, 2, 4)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
	f.attempts.AssertExpectations(t)
}

func TestStudyService_GenerateFlashcards(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	cards := []domain.Flashcard{{Front: "ATP", Back: "Energy currency"}}
	f.docs.On("GetDocument", ctx, int64(1), int64(4)).Return(biologyDoc, nil)
	f.gen.On("Flashcards", ctx, mock.Anything, domain.DefaultFlashcardCount).Return(cards, nil)
	f.flashcards.On("CreateSet", ctx, int64(1), mock.AnythingOfType("*domain.FlashcardSet")).
		Run(func(args mock.Arguments) { args.Get(2).(*domain.FlashcardSet).ID = 12 }).
		Return(nil).Once()

	set, err := f.svc.GenerateFlashcards(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(12), set.ID)
	assert.Equal(t, "Flashcards for biology.txt", set.Title)
	assert.Equal(t, cards, set.Cards)
	f.flashcards.AssertExpectations(t)
}

func TestStudyService_FlashcardDeletes(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	f.flashcards.On("DeleteSets", ctx, int64(1), []int64{8}).
		Return(int64(0), domain.NewForbiddenError("One or more flashcard sets not found or access denied"))
	f.flashcards.On("DeleteSets", ctx, int64(1), []int64{2, 4}).Return(int64(2), nil)
	f.docs.On("GetDocument", ctx, int64(2), int64(4)).Return(nil, nil)

	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(f.svc.DeleteFlashcardSet(ctx, 1, 8)))
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(f.svc.DeleteFlashcardSets(ctx, 1, []int64{8})))
	assert.NoError(t, f.svc.DeleteFlashcardSets(ctx, 1, []int64{2, 4}))
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(f.svc.DeleteAllFlashcardSets(ctx, 2, 4)))
}

func TestStudyService_Progress(t *testing.T) {
	ctx := context.Background()
	f := newStudyFixture()
	now := time.Now()
	f.attempts.On("ListAttempts", ctx, int64(1), int64(4)).Return([]domain.QuizAttempt{
		{ID: 3, Score: 100, Timestamp: now},
		{ID: 2, Score: 40, Timestamp: now.Add(-time.Hour)},
		{ID: 1, Score: 70, Timestamp: now.Add(-2 * time.Hour)},
	}, nil)

	report, err := f.svc.Progress(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalQuizzesTaken)
	assert.InDelta(t, 70, report.AverageScore, 1e-9)
	assert.Equal(t, 100.0, report.HighestScore)
	require.Len(t, report.ScoresOverTime, 3)
	assert.Equal(t, 70.0, report.ScoresOverTime[0].Score, "oldest first")
}
