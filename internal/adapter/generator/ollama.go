package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"time"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const (
	maxContextChars = 12000
	answerChunks    = 4
)

// Completer is the part of a langchaingo LLM the generator uses.
type Completer interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// OllamaGenerator produces study content with a local Ollama model.
type OllamaGenerator struct {
	llm     Completer
	timeout time.Duration
}

// NewOllamaGenerator connects to the Ollama server named in cfg.
func NewOllamaGenerator(cfg config.LLMConfig) (*OllamaGenerator, error) {
	llm, err := ollama.New(ollama.WithServerURL(cfg.Server), ollama.WithModel(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewOllamaGeneratorWithClient(llm, cfg.Timeout), nil
}

func NewOllamaGeneratorWithClient(llm Completer, timeout time.Duration) *OllamaGenerator {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaGenerator{llm: llm, timeout: timeout}
}

// New returns the Ollama generator when an LLM server is configured and the
// extractive generator otherwise.
func New(cfg config.LLMConfig) (domain.StudyGenerator, error) {
	if cfg.Server == "" {
		logger.Get().Info("No LLM server configured, using extractive generator")
		return NewExtractiveGenerator(), nil
	}
	logger.Get().Info("Using Ollama generator", zap.String("server", cfg.Server), zap.String("model", cfg.Model))
	return NewOllamaGenerator(cfg)
}

const tutorPersona = `You are the AI Study Buddy, an expert tutor. Help the student understand the provided context by explaining it clearly and conversationally.
Use Markdown for all formatting. Base every explanation only on the context below. If the answer is not in the context, say so clearly.`

func (g *OllamaGenerator) Answer(ctx context.Context, chunks []string, question string, history []domain.ChatMessage) (string, error) {
	var b strings.Builder
	b.WriteString(tutorPersona)
	b.WriteString("\n\n")
	b.WriteString(detailInstruction(question))
	b.WriteString("\n\nCONTEXT:\n")
	b.WriteString(joinContext(rankChunks(chunks, question, answerChunks)))
	if len(history) > 0 {
		b.WriteString("\n\nCONVERSATION SO FAR:\n")
		for _, m := range history {
			speaker := "Student"
			if m.Role == domain.RoleAI {
				speaker = "Tutor"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, m.Content)
		}
	}
	fmt.Fprintf(&b, "\nStudent: %s\nTutor:", question)

	resp, err := g.call(ctx, b.String(), 0.3)
	if err != nil {
		return "", err
	}
	return stripThink(resp), nil
}

func (g *OllamaGenerator) Summarize(ctx context.Context, chunks []string) (string, error) {
	if len(chunks) == 0 {
		return "", domain.NewNotFoundError("No content to summarize.")
	}
	prompt := fmt.Sprintf(`Summarize the following content clearly and concisely for someone who wants to quickly understand the main points.
Write a 3-paragraph summary that captures the key ideas. Simplify technical content a little for readability.

TEXT:
%s

SUMMARY:`, joinContext(chunks))

	resp, err := g.call(ctx, prompt, 0.3)
	if err != nil {
		return "", err
	}
	return stripThink(resp), nil
}

func (g *OllamaGenerator) Quiz(ctx context.Context, chunks []string, n int) (*domain.Quiz, error) {
	if len(chunks) == 0 {
		return nil, domain.NewNotFoundError("No content to create quiz from.")
	}
	prompt := fmt.Sprintf(`Create a %d-question multiple-choice quiz from the source text. Respond with ONLY a JSON object in the following format:
{
    "questions": [
        {"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": "...", "explanation": "..."}
    ]
}

Rules:
1. Use only the source text. Do not invent facts.
2. Each question has exactly one correct answer supported by the text.
3. correct_answer must exactly match one of the options.

SOURCE TEXT:
%s`, n, joinContext(chunks))

	var parsed struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer string   `json:"correct_answer"`
			Explanation   string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := g.callJSON(ctx, prompt, &parsed); err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{}
	for _, q := range parsed.Questions {
		if q.Question == "" || !lo.Contains(q.Options, q.CorrectAnswer) {
			logger.Get().Warn("Dropping malformed quiz question from LLM", zap.String("question", q.Question))
			continue
		}
		quiz.Questions = append(quiz.Questions, domain.QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.NewLLMServiceError(errors.New("LLM returned no usable quiz questions"))
	}
	if len(quiz.Questions) > n {
		quiz.Questions = quiz.Questions[:n]
	}
	return quiz, nil
}

type llmFlashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

func (g *OllamaGenerator) Flashcards(ctx context.Context, chunks []string, n int) ([]domain.Flashcard, error) {
	if len(chunks) == 0 {
		return nil, domain.NewNotFoundError("No content found to create flashcards from.")
	}
	prompt := fmt.Sprintf(`Identify the most important key terms, concepts and definitions in the source text and create %d flashcards.
Respond with ONLY a JSON object in the following format:
{
    "flashcards": [{"term": "...", "definition": "..."}]
}

SOURCE TEXT:
%s`, n, joinContext(chunks))

	var parsed struct {
		Flashcards []llmFlashcard `json:"flashcards"`
	}
	if err := g.callJSON(ctx, prompt, &parsed); err != nil {
		return nil, err
	}

	cards := lo.FilterMap(parsed.Flashcards, func(c llmFlashcard, _ int) (domain.Flashcard, bool) {
		return domain.Flashcard{Front: c.Term, Back: c.Definition}, c.Term != "" && c.Definition != ""
	})
	if len(cards) == 0 {
		return nil, domain.NewLLMServiceError(errors.New("LLM returned no usable flashcards"))
	}
	if len(cards) > n {
		cards = cards[:n]
	}
	return cards, nil
}

func (g *OllamaGenerator) call(ctx context.Context, prompt string, temperature float64) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llm.Call(ctx, prompt, llms.WithTemperature(temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	l.Debug("Raw LLM response received", zap.Int("length", len(response)))
	return response, nil
}

func (g *OllamaGenerator) callJSON(ctx context.Context, prompt string, out any) error {
	raw, err := g.call(ctx, prompt, 0.1)
	if err != nil {
		return err
	}
	extracted, err := extractJSON(raw)
	if err != nil {
		logger.Get().Error("Could not find JSON object in LLM response", zap.String("response", raw))
		return domain.NewLLMServiceError(err)
	}
	if err := json.Unmarshal([]byte(extracted), out); err != nil {
		logger.Get().Error("Failed to unmarshal JSON from LLM response", zap.Error(err), zap.String("json", extracted))
		return domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal JSON from LLM: %w", err))
	}
	return nil
}

// stripThink removes a reasoning model's <think>...</think> preamble.
func stripThink(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// extractJSON returns the outermost {...} of the cleaned response.
func extractJSON(raw string) (string, error) {
	cleaned := stripThink(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in LLM response: %s", cleaned)
	}
	return cleaned[start : end+1], nil
}

func detailInstruction(question string) string {
	q := strings.ToLower(question)
	switch {
	case lo.SomeBy([]string{"in detail", "detailed", "elaborate"}, func(k string) bool { return strings.Contains(q, k) }):
		return "Give a long, detailed explanation."
	case lo.SomeBy([]string{"in depth", "explain", "describe"}, func(k string) bool { return strings.Contains(q, k) }):
		return "Provide a thorough, multi-paragraph explanation."
	default:
		return "Keep the answer concise."
	}
}

// joinContext concatenates chunks up to maxContextChars.
func joinContext(chunks []string) string {
	var b strings.Builder
	for _, c := range chunks {
		if b.Len()+len(c) > maxContextChars && b.Len() > 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c)
	}
	return b.String()
}
