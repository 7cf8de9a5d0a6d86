package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"study-buddy/internal/domain"

	"github.com/samber/lo"
)

const (
	answerSentences  = 3
	summarySentences = 6
	quizOptions      = 4
	blank            = "_____"
)

// NoAnswerFound is returned by the extractive generator when no sentence of the
// document shares a keyword with the question.
const NoAnswerFound = "I couldn't find anything about that in this document."

// ExtractiveGenerator builds answers, summaries, quizzes and flashcards from the
// document's own sentences. It is deterministic and needs no model.
type ExtractiveGenerator struct{}

func NewExtractiveGenerator() *ExtractiveGenerator {
	return &ExtractiveGenerator{}
}

// Answer returns the sentences sharing the most keywords with question, in document
// order.
func (g *ExtractiveGenerator) Answer(_ context.Context, chunks []string, question string, _ []domain.ChatMessage) (string, error) {
	terms := keywords(question)
	if len(terms) == 0 {
		return NoAnswerFound, nil
	}

	type scored struct {
		idx   int
		score int
	}
	all := documentSentences(chunks)
	var hits []scored
	for i, s := range all {
		lower := strings.ToLower(s)
		if n := lo.CountBy(terms, func(t string) bool { return strings.Contains(lower, t) }); n > 0 {
			hits = append(hits, scored{idx: i, score: n})
		}
	}
	if len(hits) == 0 {
		return NoAnswerFound, nil
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > answerSentences {
		hits = hits[:answerSentences]
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].idx < hits[b].idx })

	lines := lo.Map(hits, func(h scored, _ int) string { return "- " + all[h.idx] })
	return "Here is what the document says:\n\n" + strings.Join(lines, "\n"), nil
}

// Summarize returns the opening sentence of each chunk, up to a handful of sentences.
func (g *ExtractiveGenerator) Summarize(_ context.Context, chunks []string) (string, error) {
	var picked []string
	for _, c := range chunks {
		s := sentences(c)
		if len(s) == 0 || lo.Contains(picked, s[0]) {
			continue
		}
		picked = append(picked, s[0])
		if len(picked) == summarySentences {
			break
		}
	}
	if len(picked) == 0 {
		return "", domain.NewNotFoundError("No content to summarize.")
	}
	return strings.Join(picked, " "), nil
}

type clozeCandidate struct {
	sentence string
	answer   string
}

// Quiz turns up to n sentences into fill-in-the-blank questions. The blanked word is
// the sentence's longest keyword; distractors are keywords of other sentences.
func (g *ExtractiveGenerator) Quiz(_ context.Context, chunks []string, n int) (*domain.Quiz, error) {
	var candidates []clozeCandidate
	for _, s := range documentSentences(chunks) {
		words := lo.Filter(keywords(s), func(w string, _ int) bool { return len(w) >= 5 })
		if len(words) == 0 {
			continue
		}
		answer := lo.MaxBy(words, func(a, b string) bool { return len(a) > len(b) })
		candidates = append(candidates, clozeCandidate{sentence: s, answer: answer})
	}

	pool := lo.Uniq(lo.Map(candidates, func(c clozeCandidate, _ int) string { return c.answer }))
	quiz := &domain.Quiz{}
	for i, c := range candidates {
		if len(quiz.Questions) == n {
			break
		}
		options := distractors(pool, c.answer, i, quizOptions-1)
		if len(options) == 0 {
			continue
		}
		options = append(options, c.answer)
		sort.Strings(options)

		quiz.Questions = append(quiz.Questions, domain.QuizQuestion{
			Question:      "Fill in the blank: " + blankOut(c.sentence, c.answer),
			Options:       options,
			CorrectAnswer: c.answer,
			Explanation:   fmt.Sprintf("The document states: %q", c.sentence),
		})
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.NewNotFoundError("No content to create quiz from.")
	}
	return quiz, nil
}

// Flashcards builds up to n term/definition cards. Sentences of the form "X is Y" or
// "X: Y" give the term X; others fall back to their longest keyword.
func (g *ExtractiveGenerator) Flashcards(_ context.Context, chunks []string, n int) ([]domain.Flashcard, error) {
	var cards []domain.Flashcard
	seen := map[string]struct{}{}
	for _, s := range documentSentences(chunks) {
		if len(cards) == n {
			break
		}
		front, back, ok := definition(s)
		if !ok {
			words := keywords(s)
			if len(words) == 0 {
				continue
			}
			front = lo.MaxBy(words, func(a, b string) bool { return len(a) > len(b) })
			back = s
		}
		key := strings.ToLower(front)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cards = append(cards, domain.Flashcard{Front: front, Back: back})
	}
	if len(cards) == 0 {
		return nil, domain.NewNotFoundError("No content found to create flashcards from.")
	}
	return cards, nil
}

var definitionMarkers = []string{" is ", " are ", " refers to ", " means ", ": "}

// definition splits "term is explanation" style sentences. The term must be short.
func definition(s string) (term, explanation string, ok bool) {
	for _, m := range definitionMarkers {
		i := strings.Index(s, m)
		if i <= 0 {
			continue
		}
		term = strings.TrimSpace(s[:i])
		explanation = strings.TrimSpace(s[i+len(m):])
		if n := len(strings.Fields(term)); n == 0 || n > 6 || explanation == "" {
			continue
		}
		return term, explanation, true
	}
	return "", "", false
}

// distractors picks up to k words of pool other than answer, starting after offset so
// different questions get different choices.
func distractors(pool []string, answer string, offset, k int) []string {
	var out []string
	for i := 1; i < len(pool) && len(out) < k; i++ {
		w := pool[(offset+i)%len(pool)]
		if w != answer && !lo.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// blankOut replaces the first case-insensitive occurrence of word in s.
func blankOut(s, word string) string {
	i := strings.Index(strings.ToLower(s), word)
	if i < 0 {
		return s
	}
	return s[:i] + blank + s[i+len(word):]
}
