package generator

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// Chunk splits document text into overlapping chunks for generation.
func Chunk(text string) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(ChunkSize),
		textsplitter.WithChunkOverlap(ChunkOverlap),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	return lo.Filter(chunks, func(c string, _ int) bool { return strings.TrimSpace(c) != "" }), nil
}

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"between": {}, "both": {}, "does": {}, "each": {}, "from": {}, "have": {}, "into": {},
	"more": {}, "most": {}, "much": {}, "other": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "very": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {}, "would": {}, "your": {},
	"explain": {}, "describe": {}, "detail": {}, "detailed": {},
}

// keywords returns the distinct lower-cased content words of s, in order of appearance.
func keywords(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	words = lo.Filter(words, func(w string, _ int) bool {
		if len(w) < 4 {
			return false
		}
		_, stop := stopWords[w]
		return !stop
	})
	return lo.Uniq(words)
}

// sentences splits text at '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var out []string
	runes := []rune(strings.Join(strings.Fields(text), " "))
	start := 0
	for i, r := range runes {
		end := i == len(runes)-1
		if !end && !(strings.ContainsRune(".!?", r) && runes[i+1] == ' ') {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	return out
}

// documentSentences returns the distinct sentences of all chunks in order. Chunks
// overlap, so sentences repeated across chunk borders are kept once.
func documentSentences(chunks []string) []string {
	return lo.Uniq(lo.FlatMap(chunks, func(c string, _ int) []string { return sentences(c) }))
}

// rankChunks orders chunks by how many of the question's keywords they contain and
// returns at most limit of them. Ties keep document order.
func rankChunks(chunks []string, question string, limit int) []string {
	terms := keywords(question)
	type scored struct {
		idx   int
		score int
	}
	ranked := lo.Map(chunks, func(c string, i int) scored {
		lower := strings.ToLower(c)
		return scored{idx: i, score: lo.CountBy(terms, func(t string) bool { return strings.Contains(lower, t) })}
	})
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return lo.Map(ranked, func(s scored, _ int) string { return chunks[s.idx] })
}
