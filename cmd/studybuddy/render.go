package main

import (
	"fmt"
	"strings"
	"study-buddy/internal/domain"
	"study-buddy/internal/util"

	"github.com/fatih/color"
)

var (
	tutorColor   = color.New(color.FgCyan)
	studentColor = color.New(color.FgWhite, color.Bold)
	correctColor = color.New(color.FgGreen)
	wrongColor   = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func (s *shell) printDocuments() {
	docs := s.ws.Session.Documents()
	if len(docs) == 0 {
		fmt.Fprintln(s.out, "No documents yet. Upload one with 'upload <path>'.")
		return
	}
	active, _ := s.ws.Session.ActiveDocument()
	for _, d := range docs {
		marker := " "
		if d.ID == active.ID {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s #%-4d %s\n", marker, d.ID, d.Filename)
	}
}

func (s *shell) printMessage(m domain.ChatMessage) {
	if m.Role == domain.RoleHuman {
		studentColor.Fprint(s.out, "you: ")
	} else {
		tutorColor.Fprint(s.out, "tutor: ")
	}
	fmt.Fprintln(s.out, m.Content)
}

func (s *shell) printQuiz() {
	engine := s.ws.Quizzes.Engine()
	for i, q := range engine.Questions() {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, q.Question)
		selected, _ := engine.Selection(i)
		for j, o := range q.Options {
			marker := " "
			if o == selected {
				marker = ">"
			}
			fmt.Fprintf(s.out, "  %s %c) %s\n", marker, 'a'+j, o)
		}
	}
	dimColor.Fprintln(s.out, "Answer with 'answer <question#> <letter>', then 'submit'.")
}

func (s *shell) printAttempt(a domain.QuizAttempt) {
	fmt.Fprintf(s.out, "Attempt #%d  %s  score %s (%d/%d correct)\n",
		a.ID, a.Timestamp.Local().Format("2006-01-02 15:04"), util.FormatPercent(a.Score), a.CorrectCount(), len(a.Answers))
	for i, ans := range a.Answers {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, ans.QuestionText)
		if ans.IsCorrect {
			correctColor.Fprintf(s.out, "   ✓ %s\n", ans.SelectedAnswer)
			continue
		}
		wrongColor.Fprintf(s.out, "   ✗ %s\n", ans.SelectedAnswer)
		correctColor.Fprintf(s.out, "   correct: %s\n", ans.CorrectAnswer)
	}
}

func (s *shell) printAttempts() {
	attempts := s.ws.Quizzes.Attempts()
	if len(attempts) == 0 {
		fmt.Fprintln(s.out, "No quiz attempts yet. Start one with 'quiz'.")
		return
	}
	sel := s.ws.Quizzes.Selection()
	for _, a := range attempts {
		fmt.Fprintf(s.out, "%s #%-4d %s  %s\n", pickMarker(sel.Has(a.ID)), a.ID,
			a.Timestamp.Local().Format("2006-01-02 15:04"), util.FormatPercent(a.Score))
	}
}

func (s *shell) printSets() {
	sets := s.ws.Flashcards.Sets()
	if len(sets) == 0 {
		fmt.Fprintln(s.out, "No flashcard sets yet. Create one with 'gen-cards'.")
		return
	}
	sel := s.ws.Flashcards.Selection()
	for _, set := range sets {
		fmt.Fprintf(s.out, "%s #%-4d %s (%d cards)\n", pickMarker(sel.Has(set.ID)), set.ID, set.Title, len(set.Cards))
	}
}

func (s *shell) printCard() {
	view, ok := s.ws.Flashcards.Viewer().Current()
	if !ok {
		fmt.Fprintln(s.out, "No flashcard set is open. Use 'open <set id>'.")
		return
	}
	side, text := "front", view.Card.Front
	if view.Flipped {
		side, text = "back", view.Card.Back
	}
	dimColor.Fprintf(s.out, "card %d/%d (%s)\n", view.Index+1, view.Total, side)
	fmt.Fprintln(s.out, "  "+strings.ReplaceAll(text, "\n", "\n  "))
}

func (s *shell) printProgress() {
	report, ok := s.ws.Progress.Report()
	if !ok || !report.HasData() {
		fmt.Fprintln(s.out, "No quizzes taken for this document yet.")
		return
	}
	fmt.Fprintf(s.out, "Quizzes taken: %d\nAverage score: %s\nHighest score: %s\n",
		report.TotalQuizzesTaken, util.FormatPercent(report.AverageScore), util.FormatPercent(report.HighestScore))
	for _, p := range report.ScoresOverTime {
		fmt.Fprintf(s.out, "  %s  %s\n", p.Timestamp.Local().Format("2006-01-02 15:04"), util.FormatPercent(p.Score))
	}
}

func pickMarker(picked bool) string {
	if picked {
		return "[x]"
	}
	return "[ ]"
}
