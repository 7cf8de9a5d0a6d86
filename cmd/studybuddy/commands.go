package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/service"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type command struct {
	usage   string
	help    string
	minArgs int
	// auth marks commands that need a logged-in session.
	auth bool
	run  func(ctx context.Context, args []string) error
}

type shell struct {
	ws       *service.Workspace
	out      io.Writer
	commands map[string]command
}

func newShell(ws *service.Workspace, out io.Writer) *shell {
	s := &shell{ws: ws, out: out}
	s.commands = map[string]command{
		"help": {usage: "help", help: "list commands", run: s.help},

		"register": {usage: "register <name> <email> <password> <confirm>", help: "create an account", minArgs: 4, run: s.register},
		"login":    {usage: "login <email> <password>", help: "log in", minArgs: 2, run: s.login},
		"logout":   {usage: "logout", help: "log out", run: s.logout},
		"forgot":   {usage: "forgot <email>", help: "request a password reset link", minArgs: 1, run: s.forgot},
		"reset":    {usage: "reset <token> <password> <confirm>", help: "set a new password", minArgs: 3, run: s.reset},

		"docs":   {usage: "docs", help: "list documents", auth: true, run: s.docs},
		"use":    {usage: "use <id|name>", help: "switch the active document", minArgs: 1, auth: true, run: s.use},
		"upload": {usage: "upload <path>", help: "upload a document", minArgs: 1, auth: true, run: s.upload},
		"rm-doc": {usage: "rm-doc <id>", help: "delete a document", minArgs: 1, auth: true, run: s.deleteDocument},

		"chat":       {usage: "chat", help: "show the conversation", auth: true, run: s.chat},
		"ask":        {usage: "ask <question>", help: "ask the tutor", minArgs: 1, auth: true, run: s.ask},
		"summarize":  {usage: "summarize", help: "summarize the active document", auth: true, run: s.summarize},
		"clear-chat": {usage: "clear-chat", help: "delete the chat history", auth: true, run: s.clearChat},

		"quiz":        {usage: "quiz", help: "generate and start a quiz", auth: true, run: s.quiz},
		"answer":      {usage: "answer <question#> <option letter|text>", help: "answer a quiz question", minArgs: 2, auth: true, run: s.answer},
		"submit":      {usage: "submit", help: "submit the running quiz", auth: true, run: s.submit},
		"history":     {usage: "history", help: "list quiz attempts", auth: true, run: s.history},
		"attempt":     {usage: "attempt <id>", help: "review a quiz attempt", minArgs: 1, auth: true, run: s.attempt},
		"pick-quiz":   {usage: "pick-quiz <id>...", help: "toggle attempts for deletion", minArgs: 1, auth: true, run: s.pickAttempts},
		"rm-quiz":     {usage: "rm-quiz [id]", help: "delete one attempt, or the picked ones", auth: true, run: s.deleteAttempts},
		"rm-all-quiz": {usage: "rm-all-quiz", help: "delete every attempt of the document", auth: true, run: s.deleteAllAttempts},

		"cards":        {usage: "cards", help: "list flashcard sets", auth: true, run: s.cards},
		"gen-cards":    {usage: "gen-cards", help: "generate a flashcard set", auth: true, run: s.generateCards},
		"open":         {usage: "open <set id>", help: "study a flashcard set", minArgs: 1, auth: true, run: s.openSet},
		"flip":         {usage: "flip", help: "turn the current card", auth: true, run: s.flip},
		"next":         {usage: "next", help: "next card", auth: true, run: s.next},
		"prev":         {usage: "prev", help: "previous card", auth: true, run: s.prev},
		"pick-cards":   {usage: "pick-cards <id>...", help: "toggle sets for deletion", minArgs: 1, auth: true, run: s.pickSets},
		"rm-cards":     {usage: "rm-cards [id]", help: "delete one set, or the picked ones", auth: true, run: s.deleteSets},
		"rm-all-cards": {usage: "rm-all-cards", help: "delete every set of the document", auth: true, run: s.deleteAllSets},

		"progress": {usage: "progress", help: "show the progress report", auth: true, run: s.progress},

		"yes": {usage: "yes", help: "confirm the pending action", run: s.confirm},
		"no":  {usage: "no", help: "cancel the pending action", run: s.cancel},
	}
	return s
}

func (s *shell) prompt() string {
	if doc, ok := s.ws.Session.ActiveDocument(); ok {
		return fmt.Sprintf("[%s]> ", doc.Filename)
	}
	return "> "
}

// run executes one input line and reports whether the shell should exit.
func (s *shell) run(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	if name == "quit" || name == "exit" {
		return true
	}

	cmd, ok := s.commands[name]
	if !ok {
		color.Red("Unknown command %q. Type 'help'.", name)
		return false
	}
	if len(args) < cmd.minArgs {
		color.Yellow("Usage: %s", cmd.usage)
		return false
	}
	if cmd.auth && !s.ws.Session.IsAuthenticated() {
		color.Yellow("Please log in first.")
		return false
	}
	if pending, open := s.ws.Gate.Pending(); open && name != "yes" && name != "no" {
		color.Yellow("%s Answer 'yes' or 'no' first.", pending)
		return false
	}

	if err := cmd.run(ctx, args); err != nil {
		s.fail(err)
	}
	return false
}

func (s *shell) fail(err error) {
	logger.Get().Debug("Command failed", zap.Error(err))
	switch domain.CodeOf(err) {
	case domain.CodeUnauthorized:
		color.Red("%s", domain.UserMessage(err))
		if !s.ws.Session.IsAuthenticated() {
			color.Yellow("You have been logged out.")
		}
	case domain.CodeBusy, domain.CodeValidation, domain.CodeNoActiveDocument, domain.CodeInvalidState:
		color.Yellow("%s", domain.UserMessage(err))
	default:
		color.Red("%s", domain.UserMessage(err))
	}
}

func (s *shell) help(_ context.Context, _ []string) error {
	names := lo.Keys(s.commands)
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(s.out, "  %-42s %s\n", s.commands[n].usage, s.commands[n].help)
	}
	fmt.Fprintf(s.out, "  %-42s %s\n", "quit", "leave")
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationErrors{domain.NewFieldError("id", fmt.Sprintf("%q is not a valid id.", arg))}
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- account ---

func (s *shell) register(ctx context.Context, args []string) error {
	if err := s.ws.Auth.Register(ctx, args[0], args[1], args[2], args[3]); err != nil {
		return err
	}
	color.Green("Account created.")
	return s.afterLogin(ctx)
}

func (s *shell) login(ctx context.Context, args []string) error {
	if err := s.ws.Auth.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	color.Green("Logged in.")
	return s.afterLogin(ctx)
}

func (s *shell) afterLogin(ctx context.Context) error {
	if err := s.ws.Refresh(ctx); err != nil {
		return err
	}
	s.printDocuments()
	return nil
}

func (s *shell) logout(ctx context.Context, _ []string) error {
	if err := s.ws.Auth.Logout(ctx); err != nil {
		return err
	}
	color.Green("Logged out.")
	return nil
}

func (s *shell) forgot(ctx context.Context, args []string) error {
	msg, err := s.ws.Auth.ForgotPassword(ctx, args[0])
	if err != nil {
		return err
	}
	color.Green("%s", msg)
	return nil
}

func (s *shell) reset(ctx context.Context, args []string) error {
	msg, err := s.ws.Auth.ResetPassword(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	color.Green("%s", msg)
	return nil
}

// --- documents ---

func (s *shell) docs(ctx context.Context, _ []string) error {
	if _, err := s.ws.Documents.List(ctx); err != nil {
		return err
	}
	s.printDocuments()
	return nil
}

func (s *shell) use(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if id, err := parseID(query); err == nil {
		return s.ws.SelectDocument(ctx, id)
	}
	doc, ok := s.ws.Documents.Find(query)
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("No document matches %q.", query))
	}
	if err := s.ws.SelectDocument(ctx, doc.ID); err != nil {
		return err
	}
	color.Green("Now studying %s.", doc.Filename)
	return nil
}

func (s *shell) upload(ctx context.Context, args []string) error {
	path := strings.Join(args, " ")
	if _, err := os.Stat(path); err != nil {
		return domain.ValidationErrors{domain.NewFieldError("file", fmt.Sprintf("Cannot read %s.", path))}
	}
	s.ws.Documents.SelectFile(domain.Upload{
		Filename: filepath.Base(path),
		Open:     func() (io.ReadCloser, error) { return os.Open(path) },
	})
	doc, err := s.ws.Documents.Upload(ctx)
	if err != nil {
		if msg := s.ws.Documents.UploadMessage(); msg != "" && !domain.IsBusy(err) {
			color.Red("%s", msg)
			return nil
		}
		return err
	}
	color.Green("%s (#%d)", s.ws.Documents.UploadMessage(), doc.ID)
	return s.ws.LoadActive(ctx)
}

func (s *shell) deleteDocument(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.ws.Documents.Delete(id); err != nil {
		return err
	}
	s.askConfirmation()
	return nil
}

// --- chat ---

func (s *shell) chat(_ context.Context, _ []string) error {
	for _, m := range s.ws.Chat.Messages() {
		s.printMessage(m)
	}
	return nil
}

func (s *shell) ask(ctx context.Context, args []string) error {
	answer, err := s.ws.Chat.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	s.printMessage(domain.ChatMessage{Role: domain.RoleAI, Content: answer})
	return nil
}

func (s *shell) summarize(ctx context.Context, _ []string) error {
	summary, err := s.ws.Chat.Summarize(ctx)
	if err != nil {
		return err
	}
	s.printMessage(domain.ChatMessage{Role: domain.RoleAI, Content: summary})
	return nil
}

func (s *shell) clearChat(_ context.Context, _ []string) error {
	if err := s.ws.Chat.DeleteChat(); err != nil {
		return err
	}
	s.askConfirmation()
	return nil
}

// --- quizzes ---

func (s *shell) quiz(ctx context.Context, _ []string) error {
	if err := s.ws.Quizzes.Generate(ctx); err != nil {
		return err
	}
	s.printQuiz()
	return nil
}

func (s *shell) answer(_ context.Context, args []string) error {
	engine := s.ws.Quizzes.Engine()
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.ValidationErrors{domain.NewFieldError("question", fmt.Sprintf("%q is not a question number.", args[0]))}
	}
	i := n - 1
	questions := engine.Questions()
	if i < 0 || i >= len(questions) {
		return engine.SelectAnswer(i, "")
	}

	choice := strings.Join(args[1:], " ")
	option, ok := resolveOption(questions[i].Options, choice)
	if !ok {
		return domain.ValidationErrors{domain.NewFieldError("option", fmt.Sprintf("%q is not an option of question %d.", choice, n))}
	}
	if err := engine.SelectAnswer(i, option); err != nil {
		return err
	}
	if engine.AllAnswered() && engine.State() == service.QuizInProgress {
		color.Cyan("All questions answered. Type 'submit' when ready.")
	}
	return nil
}

// resolveOption accepts an option letter (a, b, ...) or the option text.
func resolveOption(options []string, choice string) (string, bool) {
	if len(choice) == 1 {
		if i := int(strings.ToLower(choice)[0] - 'a'); i >= 0 && i < len(options) {
			return options[i], true
		}
	}
	return lo.Find(options, func(o string) bool { return strings.EqualFold(o, choice) })
}

func (s *shell) submit(ctx context.Context, _ []string) error {
	attempt, err := s.ws.Quizzes.Submit(ctx)
	if err != nil {
		return err
	}
	s.printAttempt(*attempt)
	return nil
}

func (s *shell) history(_ context.Context, _ []string) error {
	s.printAttempts()
	return nil
}

func (s *shell) attempt(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.ws.Quizzes.View(id); err != nil {
		return err
	}
	a, _ := s.ws.Quizzes.Viewing()
	s.printAttempt(a)
	s.ws.Quizzes.CloseAttempt()
	return nil
}

func (s *shell) pickAttempts(_ context.Context, args []string) error {
	return s.pick(s.ws.Quizzes.Selection(), args)
}

func (s *shell) deleteAttempts(_ context.Context, args []string) error {
	return s.deleteFrom(s.ws.Quizzes.Selection(), args)
}

func (s *shell) deleteAllAttempts(_ context.Context, _ []string) error {
	if err := s.ws.Quizzes.Selection().DeleteAll(); err != nil {
		return err
	}
	s.askConfirmation()
	return nil
}

// --- flashcards ---

func (s *shell) cards(_ context.Context, _ []string) error {
	s.printSets()
	return nil
}

func (s *shell) generateCards(ctx context.Context, _ []string) error {
	set, err := s.ws.Flashcards.Generate(ctx)
	if err != nil {
		return err
	}
	color.Green("Created %q with %d cards (#%d).", set.Title, len(set.Cards), set.ID)
	return nil
}

func (s *shell) openSet(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.ws.Flashcards.Open(id); err != nil {
		return err
	}
	s.printCard()
	return nil
}

func (s *shell) flip(_ context.Context, _ []string) error {
	viewer := s.ws.Flashcards.Viewer()
	viewer.Flip()
	s.printCard()
	return nil
}

func (s *shell) next(_ context.Context, _ []string) error {
	viewer := s.ws.Flashcards.Viewer()
	viewer.Next()
	viewer.Settle()
	s.printCard()
	return nil
}

func (s *shell) prev(_ context.Context, _ []string) error {
	viewer := s.ws.Flashcards.Viewer()
	viewer.Prev()
	viewer.Settle()
	s.printCard()
	return nil
}

func (s *shell) pickSets(_ context.Context, args []string) error {
	return s.pick(s.ws.Flashcards.Selection(), args)
}

func (s *shell) deleteSets(_ context.Context, args []string) error {
	return s.deleteFrom(s.ws.Flashcards.Selection(), args)
}

func (s *shell) deleteAllSets(_ context.Context, _ []string) error {
	if err := s.ws.Flashcards.Selection().DeleteAll(); err != nil {
		return err
	}
	s.askConfirmation()
	return nil
}

// --- shared ---

func (s *shell) pick(sel *service.BatchSelection[int64], args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		sel.Toggle(id)
	}
	fmt.Fprintf(s.out, "Picked: %v\n", sel.IDs())
	return nil
}

func (s *shell) deleteFrom(sel *service.BatchSelection[int64], args []string) error {
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := sel.DeleteSingle(id); err != nil {
			return err
		}
	} else if err := sel.DeleteSelected(); err != nil {
		return err
	}
	s.askConfirmation()
	return nil
}

func (s *shell) progress(_ context.Context, _ []string) error {
	s.printProgress()
	return nil
}

func (s *shell) askConfirmation() {
	if msg, open := s.ws.Gate.Pending(); open {
		color.Yellow("%s Type 'yes' to continue or 'no' to cancel.", msg)
	}
}

func (s *shell) confirm(ctx context.Context, _ []string) error {
	if _, open := s.ws.Gate.Pending(); !open {
		return domain.NewInvalidStateError("Nothing to confirm.")
	}
	if err := s.ws.Gate.Confirm(ctx); err != nil {
		return err
	}
	color.Green("Done.")
	return nil
}

func (s *shell) cancel(_ context.Context, _ []string) error {
	s.ws.Gate.Cancel()
	fmt.Fprintln(s.out, "Cancelled.")
	return nil
}
