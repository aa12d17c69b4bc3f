package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"vocab-exam/internal/quiz"
)

type Config struct {
	Session quiz.SessionConfig
	// Clipboard receives copied codes and summaries. Defaults to writing them to out.
	Clipboard quiz.ClipboardSink
}

type runner struct {
	engine    *quiz.Engine
	out       io.Writer
	clipboard quiz.ClipboardSink
	shown     string
	warned    string
}

// Run plays one exam in the terminal until the user quits or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, engine *quiz.Engine, cfg Config) error {
	clipboard := cfg.Clipboard
	if clipboard == nil {
		clipboard = quiz.WriterSink{W: out}
	}
	r := &runner{engine: engine, out: out, clipboard: clipboard}

	finished := make(chan struct{}, 1)
	unsubscribe := engine.OnChange(func(snap quiz.Snapshot) {
		if snap.State != quiz.StateResult {
			return
		}
		select {
		case finished <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	snap, err := engine.Start(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer engine.ReturnToSetup()
	r.render(snap)

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-finished:
			r.showResultIfNew(engine.Snapshot())
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			// A line typed before an auto-submit was meant for the question view.
			if r.showResultIfNew(engine.Snapshot()) {
				continue
			}
			if quit := r.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (r *runner) handle(ctx context.Context, input string) bool {
	if strings.EqualFold(input, "q") {
		return true
	}

	snap := r.engine.Snapshot()
	var err error
	switch snap.State {
	case quiz.StateRunning:
		snap, err = r.handleRunning(snap, input)
	case quiz.StateConfirmSubmit:
		snap, err = r.handleConfirm(ctx, snap, input)
	case quiz.StateResult:
		snap, err = r.handleResult(snap, input)
	default:
		return true
	}

	switch {
	case err == nil:
	case errors.Is(err, errSkipRender):
		return false
	case errors.Is(err, quiz.ErrInvalidTransition), errors.Is(err, quiz.ErrSubmitting):
		snap = r.engine.Snapshot()
	case errors.Is(err, quiz.ErrNothingToRetry):
		fmt.Fprintln(r.out, "Nothing to retry: every answer was correct.")
		return false
	default:
		fmt.Fprintln(r.out, "error:", err)
	}
	r.render(snap)
	return false
}

func (r *runner) handleRunning(snap quiz.Snapshot, input string) (quiz.Snapshot, error) {
	if input == "" || strings.EqualFold(input, "n") {
		return r.engine.Next()
	}

	if number, err := strconv.Atoi(input); err == nil && snap.Question != nil {
		if number < 1 || number > len(snap.Question.Choices) {
			fmt.Fprintf(r.out, "Invalid input. Please enter a number 1-%d.\n", len(snap.Question.Choices))
			return snap, nil
		}
		if _, err := r.engine.SelectChoice(number - 1); err != nil {
			return snap, err
		}
		return r.engine.Next()
	}

	if _, err := r.engine.SelectAnswer(input); err != nil {
		return snap, err
	}
	return r.engine.Next()
}

func (r *runner) handleConfirm(ctx context.Context, snap quiz.Snapshot, input string) (quiz.Snapshot, error) {
	switch strings.ToLower(input) {
	case "s":
		_, err := r.engine.Submit(ctx)
		if errors.Is(err, quiz.ErrInvalidTransition) || errors.Is(err, quiz.ErrSubmitting) {
			return r.engine.Snapshot(), err
		}
		// A save failure arrives with the result snapshot.
		return r.engine.Snapshot(), nil
	case "c":
		return r.engine.Cancel()
	case "j":
		return r.engine.JumpToFirstUnanswered()
	default:
		fmt.Fprintln(r.out, "Enter s to submit, c to keep going or j to jump to the first unanswered question.")
		return snap, nil
	}
}

func (r *runner) handleResult(snap quiz.Snapshot, input string) (quiz.Snapshot, error) {
	result := snap.Result
	if result == nil {
		return snap, quiz.ErrInvalidTransition
	}

	switch strings.ToLower(input) {
	case "w":
		return r.engine.RetryWrongOnly()
	case "r":
		return r.engine.RetrySameScope()
	case "c":
		r.copy("verification code", result.VerificationCode)
	case "s":
		r.copy("summary", result.SummaryText())
	case "a":
		printReview(r.out, result.Review(false))
	case "x":
		printReview(r.out, result.Review(true))
	case "h":
		printHistory(r.out, r.engine.History())
	default:
		printResultMenu(r.out)
	}
	return snap, errSkipRender
}

// errSkipRender marks result commands that already wrote their output.
var errSkipRender = errors.New("skip render")

func (r *runner) copy(label, text string) {
	if r.clipboard.CopyText(text) {
		fmt.Fprintf(r.out, "Copied %s.\n", label)
		return
	}
	fmt.Fprintf(r.out, "Copy failed. %s:\n%s\n", label, text)
}

func (r *runner) render(snap quiz.Snapshot) {
	switch snap.State {
	case quiz.StateRunning:
		printQuestion(r.out, snap)
	case quiz.StateConfirmSubmit:
		printConfirm(r.out, snap)
	case quiz.StateResult:
		r.showResultIfNew(snap)
	}
}

// showResultIfNew prints the result of snap once per session, and a save
// failure once when it shows up.
func (r *runner) showResultIfNew(snap quiz.Snapshot) bool {
	if snap.State != quiz.StateResult || snap.Result == nil {
		return false
	}
	id := snap.Result.SessionID
	shown := false
	if id != r.shown {
		r.shown = id
		printResult(r.out, *snap.Result)
		shown = true
	}
	if snap.HistoryErr != nil && id != r.warned {
		r.warned = id
		fmt.Fprintln(r.out, "warning: result not saved:", snap.HistoryErr)
	}
	return shown
}

func printQuestion(out io.Writer, snap quiz.Snapshot) {
	question := snap.Question
	if question == nil {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%d/%d] %s left, %d unanswered\n", snap.Index+1, snap.Total, quiz.FormatDuration(snap.Remaining), snap.Unanswered)
	fmt.Fprintf(out, "Q%d: %s\n\n", snap.Index+1, question.Prompt)
	for idx, choice := range question.Choices {
		marker := " "
		if idx == snap.SelectedIndex {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%2d. %s\n", marker, idx+1, choice.Text)
	}
	fmt.Fprintln(out)
}

func printConfirm(out io.Writer, snap quiz.Snapshot) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Submit now? %d of %d unanswered, %s left.\n", snap.Unanswered, snap.Total, quiz.FormatDuration(snap.Remaining))
	fmt.Fprintln(out, "[s] submit  [c] keep going  [j] first unanswered  [q] quit")
}

func printResult(out io.Writer, result quiz.Result) {
	fmt.Fprintln(out)
	if result.AutoSubmitted {
		fmt.Fprintln(out, "Time is up. Your answers were submitted.")
	}
	fmt.Fprintf(out, "Final score: %d/%d (%.1f%%)\n", result.Correct, result.Total, result.Accuracy)
	fmt.Fprintf(out, "Time spent: %s\n", quiz.FormatDuration(result.TimeSpent))
	fmt.Fprintf(out, "Verification code: %s\n", result.VerificationCode)
	printResultMenu(out)
}

func printResultMenu(out io.Writer) {
	fmt.Fprintln(out, "[w] retry wrong  [r] retry all  [c] copy code  [s] copy summary  [a] review all  [x] review wrong  [h] history  [q] quit")
}

func printReview(out io.Writer, items []quiz.ReviewItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Nothing to review.")
		return
	}
	for idx, item := range items {
		mark := "O"
		if !item.IsCorrect {
			mark = "X"
		}
		chosen := item.ChosenAnswer
		if chosen == "" {
			chosen = "(no answer)"
		}
		fmt.Fprintf(out, "%s %d. %s -> %s (answer: %s)\n", mark, idx+1, item.Prompt, chosen, item.CorrectAnswer)
	}
}

func printHistory(out io.Writer, entries []quiz.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return
	}
	for idx, entry := range entries {
		fmt.Fprintf(out, "%2d. %s %s %s %d/%d (%.1f%%) %s\n",
			idx+1,
			entry.FinishedAt.Local().Format(time.DateTime),
			entry.Config.BookKey,
			entry.Config.ExamType,
			entry.Summary.Correct, entry.Summary.Total, entry.Summary.Accuracy,
			entry.VerificationCode,
		)
	}
}
