// Package cli runs a quiz over plain line-oriented input and output. Choices
// are numbered from 1 and answers are typed like "1,3".
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/quiz"
	"quiz-drill/internal/service"
	"quiz-drill/internal/util"
)

// Options configures a plain-mode run.
type Options struct {
	DefaultCount int
	// Count skips the count prompt when positive.
	Count   int
	Journal service.JournalService
}

// errQuit ends the run when the input closes or the user types q.
var errQuit = errors.New("quit")

type runner struct {
	session *quiz.Session
	in      *bufio.Scanner
	out     io.Writer
	opts    Options
}

// Run plays session, which must be configuring, until the user quits or
// the input ends. Completed runs are written to the journal.
func Run(ctx context.Context, session *quiz.Session, in io.Reader, out io.Writer, opts Options) error {
	if opts.DefaultCount < 1 {
		opts.DefaultCount = 1
	}
	if opts.Journal == nil {
		opts.Journal = service.NewJournalService(nil)
	}
	r := &runner{session: session, in: bufio.NewScanner(in), out: out, opts: opts}

	count := opts.Count
	for {
		err := r.play(ctx, count)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(r.out, "Bye.")
			return nil
		}
		if err != nil {
			return err
		}
		again, err := r.confirm("Play again? [y/N] ")
		if errors.Is(err, errQuit) || !again {
			return nil
		}
		if err != nil {
			return err
		}
		count = 0
		if err := r.session.Restart(); err != nil {
			return err
		}
	}
}

func (r *runner) play(ctx context.Context, count int) error {
	if count < 1 {
		var err error
		if count, err = r.askCount(); err != nil {
			return err
		}
	}
	if err := r.session.Start(count); err != nil {
		return err
	}
	runID := util.NewULID()

	for r.session.State() != quiz.StateCompleted {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch r.session.State() {
		case quiz.StateInProgress:
			if err := r.askQuestion(); err != nil {
				return err
			}
		case quiz.StateReviewing:
			if err := r.review(); err != nil {
				return err
			}
		}
	}

	score, err := r.session.FinalScore()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "\nYou answered %d of %d correctly (%.1f%%). %s\n",
		score.Correct, score.Total, score.Percent, score.Rating.Message())

	if err := r.opts.Journal.RecordRun(ctx, runID, r.session); err != nil {
		logger.Get().Error("Failed to record quiz run", zap.String("run_id", runID), zap.Error(err))
		fmt.Fprintln(r.out, "Could not save this run to the journal.")
	}
	return nil
}

func (r *runner) readLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(r.in.Text())
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

func (r *runner) askCount() (int, error) {
	fmt.Fprintf(r.out, "%d questions available.\n", r.session.Bank().Len())
	for {
		line, err := r.readLine(fmt.Sprintf("How many questions? [%d] ", r.opts.DefaultCount))
		if err != nil {
			return 0, err
		}
		if line == "" {
			return r.opts.DefaultCount, nil
		}
		k, err := strconv.Atoi(line)
		if err == nil && k >= 1 {
			return k, nil
		}
		fmt.Fprintln(r.out, "Please enter a number of at least 1.")
	}
}

func (r *runner) askQuestion() error {
	q, err := r.session.CurrentQuestion()
	if err != nil {
		return err
	}
	pos, total := r.session.Progress()
	fmt.Fprintf(r.out, "\nQuestion %d/%d (score %d)\n%s\n", pos+1, total, r.session.Score(), q.Text)
	if q.Kind == domain.KindImage && q.ImageRef != "" {
		fmt.Fprintf(r.out, "[image: %s]\n", q.ImageRef)
	}
	for i, choice := range q.Choices {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, choice)
	}

	prompt := "Your answer: "
	if q.IsMultiple() {
		prompt = "Your answers (several, e.g. 1,3): "
	}
	for {
		line, err := r.readLine(prompt)
		if err != nil {
			return err
		}
		selected, err := ParseAnswer(line, len(q.Choices))
		if err != nil {
			fmt.Fprintln(r.out, err.Error())
			continue
		}
		t, err := r.session.Submit(selected)
		if err != nil {
			if domain.IsValidation(err) {
				fmt.Fprintln(r.out, err.Error())
				continue
			}
			return err
		}
		if t.Correct {
			fmt.Fprintln(r.out, "Correct!")
		}
		return nil
	}
}

func (r *runner) review() error {
	rv, err := r.session.Review()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Incorrect.")
	for _, idx := range rv.Correct {
		fmt.Fprintf(r.out, "  correct: %d. %s\n", idx+1, rv.Question.Choices[idx])
	}
	for _, idx := range rv.Selected {
		if !slices.Contains(rv.Correct, idx) {
			fmt.Fprintf(r.out, "  yours:   %d. %s\n", idx+1, rv.Question.Choices[idx])
		}
	}
	if _, err := r.readLine("Press Enter to continue "); err != nil {
		return err
	}
	_, err = r.session.Continue()
	return err
}

func (r *runner) confirm(prompt string) (bool, error) {
	line, err := r.readLine(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ParseAnswer turns "1,3" or "1 3" into sorted 0-based indices.
func ParseAnswer(line string, choices int) ([]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, domain.NewValidationError("at least one choice must be selected")
	}
	selected := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("%q is not a choice number", f))
		}
		if n < 1 || n > choices {
			return nil, domain.NewValidationError(fmt.Sprintf("choice %d is out of range 1-%d", n, choices))
		}
		selected = append(selected, n-1)
	}
	slices.Sort(selected)
	return slices.Compact(selected), nil
}
