package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Front ends accepted by quiz-cli's -ui flag.
const (
	ModeAuto  = "auto"
	ModeTUI   = "tui"
	ModePlain = "plain"
)

// ModeDecision tells quiz-cli which front end to run. Warning is set when
// the requested full-screen quiz had to give way to numbered prompts.
type ModeDecision struct {
	UseTUI  bool
	Warning string
}

var isTerminal = streamIsTerminal

// ResolveMode maps the -ui flag to a front end. The full-screen quiz reads
// key presses and redraws the screen, so it runs only when both stdin and
// stdout are terminals; piped answers always get the plain prompts.
func ResolveMode(mode string, stdin io.Reader, stdout io.Writer) (ModeDecision, error) {
	requested := strings.ToLower(strings.TrimSpace(mode))
	if requested == "" {
		requested = ModeAuto
	}
	onTerminal := isTerminal(stdin) && isTerminal(stdout)

	switch requested {
	case ModePlain:
		return ModeDecision{}, nil
	case ModeAuto:
		return ModeDecision{UseTUI: onTerminal}, nil
	case ModeTUI:
		if !onTerminal {
			return ModeDecision{Warning: "quiz-cli: -ui=tui needs a terminal on stdin and stdout, using numbered prompts"}, nil
		}
		return ModeDecision{UseTUI: true}, nil
	}
	return ModeDecision{}, fmt.Errorf("unknown -ui value %q, want %s, %s or %s", mode, ModeAuto, ModeTUI, ModePlain)
}

func streamIsTerminal(stream interface{}) bool {
	switch s := stream.(type) {
	case *os.File:
		return s != nil && term.IsTerminal(int(s.Fd()))
	case interface{ Fd() uintptr }:
		return term.IsTerminal(int(s.Fd()))
	}
	return false
}
