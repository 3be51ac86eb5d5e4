// Command quiz-cli runs a drill session in the terminal. It uses the
// interactive UI on a TTY and plain numbered prompts otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"quiz-drill/internal/bank"
	"quiz-drill/internal/cli"
	"quiz-drill/internal/config"
	"quiz-drill/internal/database"
	"quiz-drill/internal/domain"
	"quiz-drill/internal/logger"
	"quiz-drill/internal/quiz"
	"quiz-drill/internal/repository"
	"quiz-drill/internal/service"
	"quiz-drill/internal/tui"
)

func main() {
	count := flag.Int("count", 0, "number of questions; prompts when 0")
	location := flag.String("bank", "", "bank file path or http(s) URL, overrides configured sources")
	format := flag.String("format", "auto", "bank format: auto, delimited, json or yaml")
	encoding := flag.String("encoding", "iso-8859-1", "text encoding of a delimited bank")
	uiMode := flag.String("ui", cli.ModeAuto, "front end: auto, tui or plain")
	noColor := flag.Bool("no-color", false, "disable colors in the interactive UI")
	seed := flag.Uint64("seed", 0, "random seed for question selection; 0 picks one")
	flag.Parse()

	if err := run(*count, *location, *format, *encoding, *uiMode, *noColor, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(count int, location, format, encoding, uiMode string, noColor bool, seed uint64) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	decision, err := cli.ResolveMode(uiMode, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if decision.Warning != "" {
		fmt.Fprintln(os.Stderr, decision.Warning)
	}
	// Log lines on stderr would tear the interactive screen, so the TUI keeps the no-op logger.
	if !decision.UseTUI {
		if err := logger.Initialize(cfg.Logger); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if location != "" {
		cfg.Bank.Sources = append([]config.BankSourceConfig{{Location: location, Format: format, Encoding: encoding}}, cfg.Bank.Sources...)
	}
	if len(cfg.Bank.Sources) == 0 {
		return fmt.Errorf("no question bank configured: pass -bank or set BANK_LOCATION")
	}
	b, err := bank.NewProviderFromConfig(cfg.Bank).Bank(ctx)
	if err != nil {
		return err
	}
	for _, rejected := range b.Rejected {
		logger.Get().Warn("Skipped bank record", zap.Int("line", rejected.Line), zap.String("reason", rejected.Reason))
	}

	var results domain.ResultRepository
	if cfg.Database.Enabled() {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open journal database: %w", err)
		}
		defer db.Close()
		results = repository.NewSQLXResultRepository(db, repository.NewTransactionManagerAdapter(db))
	}
	journal := service.NewJournalService(results)

	var opts []quiz.Option
	if seed != 0 {
		opts = append(opts, quiz.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	session, err := quiz.New(b, opts...)
	if err != nil {
		return err
	}

	if !decision.UseTUI {
		return cli.Run(ctx, session, os.Stdin, os.Stdout, cli.Options{
			DefaultCount: cfg.Quiz.DefaultCount,
			Count:        count,
			Journal:      journal,
		})
	}

	model := tui.NewModel(session, tui.Options{
		DefaultCount: defaultCount(count, cfg.Quiz.DefaultCount),
		NoColor:      noColor || os.Getenv("NO_COLOR") != "",
		Journal:      journal,
	})
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

func defaultCount(flagCount, configured int) int {
	if flagCount > 0 {
		return flagCount
	}
	return configured
}
