// Command convert_bank reads a question bank in any supported format and
// writes it as JSON or YAML records.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"quiz-drill/internal/bank"
	"quiz-drill/internal/config"
	"quiz-drill/internal/logger"
)

func main() {
	in := flag.String("in", "", "source bank file path or http(s) URL (required)")
	inFormat := flag.String("from", "auto", "source format: auto, delimited, json or yaml")
	encoding := flag.String("encoding", "iso-8859-1", "text encoding of a delimited source")
	out := flag.String("out", "", "output file; stdout when empty")
	outFormat := flag.String("to", "json", "output format: json or yaml")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout for remote sources")
	flag.Parse()

	if err := logger.Initialize(config.LoggerConfig{Env: "development", Level: "info"}); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	appLogger := logger.Get()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	from, err := bank.ParseFormat(*inFormat)
	if err != nil {
		appLogger.Fatal("Invalid source format", zap.Error(err))
	}
	to, err := bank.ParseFormat(*outFormat)
	if err != nil || (to != bank.FormatJSON && to != bank.FormatYAML) {
		appLogger.Fatal("Output format must be json or yaml", zap.String("to", *outFormat))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	loader := bank.NewLoader(bank.WithHTTPFetcher(bank.NewHTTPFetcher(*timeout)))
	b, err := loader.LoadSource(ctx, bank.Source{Location: *in, Format: from, Encoding: *encoding})
	if err != nil {
		appLogger.Fatal("Failed to read bank", zap.String("source", *in), zap.Error(err))
	}
	for _, rejected := range b.Rejected {
		appLogger.Warn("Skipped record",
			zap.Int("line", rejected.Line),
			zap.String("reason", rejected.Reason))
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			appLogger.Fatal("Failed to create output file", zap.String("path", *out), zap.Error(err))
		}
		defer f.Close()
		w = f
	}

	buf := bufio.NewWriter(w)
	if err := bank.WriteRecords(buf, bank.RecordsFromBank(b), to); err != nil {
		appLogger.Fatal("Failed to write records", zap.Error(err))
	}
	if err := buf.Flush(); err != nil {
		appLogger.Fatal("Failed to flush output", zap.Error(err))
	}

	appLogger.Info("Bank converted",
		zap.String("source", b.Source),
		zap.Int("questions", b.Len()),
		zap.Int("skipped", len(b.Rejected)),
		zap.String("format", string(to)))
}
