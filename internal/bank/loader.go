package bank

import (
	"bytes"
	"context"
	"path"
	"strings"

	"go.uber.org/zap"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/logger"
)

// Source is one candidate location of a bank.
type Source struct {
	Location string
	Format   Format
	// Encoding only applies to delimited text; structured records are UTF-8.
	Encoding string
}

// ResolvedFormat infers FormatAuto from the location's extension.
func (s Source) ResolvedFormat() Format {
	if s.Format != "" && s.Format != FormatAuto {
		return s.Format
	}
	location := s.Location
	if i := strings.IndexAny(location, "?#"); i >= 0 && isRemote(location) {
		location = location[:i]
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatDelimited
	}
}

type Loader struct {
	files  Fetcher
	remote Fetcher
}

type LoaderOption func(*Loader)

func WithFileFetcher(f Fetcher) LoaderOption {
	return func(l *Loader) { l.files = f }
}

func WithHTTPFetcher(f Fetcher) LoaderOption {
	return func(l *Loader) { l.remote = f }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		files:  FileFetcher{},
		remote: NewHTTPFetcher(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load tries the sources in order and returns the first bank with at least
// one playable question. When every source fails the last error is returned.
func (l *Loader) Load(ctx context.Context, sources ...Source) (*domain.Bank, error) {
	if len(sources) == 0 {
		return nil, domain.NewLoadError("no question bank source configured", nil)
	}

	var lastErr error
	for _, src := range sources {
		bank, err := l.LoadSource(ctx, src)
		if err == nil {
			return bank, nil
		}
		logger.Get().Warn("Question bank source failed",
			zap.String("location", src.Location),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (l *Loader) LoadSource(ctx context.Context, src Source) (*domain.Bank, error) {
	fetcher := l.files
	if isRemote(src.Location) {
		fetcher = l.remote
	}

	data, err := fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, err
	}

	var bank *domain.Bank
	switch format := src.ResolvedFormat(); format {
	case FormatJSON, FormatYAML:
		bank, err = parseRecords(data, format, src.Location)
	default:
		decoded, derr := Decode(bytes.NewReader(data), src.Encoding)
		if derr != nil {
			return nil, derr
		}
		bank, err = parseDelimited(decoded, src.Location)
	}
	if err != nil {
		return nil, err
	}

	for _, rejected := range bank.Rejected {
		logger.Get().Warn("Skipped malformed question record",
			zap.String("location", src.Location),
			zap.Int("line", rejected.Line),
			zap.String("reason", rejected.Reason))
	}
	logger.Get().Info("Question bank loaded",
		zap.String("location", src.Location),
		zap.Int("questions", bank.Len()),
		zap.Int("rejected", len(bank.Rejected)))
	return bank, nil
}
