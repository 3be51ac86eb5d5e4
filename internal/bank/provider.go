package bank

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-drill/internal/domain"
)

// BankLoader is what a Provider needs from a Loader.
type BankLoader interface {
	Load(ctx context.Context, sources ...Source) (*domain.Bank, error)
}

const (
	loadKey   = "load"
	reloadKey = "reload"
)

// Provider loads the bank once and shares it. Concurrent callers wait on a
// single load, and concurrent reloads on a single reload. A failed Reload
// keeps the bank that was already loaded.
type Provider struct {
	loader  BankLoader
	sources []Source
	// loadTimeout bounds one shared load; zero leaves it to the fetchers.
	loadTimeout time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	bank  *domain.Bank
}

func NewProvider(loader BankLoader, sources ...Source) *Provider {
	return &Provider{
		loader:  loader,
		sources: append([]Source(nil), sources...),
	}
}

// NewStaticProvider serves an already loaded bank; Reload keeps returning it.
func NewStaticProvider(bank *domain.Bank) *Provider {
	p := &Provider{loader: staticLoader{bank: bank}}
	if bank.Len() > 0 {
		p.bank = bank
	}
	return p
}

func (p *Provider) Bank(ctx context.Context) (*domain.Bank, error) {
	p.mu.RLock()
	bank := p.bank
	p.mu.RUnlock()
	if bank != nil {
		return bank, nil
	}
	return p.load(ctx, loadKey)
}

// Reload fetches the sources again. Sessions already started keep the bank
// they were drawn from.
func (p *Provider) Reload(ctx context.Context) (*domain.Bank, error) {
	return p.load(ctx, reloadKey)
}

// load runs one loader call per key for all waiting callers. The call does
// not inherit the first caller's cancellation; each caller stops waiting
// when its own ctx ends.
func (p *Provider) load(ctx context.Context, key string) (*domain.Bank, error) {
	ch := p.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		if p.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, p.loadTimeout)
			defer cancel()
		}
		bank, err := p.loader.Load(loadCtx, p.sources...)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		// a reload that finished first is newer than this initial load
		if key == loadKey && p.bank != nil {
			return p.bank, nil
		}
		p.bank = bank
		return bank, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Bank), nil
	case <-ctx.Done():
		return nil, domain.NewFetchTimeoutError("the configured sources", ctx.Err())
	}
}

type staticLoader struct {
	bank *domain.Bank
}

func (s staticLoader) Load(context.Context, ...Source) (*domain.Bank, error) {
	if s.bank.Len() == 0 {
		return nil, domain.NewEmptyBankError("static bank", nil)
	}
	return s.bank, nil
}
