package bank

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-drill/internal/domain"
)

type countingLoader struct {
	calls   atomic.Int32
	release chan struct{}
	bank    *domain.Bank
	err     error
}

func (c *countingLoader) Load(ctx context.Context, _ ...Source) (*domain.Bank, error) {
	c.calls.Add(1)
	if c.release != nil {
		<-c.release
	}
	return c.bank, c.err
}

func fixtureBank(t *testing.T) *domain.Bank {
	t.Helper()
	bank, err := Parse(strings.NewReader(delimitedFixture))
	require.NoError(t, err)
	return bank
}

func TestProvider_ConcurrentCallersShareOneLoad(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{}), bank: fixtureBank(t)}
	p := NewProvider(loader, Source{Location: "bank.csv"})

	var wg sync.WaitGroup
	results := make([]*domain.Bank, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := p.Bank(context.Background())
			assert.NoError(t, err)
			results[i] = b
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, b := range results {
		assert.Same(t, loader.bank, b)
	}

	_, err := p.Bank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), loader.calls.Load(), "loaded bank is cached")
}

func TestProvider_FailedReloadKeepsBank(t *testing.T) {
	loader := &countingLoader{bank: fixtureBank(t)}
	p := NewProvider(loader)

	first, err := p.Bank(context.Background())
	require.NoError(t, err)

	loader.bank, loader.err = nil, domain.NewFetchError("bank.csv", context.DeadlineExceeded)
	_, err = p.Reload(context.Background())
	require.Error(t, err)

	current, err := p.Bank(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestStaticProvider(t *testing.T) {
	bank := fixtureBank(t)
	p := NewStaticProvider(bank)

	got, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, bank, got)

	_, err = NewStaticProvider(&domain.Bank{}).Bank(context.Background())
	assert.Equal(t, domain.CodeEmptyBank, domain.CodeOf(err))
}

// gatedLoader holds its first call until gate closes and hands out banks in call order.
type gatedLoader struct {
	mu        sync.Mutex
	banks     []*domain.Bank
	calls     int
	started   chan struct{}
	gate      chan struct{}
	ctxErrs   []error
	deadlines []bool
}

func newGatedLoader(banks ...*domain.Bank) *gatedLoader {
	return &gatedLoader{banks: banks, started: make(chan struct{}, 8), gate: make(chan struct{})}
}

func (g *gatedLoader) Load(ctx context.Context, _ ...Source) (*domain.Bank, error) {
	g.mu.Lock()
	n := g.calls
	g.calls++
	g.mu.Unlock()

	g.started <- struct{}{}
	if n == 0 {
		<-g.gate
	}

	_, hasDeadline := ctx.Deadline()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	g.deadlines = append(g.deadlines, hasDeadline)
	return g.banks[min(n, len(g.banks)-1)], nil
}

func TestProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	loader := newGatedLoader(fixtureBank(t))
	p := NewProvider(loader)
	p.loadTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Bank(ctx)
		firstErr <- err
	}()
	<-loader.started

	second := make(chan *domain.Bank, 1)
	go func() {
		b, err := p.Bank(context.Background())
		assert.NoError(t, err)
		second <- b
	}()

	cancel()
	err := <-firstErr
	require.Error(t, err)
	assert.Equal(t, domain.CodeFetchTimeout, domain.CodeOf(err))

	close(loader.gate)
	assert.Same(t, loader.banks[0], <-second)

	loader.mu.Lock()
	defer loader.mu.Unlock()
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, []error{nil}, loader.ctxErrs)
	assert.Equal(t, []bool{true}, loader.deadlines)
}

func TestProvider_ReloadDuringInitialLoadFetchesAgain(t *testing.T) {
	initial, fresh := fixtureBank(t), fixtureBank(t)
	loader := newGatedLoader(initial, fresh)
	p := NewProvider(loader)

	pending := make(chan *domain.Bank, 1)
	go func() {
		b, err := p.Bank(context.Background())
		assert.NoError(t, err)
		pending <- b
	}()
	<-loader.started

	reloaded, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, reloaded)

	close(loader.gate)
	assert.Same(t, fresh, <-pending, "the older initial load does not replace a newer reload")

	current, err := p.Bank(context.Background())
	require.NoError(t, err)
	assert.Same(t, fresh, current)
}
