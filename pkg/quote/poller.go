package quote

import (
	"context"
	"math/big"
	"sync"
	"time"

	"dexa-swap/pkg/client"
	"dexa-swap/pkg/metrics"

	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval = 30 * time.Second
	MinPollInterval     = 5 * time.Second
)

// Fetcher performs a single quote request. *client.ValidatorClient implements it.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint client.Endpoint, args client.QueryArgs) (*client.QuoteResponse, error)
}

// TickerFunc starts a ticker and returns its channel and stop function
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type fetchResult struct {
	generation uint64
	// requested is the last generation a fetch was started for
	requested  uint64
	seq        uint64
	resp       *client.QuoteResponse
	err        error
}

// Poller keeps a quote fresh: it fetches when params change, on every
// interval tick and on Refocus, and publishes the evaluated Result.
// Responses for superseded params or older requests are dropped.
type Poller struct {
	fetcher   Fetcher
	interval  time.Duration
	newTicker TickerFunc
	tokens    TokenLookup
	log       zerolog.Logger

	mu         sync.Mutex
	params     Params
	args       *client.QueryArgs
	generation uint64
	// requested is the last generation a fetch was started for
	requested  uint64
	seq        uint64
	appliedSeq uint64
	loading    bool
	data       *client.QuoteResponse
	err        error
	gasPrice   *big.Int

	publishMu sync.Mutex
	lastState *TradeState

	paramsCh  chan struct{}
	refocusCh chan struct{}
	results   chan fetchResult
	updates   chan Result
}

type PollerOption func(*Poller)

// WithInterval sets the polling interval, clamped to MinPollInterval
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d < MinPollInterval {
			d = MinPollInterval
		}
		p.interval = d
	}
}

func WithTicker(f TickerFunc) PollerOption {
	return func(p *Poller) { p.newTicker = f }
}

func WithTokens(t TokenLookup) PollerOption {
	return func(p *Poller) { p.tokens = t }
}

func WithPollerLogger(l zerolog.Logger) PollerOption {
	return func(p *Poller) { p.log = l }
}

// NewPoller creates a poller; call Run to start it and SetParams to select a quote
func NewPoller(fetcher Fetcher, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:   fetcher,
		interval:  DefaultPollInterval,
		newTicker: realTicker,
		log:       zerolog.Nop(),
		paramsCh:  make(chan struct{}, 1),
		refocusCh: make(chan struct{}, 1),
		results:   make(chan fetchResult, 8),
		updates:   make(chan Result, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the polling interval
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// SetParams replaces the quote selection. A change of request resets the
// query to loading with no data and triggers an immediate fetch.
func (p *Poller) SetParams(params Params) {
	args := BuildArgs(params)

	p.mu.Lock()
	changed := requestKey(params, args) != requestKey(p.params, p.args)
	p.params = params
	if changed {
		p.generation++
		p.args = args
		p.data = nil
		p.err = nil
		p.loading = args != nil && !params.SkipRequest
	}
	p.mu.Unlock()

	p.publish()
	if changed {
		signal(p.paramsCh)
	}
}

// SetGasPrice updates the network gas price used for gas cost estimates
func (p *Poller) SetGasPrice(gasPrice *big.Int) {
	p.mu.Lock()
	p.gasPrice = gasPrice
	p.mu.Unlock()
	p.publish()
}

// Refocus requests an immediate refetch, as when the user returns to the quote
func (p *Poller) Refocus() {
	signal(p.refocusCh)
}

// Result evaluates the current query status
func (p *Poller) Result() Result {
	return Evaluate(p.snapshot())
}

// Updates delivers the latest Result after every change; older unread results are replaced
func (p *Poller) Updates() <-chan Result {
	return p.updates
}

// Run polls until ctx is cancelled
func (p *Poller) Run(ctx context.Context) error {
	tick, stop := p.newTicker(p.interval)
	defer stop()

	p.log.Debug().Dur("interval", p.interval).Msg("quote poller started")
	p.fetchNew(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("quote poller stopped")
			return ctx.Err()
		case <-p.paramsCh:
			p.fetchNew(ctx)
		case <-p.refocusCh:
			p.log.Debug().Msg("refocus refetch")
			p.fetch(ctx)
		case <-tick:
			p.fetch(ctx)
		case r := <-p.results:
			p.apply(r)
		}
	}
}

// fetchNew fetches only when the current params were never requested.
// Params set before Run both queue a signal and are picked up by the
// startup fetch; this keeps that to a single request.
func (p *Poller) fetchNew(ctx context.Context) {
	p.mu.Lock()
	stale := p.requested != p.generation
	p.mu.Unlock()
	if stale {
		p.fetch(ctx)
	}
}

// fetch starts a request for the current args in the background
func (p *Poller) fetch(ctx context.Context) {
	p.mu.Lock()
	if p.args == nil || p.params.SkipRequest {
		p.mu.Unlock()
		return
	}
	p.requested = p.generation
	p.seq++
	req := fetchResult{generation: p.generation, seq: p.seq}
	args := *p.args
	endpoint := p.params.Endpoint()
	p.loading = true
	p.mu.Unlock()

	go func() {
		req.resp, req.err = p.fetcher.Fetch(ctx, endpoint, args)
		select {
		case p.results <- req:
		case <-ctx.Done():
		}
	}()
}

func (p *Poller) apply(r fetchResult) {
	p.mu.Lock()
	if r.generation != p.generation || r.seq <= p.appliedSeq {
		p.mu.Unlock()
		p.log.Debug().Uint64("seq", r.seq).Msg("dropping superseded quote")
		return
	}
	p.appliedSeq = r.seq
	if r.seq == p.seq {
		p.loading = false
	}
	if r.err != nil {
		p.err = r.err
	} else {
		p.data = r.resp
		p.err = nil
	}
	p.mu.Unlock()

	p.publish()
}

func (p *Poller) snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Params:   p.params,
		Args:     p.args,
		Loading:  p.loading,
		Err:      p.err,
		Data:     p.data,
		GasPrice: p.gasPrice,
		Tokens:   p.tokens,
	}
}

func (p *Poller) publish() {
	p.publishMu.Lock()
	defer p.publishMu.Unlock()

	res := p.Result()
	if p.lastState == nil || *p.lastState != res.State {
		metrics.QuoteStateTotal.WithLabelValues(res.State.String()).Inc()
		ev := p.log.Debug().Str("state", res.State.String())
		if res.Err != nil {
			ev = ev.AnErr("cause", res.Err)
		}
		ev.Msg("quote state changed")
		st := res.State
		p.lastState = &st
	}

	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- res:
	default:
	}
}

// requestKey identifies what would be requested for params
func requestKey(params Params, args *client.QueryArgs) string {
	if args == nil {
		return ""
	}
	key := string(params.Endpoint()) + "/" + args.Key()
	if params.SkipRequest {
		key += "#skip"
	}
	return key
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
