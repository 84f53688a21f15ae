// Package circuit implements a small circuit breaker used around the
// external API clients (Google Maps, OpenAI). Closed: normal operation;
// Open: fail fast; HalfOpen: single probe after the cool-off.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"

	"antiques-directory/pkg/metrics"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

// ErrOpen indicates the breaker is open and calls are short-circuited.
var ErrOpen = errors.New("circuit open")

// Config tunes a breaker instance.
type Config struct {
	Name              string
	OperationTimeout  time.Duration // per-call timeout
	OpenFor           time.Duration // how long to stay open before probing
	MaxConsecFailures int           // consecutive failures to open
}

type Breaker struct {
	cfg        Config
	mu         sync.Mutex
	st         State
	nextProbe  time.Time
	consecFail int

	mState   *metrics.Gauge
	mOpens   *metrics.Counter
	mSuccess *metrics.Counter
	mFailure *metrics.Counter
}

func New(cfg Config) *Breaker {
	if cfg.MaxConsecFailures <= 0 {
		cfg.MaxConsecFailures = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}
	b := &Breaker{
		cfg:      cfg,
		st:       Closed,
		mState:   metrics.Default.Gauge("cb_"+cfg.Name+"_state", "Circuit breaker state (0=closed,1=open,2=half-open)"),
		mOpens:   metrics.Default.Counter("cb_"+cfg.Name+"_opens", "Circuit opened events"),
		mSuccess: metrics.Default.Counter("cb_"+cfg.Name+"_success", "Successful calls through circuit"),
		mFailure: metrics.Default.Counter("cb_"+cfg.Name+"_failure", "Failed calls through circuit"),
	}
	b.mState.SetFloat64(0)
	return b
}

func (b *Breaker) setStateLocked(st State) {
	if b.st == st {
		return
	}
	b.st = st
	switch st {
	case Open:
		b.mOpens.Inc(1)
		b.mState.SetFloat64(1)
	case HalfOpen:
		b.mState.SetFloat64(2)
	case Closed:
		b.mState.SetFloat64(0)
	}
}

// Do runs op under the breaker. While open, calls return ErrOpen without
// invoking op. Outputs are captured via closure variables; op returns only
// the error.
func (b *Breaker) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b.mu.Lock()
	if b.st == Open {
		if time.Now().Before(b.nextProbe) {
			b.mu.Unlock()
			return ErrOpen
		}
		b.setStateLocked(HalfOpen)
	}
	b.mu.Unlock()

	if b.cfg.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.OperationTimeout)
		defer cancel()
	}

	err := op(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.consecFail++
		b.mFailure.Inc(1)
		if b.st == HalfOpen || b.consecFail >= b.cfg.MaxConsecFailures {
			b.setStateLocked(Open)
			b.nextProbe = time.Now().Add(b.cfg.OpenFor)
		}
		return err
	}

	b.consecFail = 0
	b.mSuccess.Inc(1)
	if b.st == HalfOpen {
		b.setStateLocked(Closed)
	}
	return nil
}

// State reports the current breaker state, for the health endpoint.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st
}
