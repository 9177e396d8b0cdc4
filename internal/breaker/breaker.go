package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Breaker fails outbound calls fast once the collaborator behind it
// has proven unhealthy, instead of stalling request handlers on every
// attempt. Closed passes calls through; MaxFailures consecutive
// failures open it; after Cooldown one probe call is let through and
// its outcome decides between closing again and reopening.

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	Name        string
	MaxFailures int
	Cooldown    time.Duration
}

type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	logger      *logrus.Logger

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	probing       bool
	totalCalls    int64
	totalFails    int64
	shortCircuits int64
}

func New(cfg Config, logger *logrus.Logger) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:        cfg.Name,
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		logger:      logger,
	}
}

// Execute runs fn unless the breaker is open, in which case ErrOpen
// comes back without fn running.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalCalls++
	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.openedAt) < b.cooldown {
			b.shortCircuits++
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	default: // StateHalfOpen
		if b.probing {
			b.shortCircuits++
			return ErrOpen
		}
		b.probing = true
		return nil
	}
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probing = false
		if err != nil {
			b.totalFails++
			b.openedAt = time.Now()
			b.transition(StateOpen)
			return
		}
		b.failures = 0
		b.transition(StateClosed)
		return
	}

	if err != nil {
		b.totalFails++
		b.failures++
		if b.failures >= b.maxFailures {
			b.openedAt = time.Now()
			b.transition(StateOpen)
		}
		return
	}
	b.failures = 0
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.logger.WithFields(logrus.Fields{
		"breaker": b.name,
		"from":    from.String(),
		"to":      to.String(),
	}).Warn("Circuit breaker state change")
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Counters is a snapshot of call accounting since start.
type Counters struct {
	Calls         int64
	Failures      int64
	ShortCircuits int64
}

func (b *Breaker) Counters() Counters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Counters{Calls: b.totalCalls, Failures: b.totalFails, ShortCircuits: b.shortCircuits}
}
