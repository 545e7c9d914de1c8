package breaker

import (
	"sync"
	"time"
)

// Breaker tracks broker failures per connection factory name.
// Threshold failures within Window open it for OpenFor; a success clears it.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	window    time.Duration
	openFor   time.Duration
	now       func() time.Time

	state map[string]*st
}

type st struct {
	failCount int
	firstFail time.Time
	openUntil time.Time
}

type Options struct {
	Threshold int
	Window    time.Duration
	OpenFor   time.Duration
}

func New(opt Options) *Breaker {
	if opt.Threshold <= 0 {
		opt.Threshold = 5
	}
	if opt.Window <= 0 {
		opt.Window = 10 * time.Second
	}
	if opt.OpenFor <= 0 {
		opt.OpenFor = 5 * time.Second
	}
	return &Breaker{
		threshold: opt.Threshold,
		window:    opt.Window,
		openFor:   opt.OpenFor,
		now:       time.Now,
		state:     make(map[string]*st),
	}
}

// Allow is false while key is open.
func (b *Breaker) Allow(key string) bool {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.state[key]
	if !ok {
		return true
	}
	return s.openUntil.IsZero() || !now.Before(s.openUntil)
}

func (b *Breaker) Success(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.state, key)
}

// Failure records a failed publish and reports whether it opened the breaker.
func (b *Breaker) Failure(key string) (opened bool) {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.state[key]
	if !ok || now.Sub(s.firstFail) > b.window {
		s = &st{firstFail: now}
		b.state[key] = s
	}

	s.failCount++
	if s.failCount >= b.threshold && (s.openUntil.IsZero() || !now.Before(s.openUntil)) {
		s.openUntil = now.Add(b.openFor)
		return true
	}
	return false
}
