// Package jitter считает задержки повторов с экспоненциальным ростом и случайной
// добавкой, чтобы переподключения не приходили к брокеру и базе одновременно.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultFactor — добавка до 50% к задержке.
const DefaultFactor = 0.5

// Backoff хранит параметры повторов. Безопасен для конкурентного использования.
type Backoff struct {
	base   time.Duration
	max    time.Duration
	factor float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBackoff создаёт Backoff. factor вне [0, 1] заменяется на DefaultFactor.
func NewBackoff(base, max time.Duration, factor float64) *Backoff {
	return NewBackoffWithSource(base, max, factor, rand.NewSource(time.Now().UnixNano()))
}

// NewBackoffWithSource создаёт Backoff с заданным источником случайности, в тестах детерминированным.
func NewBackoffWithSource(base, max time.Duration, factor float64, src rand.Source) *Backoff {
	if factor < 0 || factor > 1 {
		factor = DefaultFactor
	}
	if max < base {
		max = base
	}

	return &Backoff{
		base:   base,
		max:    max,
		factor: factor,
		rng:    rand.New(src),
	}
}

// Delay возвращает задержку перед попыткой attempt (с нуля):
// base*2^attempt, не больше max, плюс добавка в [0, factor) от этого значения.
func (b *Backoff) Delay(attempt int) time.Duration {
	d := b.base
	for i := 0; i < attempt && d < b.max; i++ {
		d *= 2
	}
	if d > b.max {
		d = b.max
	}

	b.mu.Lock()
	extra := b.rng.Float64() * b.factor * float64(d)
	b.mu.Unlock()

	return d + time.Duration(extra)
}

// Max — верхняя граница задержки с учётом добавки.
func (b *Backoff) Max() time.Duration {
	return b.max + time.Duration(b.factor*float64(b.max))
}
